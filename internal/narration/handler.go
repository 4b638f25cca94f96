package narration

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/eleven-am/scene-narrator/internal/shared"
	"github.com/labstack/echo/v4"
)

const maxRequestBytes = 1 << 20

type Handler struct {
	service *Service
	logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With("handler", "narration"),
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/narrate", h.Narrate)
}

// Narrate godoc
// @Summary      Narrate a scene
// @Description  Turns one window of object detections into a single narration for a blind listener. Generator failures are reported in the error field with a 200 status.
// @Tags         narration
// @Accept       json
// @Produce      json
// @Param        request  body      dto.NarrateRequest  true  "Detections and capture timestamp"
// @Success      200      {object}  dto.NarrationResponse
// @Failure      400      {object}  shared.APIError
// @Failure      413      {object}  shared.APIError
// @Router       /v1/narrate [post]
func (h *Handler) Narrate(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxRequestBytes+1))
	if err != nil {
		return shared.BadRequest("invalid_request", "failed to read request body")
	}
	if len(body) > maxRequestBytes {
		return shared.NewAPIError("request_too_large", "request body too large").ToHTTP(http.StatusRequestEntityTooLarge)
	}

	result := h.service.NarrateJSON(c.Request().Context(), body)
	if result.Err != nil && result.Err.Kind == KindValidation {
		apiErr := shared.NewAPIError("invalid_request", result.Err.Error())
		if len(result.Err.Details) > 0 {
			apiErr = apiErr.WithDetails(result.Err.Details)
		}
		return apiErr.ToHTTP(http.StatusBadRequest)
	}

	return c.JSON(http.StatusOK, result.Response())
}
