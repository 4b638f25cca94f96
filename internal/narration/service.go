package narration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/eleven-am/scene-narrator/internal/scene"
)

// Recorder observes finished requests. Recording failures never change
// the result returned to the caller.
type Recorder interface {
	Record(ctx context.Context, outcome Outcome) error
}

// Recorders fans an outcome out to every recorder in order.
type Recorders []Recorder

func (rs Recorders) Record(ctx context.Context, outcome Outcome) error {
	var errs []error
	for _, r := range rs {
		if r == nil {
			continue
		}
		if err := r.Record(ctx, outcome); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type modelNamer interface {
	Model() string
}

type Service struct {
	builder   *scene.Builder
	generator Generator
	decoder   *Decoder
	recorder  Recorder
	logger    *slog.Logger
}

func NewService(builder *scene.Builder, generator Generator, decoder *Decoder, recorder Recorder, logger *slog.Logger) *Service {
	if builder == nil {
		builder = scene.NewBuilder(nil)
	}
	if decoder == nil {
		decoder = MustDecoder()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		builder:   builder,
		generator: generator,
		decoder:   decoder,
		recorder:  recorder,
		logger:    logger.With("component", "narration"),
	}
}

// Narrate runs one narration cycle. It always returns a Result with
// exactly one of narration or error populated.
func (s *Service) Narrate(ctx context.Context, req Request) Result {
	start := time.Now()
	tmpl := s.builder.Template()
	prompt := tmpl.Render(req.Objects, req.Timestamp)

	var result Result
	text, err := s.generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("narration failed",
			"error", err,
			"objects", len(req.Objects),
			"timestamp", req.Timestamp,
		)
		result = Failure(NewCollaboratorError(err))
	} else {
		result = Success(strings.TrimSpace(text))
	}

	s.record(ctx, Outcome{
		ObservedAt:  req.Timestamp,
		ObjectCount: len(req.Objects),
		Variant:     tmpl.Name(),
		Model:       s.Model(),
		Result:      result,
		Latency:     time.Since(start),
	})
	return result
}

// NarrateJSON decodes a raw request body and narrates it. Malformed
// bodies produce a validation failure without reaching the generator.
func (s *Service) NarrateJSON(ctx context.Context, body []byte) Result {
	start := time.Now()
	req, err := s.decoder.Decode(body)
	if err != nil {
		var nerr *Error
		if !errors.As(err, &nerr) {
			nerr = NewValidationError(err)
		}
		s.logger.Debug("rejected narration request", "error", nerr)
		result := Failure(nerr)
		s.record(ctx, Outcome{
			Variant: s.builder.Template().Name(),
			Model:   s.Model(),
			Result:  result,
			Latency: time.Since(start),
		})
		return result
	}
	return s.Narrate(ctx, req)
}

func (s *Service) PromptVariant() string {
	return s.builder.Template().Name()
}

func (s *Service) Model() string {
	if m, ok := s.generator.(modelNamer); ok {
		return m.Model()
	}
	return ""
}

func (s *Service) generate(ctx context.Context, prompt string) (text string, err error) {
	if s.generator == nil {
		return "", errors.New("no text generator configured")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrGeneratorPanic, r)
		}
	}()
	return s.generator.Generate(ctx, prompt)
}

func (s *Service) record(ctx context.Context, outcome Outcome) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(context.WithoutCancel(ctx), outcome); err != nil {
		s.logger.Warn("failed to record narration outcome", "error", err)
	}
}
