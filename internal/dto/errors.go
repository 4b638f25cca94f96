package dto

type ValidationError struct {
	Field   string `json:"field" example:"/objects/0/count"`
	Message string `json:"message" example:"expected integer, but got number"`
}
