package dto

import "github.com/eleven-am/scene-narrator/internal/scene"

type NarrateRequest struct {
	Objects   []scene.DetectedObject `json:"objects"`
	Timestamp string                 `json:"timestamp" example:"12:00:01"`
}

// NarrationResponse carries exactly one of Narration or Error.
type NarrationResponse struct {
	Narration *string `json:"narration,omitempty" example:"Two people stroll side by side beneath the morning light."`
	Error     *string `json:"error,omitempty" example:"API key not valid. Please pass a valid API key."`
}
