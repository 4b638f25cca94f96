package narration

import (
	"context"
	"time"

	"github.com/eleven-am/scene-narrator/internal/dto"
	"github.com/eleven-am/scene-narrator/internal/scene"
)

// Generator is the text-generation collaborator: one prompt in, one text out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Request is the unit of work for one narration cycle.
type Request struct {
	Objects   []scene.DetectedObject
	Timestamp string
}

func RequestFromDTO(in dto.NarrateRequest) Request {
	return Request{
		Objects:   in.Objects,
		Timestamp: in.Timestamp,
	}
}

// Result holds either a narration or a failure, never both.
type Result struct {
	Narration string
	Err       *Error
}

func Success(narration string) Result {
	return Result{Narration: narration}
}

func Failure(err *Error) Result {
	return Result{Err: err}
}

func (r Result) Succeeded() bool {
	return r.Err == nil
}

func (r Result) Response() dto.NarrationResponse {
	if r.Err != nil {
		msg := r.Err.Error()
		return dto.NarrationResponse{Error: &msg}
	}
	narration := r.Narration
	return dto.NarrationResponse{Narration: &narration}
}

// Outcome describes one finished request for observers.
type Outcome struct {
	ObservedAt  string
	ObjectCount int
	Variant     string
	Model       string
	Result      Result
	Latency     time.Duration
}
