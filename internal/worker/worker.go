// Package worker serves narration requests over NATS request/reply.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eleven-am/scene-narrator/internal/narration"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	DefaultSubject = "narration.request"
	DefaultQueue   = "scene-narrator"

	RequestIDHeader = "Narration-Request-Id"
)

var ErrNoConnection = errors.New("nats connection is nil")

// Narrator is the part of the narration service the worker needs.
type Narrator interface {
	NarrateJSON(ctx context.Context, body []byte) narration.Result
}

// NatsWorker answers each message on its subject with the same JSON body
// the HTTP endpoint returns.
type NatsWorker struct {
	conn     *nats.Conn
	subject  string
	queue    string
	narrator Narrator
	logger   *slog.Logger
}

func NewNatsWorker(conn *nats.Conn, subject, queue string, narrator Narrator, logger *slog.Logger) (*NatsWorker, error) {
	if conn == nil {
		return nil, ErrNoConnection
	}
	if subject == "" {
		subject = DefaultSubject
	}
	return &NatsWorker{
		conn:     conn,
		subject:  subject,
		queue:    queue,
		narrator: narrator,
		logger:   logger.With("component", "nats_worker", "subject", subject),
	}, nil
}

// Run subscribes and blocks until ctx is done, then drains the subscription.
func (w *NatsWorker) Run(ctx context.Context) error {
	handler := func(msg *nats.Msg) { w.handleMessage(ctx, msg) }

	var (
		sub *nats.Subscription
		err error
	)
	if w.queue != "" {
		sub, err = w.conn.QueueSubscribe(w.subject, w.queue, handler)
	} else {
		sub, err = w.conn.Subscribe(w.subject, handler)
	}
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}
	if err := w.conn.Flush(); err != nil {
		return fmt.Errorf("failed to flush subscription: %w", err)
	}

	w.logger.Info("nats worker listening", "queue", w.queue)

	<-ctx.Done()

	if err := sub.Drain(); err != nil {
		return fmt.Errorf("failed to drain subscription: %w", err)
	}
	return nil
}

func (w *NatsWorker) handleMessage(ctx context.Context, msg *nats.Msg) {
	requestID := ""
	if msg.Header != nil {
		requestID = msg.Header.Get(RequestIDHeader)
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	log := w.logger.With("request_id", requestID)

	result := w.narrator.NarrateJSON(context.WithoutCancel(ctx), msg.Data)
	if !result.Succeeded() {
		log.Warn("narration request failed", "kind", result.Err.Kind, "error", result.Err)
	}

	if msg.Reply == "" {
		log.Debug("no reply subject, dropping narration result")
		return
	}

	if err := w.respond(msg, requestID, result); err != nil {
		log.Error("failed to publish narration reply", "error", err)
	}
}

func (w *NatsWorker) respond(msg *nats.Msg, requestID string, result narration.Result) error {
	data, err := json.Marshal(result.Response())
	if err != nil {
		return fmt.Errorf("failed to marshal reply: %w", err)
	}

	reply := nats.NewMsg(msg.Reply)
	reply.Data = data
	reply.Header.Set(RequestIDHeader, requestID)
	if err := msg.RespondMsg(reply); err != nil {
		return fmt.Errorf("failed to publish reply: %w", err)
	}
	return nil
}
