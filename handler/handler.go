// Package handler serves batch translation requests for the Lambda entry
// point.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/minios-linux/autotrans/translate"
)

// Request is the input of a translation invocation.
type Request struct {
	Texts      []string `json:"texts"`
	SourceLang string   `json:"sourceLang"`
	TargetLang string   `json:"targetLang"`
	// MaxSegments optionally lowers the provider's batch ceiling.
	MaxSegments int `json:"maxSegments,omitempty"`
}

// Response is the output of a translation invocation. Failures are
// reported in Error so that callers always get a JSON body.
type Response struct {
	Translations    []string `json:"translations,omitempty"`
	ChunksProcessed int      `json:"chunksProcessed,omitempty"`
	Warnings        []string `json:"warnings,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// WarmupSource identifies scheduled keep-warm events.
const WarmupSource = "warmup"

// WarmupResponse answers a keep-warm event.
type WarmupResponse struct {
	Status string `json:"status"`
}

// Handler translates requests with one provider.
type Handler struct {
	orch   *translate.Orchestrator
	logger *slog.Logger
}

// New returns a Handler backed by p.
func New(p translate.Provider, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		orch:   translate.NewOrchestrator(p, translate.Options{Logger: logger}),
		logger: logger,
	}
}

// Invoke decodes a raw event and dispatches it: keep-warm events are
// acknowledged, everything else is a translation Request.
func (h *Handler) Invoke(ctx context.Context, event json.RawMessage) (any, error) {
	var probe struct {
		Source string `json:"source"`
	}
	if err := json.Unmarshal(event, &probe); err == nil && probe.Source == WarmupSource {
		return WarmupResponse{Status: "warm"}, nil
	}

	var req Request
	if err := json.Unmarshal(event, &req); err != nil {
		return nil, fmt.Errorf("decoding request: %w", err)
	}
	return h.Handle(ctx, req), nil
}

// Handle translates req.Texts.
func (h *Handler) Handle(ctx context.Context, req Request) *Response {
	if err := validate(req); err != nil {
		return &Response{Error: err.Error()}
	}
	if len(req.Texts) == 0 {
		return &Response{Translations: []string{}}
	}

	res, err := h.orch.Translate(ctx, translate.Batch{
		Texts:       req.Texts,
		Direction:   translate.Direction{Source: req.SourceLang, Target: req.TargetLang},
		MaxSegments: req.MaxSegments,
	})
	if err != nil {
		h.logger.Error("translation failed", "source", req.SourceLang, "target", req.TargetLang, "texts", len(req.Texts), "err", err)
		return &Response{Error: fmt.Sprintf("translation failed: %v", err)}
	}

	out := &Response{Translations: res.Translations, ChunksProcessed: res.Chunks}
	for _, w := range res.Warnings {
		out.Warnings = append(out.Warnings, w.Error())
	}
	return out
}

func validate(req Request) error {
	switch {
	case req.Texts == nil:
		return errors.New("texts is required")
	case req.TargetLang == "":
		return errors.New("targetLang is required")
	case req.MaxSegments < 0:
		return errors.New("maxSegments must not be negative")
	}
	_, err := translate.NormalizeDirection(translate.Direction{Source: req.SourceLang, Target: req.TargetLang})
	return err
}
