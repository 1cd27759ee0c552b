// Package gtrans is a translate.Provider backed by the free, unofficial
// Google Translate web endpoint.
//
// The endpoint has no batch call: TranslateStrings encodes one message after
// another, sends it as plain text and restores placeholders in the answer.
// It is the only provider that does so. The endpoint has no HTML switch;
// entities it returns are decoded during restoration.
package gtrans

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bregydoc/gtranslate"

	"github.com/minios-linux/autotrans/placeholder"
	"github.com/minios-linux/autotrans/translate"
)

// Name is the registry name of this provider.
const Name = "web"

func init() {
	translate.Register(Name, func(_ context.Context, cfg translate.ProviderConfig) (translate.Provider, error) {
		return New(
			WithLogger(cfg.Logger),
			WithArtifacts(placeholder.DefaultArtifacts().Merge(cfg.Artifacts)),
		), nil
	})
}

type callFunc func(text string, params gtranslate.TranslationParams) (string, error)

// Provider translates through the web endpoint.
type Provider struct {
	call      callFunc
	artifacts placeholder.ArtifactTable
	logger    *slog.Logger

	mu        sync.Mutex
	restorers map[translate.Direction]*placeholder.Restorer
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for restoration warnings.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithArtifacts replaces the artifact cleanup table.
func WithArtifacts(t placeholder.ArtifactTable) Option {
	return func(p *Provider) { p.artifacts = t }
}

// New returns a web Provider.
func New(opts ...Option) *Provider {
	p := &Provider{
		call:      gtranslate.TranslateWithParams,
		artifacts: placeholder.DefaultArtifacts(),
		logger:    slog.Default(),
		restorers: map[translate.Direction]*placeholder.Restorer{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RestoresPlaceholders reports that this provider restores placeholders.
func (p *Provider) RestoresPlaceholders() bool { return true }

// Prepare learns how the endpoint spells the sentinel markers for dir. The
// result is kept for the lifetime of the provider.
func (p *Provider) Prepare(ctx context.Context, dir translate.Direction) error {
	_, err := p.restorerFor(ctx, dir)
	return err
}

// TranslateString translates text without any placeholder handling.
func (p *Provider) TranslateString(ctx context.Context, text, target, source string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	out, err := p.call(text, gtranslate.TranslationParams{From: source, To: target})
	if err != nil {
		return "", &translate.ProviderError{Provider: Name, Op: "translate", Err: err}
	}
	return out, nil
}

// TranslateStrings translates texts one by one, in order. Each text is sent
// as placeholder.Encode(text) and its placeholders are restored from the
// original. optimized is ignored: results are always a materialised slice.
func (p *Provider) TranslateStrings(ctx context.Context, texts []string, target, source string, _ bool) ([]string, error) {
	dir := translate.Direction{Source: source, Target: target}
	r, err := p.restorerFor(ctx, dir)
	if err != nil {
		return nil, err
	}

	out := make([]string, len(texts))
	for i, item := range texts {
		raw, err := p.TranslateString(ctx, placeholder.Encode(item), target, source)
		if err != nil {
			return nil, fmt.Errorf("string %d: %w", i+1, err)
		}
		out[i], _ = r.Restore(item, raw)
		p.logger.Debug("translated", "direction", dir.String(), "source", item, "result", out[i])
	}
	return out, nil
}

func (p *Provider) restorerFor(ctx context.Context, dir translate.Direction) (*placeholder.Restorer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if r, ok := p.restorers[dir]; ok {
		return r, nil
	}
	markers, err := placeholder.BuildMarkers(ctx, dir, func(ctx context.Context, text string) (string, error) {
		return p.TranslateString(ctx, text, dir.Target, dir.Source)
	})
	if err != nil {
		return nil, err
	}
	p.logger.Debug("sentinel markers", "direction", dir.String(), "number", markers.Number, "item", markers.Item)
	r := placeholder.NewRestorer(markers, p.artifacts, p.logger)
	p.restorers[dir] = r
	return r, nil
}
