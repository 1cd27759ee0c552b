// Package gcloud is a translate.Provider backed by the metered Google Cloud
// Translation API (v2).
//
// Calls are real batch calls, capped at MaxSegments texts each; larger
// inputs are split in order. The provider sends plain text and does not
// restore placeholders.
package gcloud

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/api/option"
	translatev2 "google.golang.org/api/translate/v2"

	"github.com/minios-linux/autotrans/translate"
)

// Name is the registry name of this provider.
const Name = "google"

// DefaultMaxSegments is the API limit of text segments per request; going
// over it fails with "Too many text segments".
const DefaultMaxSegments = 128

func init() {
	translate.Register(Name, func(ctx context.Context, cfg translate.ProviderConfig) (translate.Provider, error) {
		return New(ctx, cfg.APIKey, WithMaxSegments(cfg.MaxSegments), WithLogger(cfg.Logger))
	})
}

type listFunc func(ctx context.Context, texts []string, target, source string) ([]string, error)

// Provider translates through the Cloud Translation API.
type Provider struct {
	list        listFunc
	maxSegments int
	logger      *slog.Logger
	clientOpts  []option.ClientOption
}

// Option configures a Provider.
type Option func(*Provider)

// WithMaxSegments overrides the per-request segment ceiling (ignored when
// n <= 0).
func WithMaxSegments(n int) Option {
	return func(p *Provider) {
		if n > 0 {
			p.maxSegments = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClientOptions passes extra options to the API client, such as a
// custom endpoint.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(p *Provider) { p.clientOpts = append(p.clientOpts, opts...) }
}

// New returns a Provider authenticated with apiKey. An empty key is a
// configuration error.
func New(ctx context.Context, apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, &translate.ConfigurationError{
			Setting: "api key",
			Err:     fmt.Errorf("%w: the %s provider needs a Google Cloud API key", translate.ErrMissingCredential, Name),
		}
	}

	p := &Provider{
		maxSegments: DefaultMaxSegments,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}

	svc, err := translatev2.NewService(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, p.clientOpts...)...)
	if err != nil {
		return nil, &translate.ConfigurationError{Setting: "google client", Err: err}
	}
	p.list = func(ctx context.Context, texts []string, target, source string) ([]string, error) {
		call := svc.Translations.List(texts, target).Format("text").Context(ctx)
		if source != "" {
			call = call.Source(source)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(resp.Translations))
		for _, tr := range resp.Translations {
			out = append(out, tr.TranslatedText)
		}
		return out, nil
	}
	return p, nil
}

// MaxSegments returns the per-request segment ceiling.
func (p *Provider) MaxSegments() int { return p.maxSegments }

// TranslateString translates a single text.
func (p *Provider) TranslateString(ctx context.Context, text, target, source string) (string, error) {
	out, err := p.list(ctx, []string{text}, target, source)
	if err != nil {
		return "", &translate.ProviderError{Provider: Name, Op: "translate", Err: err}
	}
	if len(out) != 1 {
		return "", &translate.ProviderError{Provider: Name, Op: "translate", Err: translate.ErrSegmentMismatch}
	}
	return out[0], nil
}

// TranslateStrings translates texts in batches of at most MaxSegments. Only
// optimized=false is supported: results are returned as a complete slice.
func (p *Provider) TranslateStrings(ctx context.Context, texts []string, target, source string, optimized bool) ([]string, error) {
	if optimized {
		return nil, translate.ErrOptimizedUnsupported
	}
	out, err := translate.Batched(ctx, texts, p.maxSegments, func(ctx context.Context, chunk []string) ([]string, error) {
		p.logger.Debug("google translate request", "segments", len(chunk), "target", target)
		return p.list(ctx, chunk, target, source)
	})
	if err != nil {
		return nil, &translate.ProviderError{Provider: Name, Op: "translate_strings", Err: err}
	}
	return out, nil
}
