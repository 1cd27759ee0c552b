package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minios-linux/autotrans/placeholder"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// batchProvider prefixes every text with the target language and records
// the size of each call.
type batchProvider struct {
	max   int
	calls []int
	err   error
	short bool
}

func (p *batchProvider) TranslateString(_ context.Context, text, target, _ string) (string, error) {
	return target + ":" + text, nil
}

func (p *batchProvider) TranslateStrings(ctx context.Context, texts []string, target, source string, optimized bool) ([]string, error) {
	if optimized {
		return nil, ErrOptimizedUnsupported
	}
	if p.err != nil {
		return nil, &ProviderError{Provider: "fake", Op: "translate_strings", Err: p.err}
	}
	if p.max > 0 && len(texts) > p.max {
		return nil, fmt.Errorf("too many segments: %d", len(texts))
	}
	p.calls = append(p.calls, len(texts))
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		s, _ := p.TranslateString(ctx, t, target, source)
		out = append(out, s)
	}
	if p.short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (p *batchProvider) MaxSegments() int { return p.max }

// restoringProvider encodes each text, echoes it with a capital first letter
// and restores it, the way a provider that mangles nothing would.
type restoringProvider struct {
	prepared []Direction
	received []string
	encoded  []string
}

func (p *restoringProvider) RestoresPlaceholders() bool { return true }

func (p *restoringProvider) Prepare(_ context.Context, dir Direction) error {
	p.prepared = append(p.prepared, dir)
	return nil
}

func (p *restoringProvider) TranslateString(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}

func (p *restoringProvider) TranslateStrings(_ context.Context, texts []string, target, source string, _ bool) ([]string, error) {
	r := placeholder.NewRestorer(placeholder.CanonicalMarkers(Direction{Source: source, Target: target}), nil, quietLogger())
	out := make([]string, len(texts))
	for i, t := range texts {
		p.received = append(p.received, t)
		enc := placeholder.Encode(t)
		p.encoded = append(p.encoded, enc)
		out[i], _ = r.Restore(t, strings.ToUpper(enc[:1])+enc[1:])
	}
	return out, nil
}

func numbered(n int) []string {
	texts := make([]string, n)
	for i := range texts {
		texts[i] = fmt.Sprintf("msg %d", i)
	}
	return texts
}

// ---------------------------------------------------------------------------
// Chunk / Batched
// ---------------------------------------------------------------------------

func TestChunk(t *testing.T) {
	assert.Nil(t, Chunk([]int{}, 3))
	assert.Equal(t, [][]int{{1, 2, 3}}, Chunk([]int{1, 2, 3}, 0))
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, Chunk([]int{1, 2, 3, 4, 5}, 2))
}

func TestBatchedMatchesUnboundedCall(t *testing.T) {
	for _, n := range []int{0, 1, 127, 128, 129, 256, 300} {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			texts := numbered(n)
			p := &batchProvider{max: 128}
			call := func(ctx context.Context, chunk []string) ([]string, error) {
				return p.TranslateStrings(ctx, chunk, "fr", "en", false)
			}

			got, err := Batched(context.Background(), texts, 128, call)
			require.NoError(t, err)

			unbounded := &batchProvider{}
			want, err := unbounded.TranslateStrings(context.Background(), texts, "fr", "en", false)
			require.NoError(t, err)

			assert.Equal(t, want, got)
			assert.Len(t, p.calls, (n+127)/128)
			for _, size := range p.calls {
				assert.LessOrEqual(t, size, 128)
			}
		})
	}
}

func TestBatchedEmptyDoesNotCall(t *testing.T) {
	called := false
	got, err := Batched(context.Background(), nil, 10, func(context.Context, []string) ([]string, error) {
		called = true
		return nil, nil
	})
	require.NoError(t, err)
	assert.False(t, called)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBatchedSegmentMismatch(t *testing.T) {
	p := &batchProvider{short: true}
	_, err := Batched(context.Background(), numbered(3), 2, func(ctx context.Context, chunk []string) ([]string, error) {
		return p.TranslateStrings(ctx, chunk, "fr", "en", false)
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSegmentMismatch)
}

func TestBatchedCallsDoNotShareResults(t *testing.T) {
	p := &batchProvider{max: 2}
	call := func(ctx context.Context, chunk []string) ([]string, error) {
		return p.TranslateStrings(ctx, chunk, "de", "en", false)
	}

	first, err := Batched(context.Background(), []string{"a", "b", "c"}, 2, call)
	require.NoError(t, err)
	second, err := Batched(context.Background(), []string{"x", "y", "z", "w", "v"}, 2, call)
	require.NoError(t, err)

	assert.Equal(t, []string{"de:a", "de:b", "de:c"}, first)
	assert.Equal(t, []string{"de:x", "de:y", "de:z", "de:w", "de:v"}, second)
}

// ---------------------------------------------------------------------------
// Orchestrator
// ---------------------------------------------------------------------------

func TestOrchestratorChunksBySmallestCeiling(t *testing.T) {
	p := &batchProvider{max: 4}
	var progress []int
	o := NewOrchestrator(p, Options{
		MaxSegments: 10,
		OnProgress:  func(done, _ int) { progress = append(progress, done) },
		Logger:      quietLogger(),
	})

	texts := numbered(7)
	input := append([]string(nil), texts...)
	res, err := o.Translate(context.Background(), Batch{Texts: texts, Direction: Direction{Source: "en", Target: "fr"}, MaxSegments: 3})
	require.NoError(t, err)

	assert.Equal(t, []int{3, 3, 1}, p.calls)
	assert.Equal(t, 3, res.Chunks)
	assert.Equal(t, []int{3, 6, 7}, progress)
	require.Len(t, res.Translations, 7)
	for i, tr := range res.Translations {
		assert.Equal(t, "fr:"+texts[i], tr)
	}
	assert.Equal(t, input, texts, "input must not be mutated")
}

func TestOrchestratorRestoringProvider(t *testing.T) {
	p := &restoringProvider{}
	o := NewOrchestrator(p, Options{Logger: quietLogger()})

	texts := []string{"hello %(name)s", "%d files", "welcome {user}"}
	res, err := o.Translate(context.Background(), Batch{Texts: texts, Direction: Direction{Target: "fr"}})
	require.NoError(t, err)

	assert.Equal(t, []Direction{{Source: "en", Target: "fr"}}, p.prepared)
	assert.Equal(t, texts, p.received, "restoring providers get the original messages")
	assert.Equal(t, []string{"hello __name__~s~", "[[xnum]] files", "welcome {user}"}, p.encoded)
	assert.Equal(t, []string{"Hello %(name)s", "%d files", "Welcome {user}"}, res.Translations)
	assert.Equal(t, 3, res.Chunks)
	assert.Empty(t, res.Warnings)
}

func TestOrchestratorReportsPlaceholderMismatch(t *testing.T) {
	p := &batchProvider{}
	o := NewOrchestrator(p, Options{Logger: quietLogger()})

	res, err := o.Translate(context.Background(), Batch{Texts: []string{"plain", "%(n)d left"}, Direction: Direction{Source: "en", Target: "fr"}})
	require.NoError(t, err)
	assert.Empty(t, res.Warnings, "prefixing keeps placeholders")

	p2 := &dropPlaceholders{}
	res, err = NewOrchestrator(p2, Options{Logger: quietLogger()}).Translate(context.Background(),
		Batch{Texts: []string{"%(n)d left"}, Direction: Direction{Source: "en", Target: "fr"}})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, placeholder.WarnSignatureMismatch, res.Warnings[0].Kind)
}

type dropPlaceholders struct{}

func (dropPlaceholders) TranslateString(context.Context, string, string, string) (string, error) {
	return "reste", nil
}

func (d dropPlaceholders) TranslateStrings(ctx context.Context, texts []string, _, _ string, _ bool) ([]string, error) {
	out := make([]string, len(texts))
	for i := range texts {
		out[i], _ = d.TranslateString(ctx, "", "", "")
	}
	return out, nil
}

func TestOrchestratorPropagatesProviderError(t *testing.T) {
	quota := errors.New("quota exceeded")
	o := NewOrchestrator(&batchProvider{err: quota}, Options{Logger: quietLogger()})

	_, err := o.Translate(context.Background(), Batch{Texts: []string{"a"}, Direction: Direction{Source: "en", Target: "fr"}})
	require.Error(t, err)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "fake", perr.Provider)
	assert.ErrorIs(t, err, quota)
}

func TestOrchestratorEmptyBatch(t *testing.T) {
	p := &batchProvider{}
	res, err := NewOrchestrator(p, Options{}).Translate(context.Background(), Batch{Direction: Direction{Source: "en", Target: "fr"}})
	require.NoError(t, err)
	assert.Empty(t, res.Translations)
	assert.Empty(t, p.calls)
}

func TestNormalizeDirection(t *testing.T) {
	dir, err := NormalizeDirection(Direction{Source: " ", Target: " de "})
	require.NoError(t, err)
	assert.Equal(t, Direction{Source: "en", Target: "de"}, dir)

	_, err = NormalizeDirection(Direction{Source: "en"})
	assert.ErrorIs(t, err, ErrInvalidDirection)

	_, err = NormalizeDirection(Direction{Source: "fr", Target: "FR"})
	assert.ErrorIs(t, err, ErrInvalidDirection)
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

var registerTestProviders sync.Once

func TestResolve(t *testing.T) {
	registerTestProviders.Do(func() {
		Register("test-batch", func(_ context.Context, cfg ProviderConfig) (Provider, error) {
			return &batchProvider{max: cfg.MaxSegments}, nil
		})
		Register("test-broken", func(context.Context, ProviderConfig) (Provider, error) {
			return nil, ErrMissingCredential
		})
	})

	p, err := Resolve(context.Background(), "test-batch", ProviderConfig{MaxSegments: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, maxSegments(p))
	assert.Contains(t, Providers(), "test-batch")

	_, err = Resolve(context.Background(), "nope", ProviderConfig{})
	var cerr *ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, ErrUnknownProvider)

	_, err = Resolve(context.Background(), "test-broken", ProviderConfig{})
	require.ErrorAs(t, err, &cerr)
	assert.ErrorIs(t, err, ErrMissingCredential)

	assert.Panics(t, func() {
		Register("test-batch", func(context.Context, ProviderConfig) (Provider, error) { return nil, nil })
	})
}
