package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minios-linux/autotrans/placeholder"
)

// Batch is an ordered group of texts translated in one direction.
type Batch struct {
	Texts     []string
	Direction Direction
	// MaxSegments caps the number of texts per provider call (0 = provider
	// default).
	MaxSegments int
}

// Result holds translations index-aligned with the batch texts.
type Result struct {
	Translations []string
	// Chunks is the number of provider calls that were made.
	Chunks int
	// Warnings lists placeholder mismatches between sources and
	// translations. They are informational only.
	Warnings []placeholder.Warning
}

// Options controls an Orchestrator.
type Options struct {
	// MaxSegments caps texts per provider call for every batch (0 = no cap
	// beyond the batch and provider ones).
	MaxSegments int
	// OnProgress is called after each provider call with the number of
	// texts done so far.
	OnProgress func(done, total int)
	// Logger receives progress and warnings. Defaults to slog.Default().
	Logger *slog.Logger
}

// Orchestrator runs batches through a provider, one call at a time.
type Orchestrator struct {
	provider Provider
	opts     Options
	logger   *slog.Logger
}

// NewOrchestrator returns an Orchestrator using p.
func NewOrchestrator(p Provider, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{provider: p, opts: opts, logger: logger}
}

// Translate translates every text of b and returns the results in input
// order. Providers that restore placeholders receive the texts one at a
// time and encode them themselves; other providers receive raw texts in chunks no larger than the
// smallest applicable segment ceiling. b.Texts is never modified.
//
// A provider failure aborts the batch. Placeholder mismatches never do.
func (o *Orchestrator) Translate(ctx context.Context, b Batch) (Result, error) {
	dir, err := NormalizeDirection(b.Direction)
	if err != nil {
		return Result{}, err
	}
	if len(b.Texts) == 0 {
		return Result{Translations: []string{}}, nil
	}

	if p, ok := o.provider.(Preparer); ok {
		if err := p.Prepare(ctx, dir); err != nil {
			return Result{}, fmt.Errorf("preparing %s: %w", dir, err)
		}
	}

	var res Result
	if restores(o.provider) {
		res, err = o.translateEach(ctx, b.Texts, dir)
	} else {
		res, err = o.translateChunked(ctx, b.Texts, dir, b.MaxSegments)
	}
	if err != nil {
		return Result{}, fmt.Errorf("translating %d messages %s: %w", len(b.Texts), dir, err)
	}

	for i, text := range b.Texts {
		if w := placeholder.Compare(text, res.Translations[i]); w != nil {
			res.Warnings = append(res.Warnings, *w)
			o.logger.Warn("placeholders differ after translation",
				"direction", dir.String(),
				"index", i,
				"detail", w.Detail,
			)
		}
	}
	return res, nil
}

func (o *Orchestrator) translateEach(ctx context.Context, texts []string, dir Direction) (Result, error) {
	out := make([]string, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		got, err := o.provider.TranslateStrings(ctx, []string{text}, dir.Target, dir.Source, false)
		if err != nil {
			return Result{}, fmt.Errorf("message %d: %w", i+1, err)
		}
		if len(got) != 1 {
			return Result{}, fmt.Errorf("message %d: %w: sent 1, got %d", i+1, ErrSegmentMismatch, len(got))
		}
		out[i] = got[0]
		o.progress(i+1, len(texts))
	}
	return Result{Translations: out, Chunks: len(texts)}, nil
}

func (o *Orchestrator) translateChunked(ctx context.Context, texts []string, dir Direction, batchMax int) (Result, error) {
	ceiling := smallestPositive(batchMax, o.opts.MaxSegments, maxSegments(o.provider))
	done, calls := 0, 0
	out, err := Batched(ctx, texts, ceiling, func(ctx context.Context, chunk []string) ([]string, error) {
		got, err := o.provider.TranslateStrings(ctx, chunk, dir.Target, dir.Source, false)
		if err != nil {
			return nil, err
		}
		calls++
		done += len(chunk)
		o.logger.Debug("chunk translated", "direction", dir.String(), "size", len(chunk), "done", done)
		o.progress(done, len(texts))
		return got, nil
	})
	if err != nil {
		return Result{}, err
	}
	return Result{Translations: out, Chunks: calls}, nil
}

func (o *Orchestrator) progress(done, total int) {
	if o.opts.OnProgress != nil {
		o.opts.OnProgress(done, total)
	}
}

// NormalizeDirection trims dir, defaults an empty source to
// DefaultSourceLanguage and rejects empty or identical pairs.
func NormalizeDirection(dir Direction) (Direction, error) {
	dir.Source = strings.TrimSpace(dir.Source)
	dir.Target = strings.TrimSpace(dir.Target)
	if dir.Source == "" {
		dir.Source = DefaultSourceLanguage
	}
	if dir.Target == "" {
		return dir, fmt.Errorf("%w: target language is required", ErrInvalidDirection)
	}
	if strings.EqualFold(dir.Source, dir.Target) {
		return dir, fmt.Errorf("%w: source and target are both %q", ErrInvalidDirection, dir.Source)
	}
	return dir, nil
}

func smallestPositive(vals ...int) int {
	best := 0
	for _, v := range vals {
		if v > 0 && (best == 0 || v < best) {
			best = v
		}
	}
	return best
}
