// Package localize machine-translates gettext catalogs.
//
// For every target language it loads (or creates) the catalog, collects
// the messages that need a translation, sends their msgids through a
// translate.Orchestrator in one batch and writes the results back.
package localize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/minios-linux/autotrans/catalog"
	"github.com/minios-linux/autotrans/langtag"
	"github.com/minios-linux/autotrans/translate"
)

// Generator is written to the X-Generator header of updated catalogs.
const Generator = "autotrans"

// Task is one catalog to translate.
type Task struct {
	// Lang is the target language.
	Lang string
	// Path is the catalog file. It is created from Options.Template when
	// missing.
	Path string
}

// Options controls Run.
type Options struct {
	Provider translate.Provider
	// SourceLang is the msgid language, or langtag.Auto to detect it per
	// catalog.
	SourceLang  string
	Selection   catalog.Selection
	MaxSegments int
	// SetFuzzy flags new translations fuzzy; otherwise retranslated fuzzy
	// messages lose the flag.
	SetFuzzy bool
	// Template, when set, creates missing catalogs and is merged into
	// existing ones before translation.
	Template *catalog.Catalog
	// DryRun counts pending messages without translating or writing.
	DryRun bool
	// MaxConcurrent is the number of catalogs translated at once.
	MaxConcurrent int
	Logger        *slog.Logger
	OnProgress    func(lang string, done, total int)
	// Now stamps PO-Revision-Date. Defaults to time.Now.
	Now func() time.Time
}

// Result describes what happened to one catalog.
type Result struct {
	Lang       string
	Path       string
	Source     string
	Pending    int
	Translated int
	Chunks     int
	Warnings   int
	Created    bool
	Written    bool
}

// Run translates every task. Failures of single languages are collected
// into a *multierror.Error and do not stop the others; a cancelled
// context does. Results are returned in task order.
func Run(ctx context.Context, tasks []Task, opts Options) ([]Result, error) {
	if opts.Provider == nil && !opts.DryRun {
		return nil, errors.New("no translation provider")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	results := make([]Result, len(tasks))
	var (
		mu   sync.Mutex
		errs *multierror.Error
	)
	runParallel(ctx, len(tasks), opts.MaxConcurrent, func(ctx context.Context, i int) {
		res, err := translateCatalog(ctx, tasks[i], opts)
		results[i] = res
		if err != nil {
			mu.Lock()
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", tasks[i].Lang, err))
			mu.Unlock()
		}
	})
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, errs.ErrorOrNil()
}

// runParallel calls fn for 0..n-1 with at most limit calls in flight.
func runParallel(ctx context.Context, n, limit int, fn func(context.Context, int)) {
	if limit <= 0 {
		limit = 1
	}
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for i := range n {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() {
				<-sem
				wg.Done()
			}()
			fn(ctx, i)
		}()
	}
	wg.Wait()
}

// Load opens the catalog of task, creating or merging it from template
// when one is given.
func Load(task Task, template *catalog.Catalog) (cat *catalog.Catalog, created bool, err error) {
	cat, err = catalog.ParseFile(task.Path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && template != nil:
		return catalog.FromTemplate(template, task.Lang), true, nil
	case err != nil:
		return nil, false, err
	case template != nil:
		cat = catalog.Merge(cat, template)
	}
	if cat.Language() == "" {
		cat.SetHeaderField("Language", task.Lang)
	}
	return cat, false, nil
}

func translateCatalog(ctx context.Context, task Task, opts Options) (Result, error) {
	res := Result{Lang: task.Lang, Path: task.Path}
	log := opts.Logger.With("lang", task.Lang)

	cat, created, err := Load(task, opts.Template)
	if err != nil {
		return res, err
	}
	res.Created = created

	pending := cat.Pending(opts.Selection)
	res.Pending = len(pending)
	if opts.DryRun {
		return res, nil
	}
	if len(pending) == 0 {
		if created || opts.Template != nil {
			return res, save(cat, task.Path, &res, opts)
		}
		return res, nil
	}

	texts, slots := collect(pending)

	res.Source, err = sourceLanguage(opts.SourceLang, texts)
	if err != nil {
		return res, err
	}
	target, err := langtag.Normalize(task.Lang)
	if err != nil {
		return res, err
	}

	log.Info("translating catalog", "messages", len(pending), "texts", len(texts), "source", res.Source)
	orch := translate.NewOrchestrator(opts.Provider, translate.Options{
		MaxSegments: opts.MaxSegments,
		Logger:      log,
		OnProgress: func(done, total int) {
			if opts.OnProgress != nil {
				opts.OnProgress(task.Lang, done, total)
			}
		},
	})
	out, err := orch.Translate(ctx, translate.Batch{
		Texts:     texts,
		Direction: translate.Direction{Source: res.Source, Target: target},
	})
	if err != nil {
		return res, err
	}
	res.Chunks = out.Chunks
	res.Warnings = len(out.Warnings)

	nplurals := cat.NPlurals()
	for i, e := range pending {
		singular := out.Translations[slots[i]]
		plural := singular
		if e.IsPlural() {
			plural = out.Translations[slots[i]+1]
		}
		if singular == "" {
			log.Warn("empty translation", "msgid", e.MsgID)
			continue
		}
		e.Fill(singular, plural, nplurals)
		e.SetFuzzy(opts.SetFuzzy)
		res.Translated++
	}

	return res, save(cat, task.Path, &res, opts)
}

// collect flattens msgids and msgid_plurals into one batch. slots[i] is
// the index of the i-th entry's msgid; its plural, if any, follows it.
func collect(entries []*catalog.Entry) (texts []string, slots []int) {
	slots = make([]int, len(entries))
	for i, e := range entries {
		slots[i] = len(texts)
		texts = append(texts, e.MsgID)
		if e.IsPlural() {
			texts = append(texts, e.MsgIDPlural)
		}
	}
	return texts, slots
}

func sourceLanguage(configured string, texts []string) (string, error) {
	if configured == "" {
		return translate.DefaultSourceLanguage, nil
	}
	if configured != langtag.Auto {
		return langtag.Normalize(configured)
	}
	return langtag.Detect(texts)
}

func save(cat *catalog.Catalog, path string, res *Result, opts Options) error {
	cat.Touch(Generator, opts.Now())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating catalog directory: %w", err)
	}
	if err := cat.WriteFile(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	res.Written = true
	return nil
}
