package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/minios-linux/autotrans/catalog"
	"github.com/minios-linux/autotrans/config"
	"github.com/minios-linux/autotrans/i18n"
	"github.com/minios-linux/autotrans/langtag"
	"github.com/minios-linux/autotrans/localize"
	"github.com/minios-linux/autotrans/settings"
	"github.com/minios-linux/autotrans/translate"
)

// ---------------------------------------------------------------------------
// translate
// ---------------------------------------------------------------------------

type translateFlags struct {
	provider     string
	apiKey       string
	langs        []string
	source       string
	localeDir    string
	domain       string
	template     string
	maxSegments  int
	parallel     int
	includeFuzzy bool
	all          bool
	setFuzzy     bool
	dryRun       bool
}

func newTranslateCmd() *cobra.Command {
	var f translateFlags

	cmd := &cobra.Command{
		Use:   "translate",
		Short: i18n.T("Translate untranslated messages in gettext catalogs"),
		Long: `Translate untranslated messages of every target language.

Catalogs are read from <locale-dir>/<lang>/LC_MESSAGES/<domain>.po.
With --template, missing catalogs are created from the POT file and
existing ones are merged with it first.

Examples:
  autotrans translate --lang de,fr
  autotrans translate --provider google --max-segments 64
  autotrans translate --template po/messages.pot --source auto
  autotrans translate --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTranslate(cmd, f)
		},
	}

	addTranslateFlags(cmd.Flags(), &f)

	return cmd
}

func addTranslateFlags(fl *pflag.FlagSet, f *translateFlags) {
	fl.StringVarP(&f.provider, "provider", "p", config.DefaultProvider, "Translation provider ("+fmt.Sprint(translate.Providers())+")")
	fl.StringVar(&f.apiKey, "api-key", "", "Provider API key (overrides stored credentials)")
	fl.StringSliceVarP(&f.langs, "lang", "l", nil, "Target languages (default: every catalog found)")
	fl.StringVarP(&f.source, "source", "s", config.DefaultSourceLang, "Source language, or \"auto\" to detect it")
	fl.StringVar(&f.localeDir, "locale-dir", config.DefaultLocaleDir, "Directory holding <lang>/LC_MESSAGES catalogs")
	fl.StringVarP(&f.domain, "domain", "d", config.DefaultDomain, "Gettext domain")
	fl.StringVarP(&f.template, "template", "t", "", "POT template to create and update catalogs from")
	fl.IntVar(&f.maxSegments, "max-segments", 0, "Maximum messages per provider request (0 = provider default)")
	fl.IntVarP(&f.parallel, "parallel", "j", 1, "Number of languages translated at once")
	fl.BoolVar(&f.includeFuzzy, "include-fuzzy", false, "Also retranslate fuzzy messages")
	fl.BoolVar(&f.all, "all", false, "Retranslate every message")
	fl.BoolVar(&f.setFuzzy, "set-fuzzy", false, "Mark machine translations as fuzzy")
	fl.BoolVarP(&f.dryRun, "dry-run", "n", false, "Only report what would be translated")
}

// applyFlags overrides cfg with every flag the user actually set.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f translateFlags) {
	changed := cmd.Flags().Changed
	if changed("provider") {
		cfg.Provider = f.provider
	}
	if changed("lang") {
		cfg.Languages = f.langs
	}
	if changed("source") {
		cfg.SourceLang = f.source
	}
	if changed("locale-dir") {
		cfg.LocaleDir = f.localeDir
	}
	if changed("domain") {
		cfg.Domain = f.domain
	}
	if changed("template") {
		cfg.Template = f.template
	}
	if changed("max-segments") {
		cfg.MaxSegments = f.maxSegments
	}
	if changed("include-fuzzy") {
		cfg.IncludeFuzzy = f.includeFuzzy
	}
	if changed("set-fuzzy") {
		cfg.SetFuzzy = f.setFuzzy
	}
}

func selection(cfg *config.Config, all bool) catalog.Selection {
	switch {
	case all:
		return catalog.SelectAll
	case cfg.IncludeFuzzy:
		return catalog.SelectIncludeFuzzy
	default:
		return catalog.SelectUntranslated
	}
}

func runTranslate(cmd *cobra.Command, f translateFlags) error {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, f)
	if err := cfg.Validate(); err != nil {
		return err
	}

	langs := cfg.TargetLanguages()
	if len(langs) == 0 {
		return fmt.Errorf("no target languages: pass --lang or set languages in %s", config.FileName)
	}

	var template *catalog.Catalog
	if cfg.Template != "" {
		template, err = catalog.ParseFile(cfg.AbsTemplate())
		if err != nil {
			return fmt.Errorf("loading template: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var provider translate.Provider
	if !f.dryRun {
		provider, err = resolveProvider(ctx, cfg, f.apiKey)
		if err != nil {
			return err
		}
	}

	tasks := make([]localize.Task, len(langs))
	for i, lang := range langs {
		tasks[i] = localize.Task{Lang: lang, Path: cfg.CatalogPath(lang)}
	}

	if f.dryRun {
		logInfo("%s", i18n.Tf("Dry run: %d languages, provider %s", len(tasks), cfg.Provider))
	} else {
		logInfo("%s", i18n.Tf("Translating %d languages with %s", len(tasks), cfg.Provider))
	}

	bars := newProgressBars(f.parallel <= 1 && !verbose)
	results, err := localize.Run(ctx, tasks, localize.Options{
		Provider:      provider,
		SourceLang:    cfg.SourceLang,
		Selection:     selection(cfg, f.all),
		MaxSegments:   cfg.MaxSegments,
		SetFuzzy:      cfg.SetFuzzy,
		Template:      template,
		DryRun:        f.dryRun,
		MaxConcurrent: f.parallel,
		Logger:        slog.Default(),
		OnProgress:    bars.update,
	})
	bars.finish()

	printTranslateSummary(results, f.dryRun)
	if errors.Is(err, context.Canceled) {
		return errors.New(i18n.T("interrupted"))
	}
	if err != nil {
		return err
	}
	if !f.dryRun {
		logSuccess("%s", i18n.T("All translations are complete"))
	}
	return nil
}

// resolveProvider builds the configured provider with the first API key
// found on the command line, in the environment or in the credential store.
func resolveProvider(ctx context.Context, cfg *config.Config, flagKey string) (translate.Provider, error) {
	key, source := settings.ResolveAPIKey(cfg.Provider, flagKey)
	if source != settings.SourceNone {
		slog.Debug("api key", "provider", cfg.Provider, "source", string(source))
	}
	p, err := translate.Resolve(ctx, cfg.Provider, translate.ProviderConfig{
		APIKey:      key,
		MaxSegments: cfg.MaxSegments,
		Artifacts:   cfg.Artifacts,
		Logger:      slog.Default(),
	})
	if errors.Is(err, translate.ErrMissingCredential) {
		return nil, fmt.Errorf("%w\n%s", err, i18n.Tf("Run 'autotrans auth login %s' or set AUTOTRANS_API_KEY", cfg.Provider))
	}
	return p, err
}

func printTranslateSummary(results []localize.Result, dryRun bool) {
	for _, r := range results {
		if r.Lang == "" {
			continue
		}
		name := langLabel(r.Lang)
		switch {
		case dryRun:
			logInfo("%s: %s", name, i18n.N("%d message to translate", "%d messages to translate", r.Pending))
		case r.Pending == 0 && r.Written:
			logSuccess("%s: %s", name, i18n.T("catalog updated, nothing to translate"))
		case r.Pending == 0:
			logSuccess("%s: %s", name, i18n.T("nothing to translate"))
		case r.Written:
			logSuccess("%s: %s (%s)", name,
				i18n.N("%d message translated", "%d messages translated", r.Translated),
				i18n.N("%d request", "%d requests", r.Chunks))
		}
		if r.Created {
			logInfo("%s: %s", name, i18n.Tf("created %s", r.Path))
		}
		if r.Warnings > 0 {
			logWarning("%s: %s", name, i18n.N("%d placeholder mismatch", "%d placeholder mismatches", r.Warnings))
		}
	}
}

// langLabel returns "code (Native name)".
func langLabel(lang string) string {
	_, native := langtag.Name(lang)
	if native == "" {
		return lang
	}
	return fmt.Sprintf("%s (%s)", lang, native)
}

// ---------------------------------------------------------------------------
// Progress bars
// ---------------------------------------------------------------------------

// progressBars draws one bar per language. When disabled, updates are
// ignored and progress only shows up in debug logs.
type progressBars struct {
	enabled bool
	mu      sync.Mutex
	bars    map[string]*progressbar.ProgressBar
}

func newProgressBars(enabled bool) *progressBars {
	return &progressBars{enabled: enabled, bars: map[string]*progressbar.ProgressBar{}}
}

func (p *progressBars) update(lang string, done, total int) {
	if !p.enabled {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	bar, ok := p.bars[lang]
	if !ok {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%-6s[reset]", lang)),
			progressbar.OptionOnCompletion(func() { fmt.Fprintln(os.Stderr) }),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		)
		p.bars[lang] = bar
	}
	_ = bar.Set(done)
}

func (p *progressBars) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, bar := range p.bars {
		if !bar.IsFinished() {
			_ = bar.Finish()
		}
	}
}
