package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minios-linux/autotrans/catalog"
	"github.com/minios-linux/autotrans/config"
	"github.com/minios-linux/autotrans/i18n"
	"github.com/minios-linux/autotrans/langtag"
)

// ---------------------------------------------------------------------------
// status
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	var (
		langs     []string
		localeDir string
		domain    string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: i18n.T("Show translation statistics per language"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(rootDir)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("lang") {
				cfg.Languages = langs
			}
			if cmd.Flags().Changed("locale-dir") {
				cfg.LocaleDir = localeDir
			}
			if cmd.Flags().Changed("domain") {
				cfg.Domain = domain
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runStatus(cfg)
		},
	}

	cmd.Flags().StringSliceVarP(&langs, "lang", "l", nil, "Languages to show (default: every catalog found)")
	cmd.Flags().StringVar(&localeDir, "locale-dir", config.DefaultLocaleDir, "Directory holding <lang>/LC_MESSAGES catalogs")
	cmd.Flags().StringVarP(&domain, "domain", "d", config.DefaultDomain, "Gettext domain")

	return cmd
}

type langStats struct {
	lang    string
	stats   catalog.Stats
	missing bool
}

func runStatus(cfg *config.Config) error {
	langs := cfg.TargetLanguages()
	if len(langs) == 0 {
		logWarning("%s", i18n.Tf("No catalogs found in %s", cfg.AbsLocaleDir()))
		return nil
	}

	rows := make([]langStats, 0, len(langs))
	for _, lang := range langs {
		row := langStats{lang: lang}
		cat, err := catalog.ParseFile(cfg.CatalogPath(lang))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			row.missing = true
		case err != nil:
			return err
		default:
			row.stats = cat.Stats()
		}
		rows = append(rows, row)
	}

	fmt.Println()
	fmt.Printf("  %s: %s/<lang>/LC_MESSAGES/%s.po\n", i18n.T("Catalogs"), cfg.AbsLocaleDir(), cfg.Domain)
	fmt.Println()
	showStatsTable(rows)
	return nil
}

func showStatsTable(rows []langStats) {
	fmt.Printf("  %-10s %-20s %-12s %-10s %-10s %s\n",
		i18n.T("Lang"), i18n.T("Name"), i18n.T("Translated"), i18n.T("Fuzzy"), i18n.T("Untrans."), i18n.T("Progress"))
	fmt.Printf("  %s\n", strings.Repeat("─", 90))

	var gaps []string
	for _, r := range rows {
		_, native := langtag.Name(r.lang)
		if r.missing {
			fmt.Printf("  %-10s %-20s %s\n", r.lang, native, colorYellow+i18n.T("missing")+colorReset)
			gaps = append(gaps, r.lang)
			continue
		}
		s := r.stats
		fmt.Printf("  %-10s %-20s %-12s %-10d %-10d %s\n",
			r.lang, native,
			fmt.Sprintf("%d/%d", s.Translated, s.Total),
			s.Fuzzy, s.Untranslated,
			progressBar(s.Percent(), 20))
		if s.Untranslated > 0 || s.Fuzzy > 0 {
			gaps = append(gaps, r.lang)
		}
	}
	fmt.Println()

	if len(gaps) == 0 {
		logSuccess("%s", i18n.T("All translations are complete"))
		return
	}
	fmt.Printf("  %s: %s\n", i18n.T("Translation gaps"), strings.Join(gaps, ", "))
	fmt.Printf("  %s\n", i18n.T("Run 'autotrans translate' to fill them."))
}

// progressBar renders a colored bar of width cells followed by the
// percentage: red below 50, yellow below 100, green when complete.
func progressBar(percent, width int) string {
	percent = max(0, min(percent, 100))
	filled := percent * width / 100

	color := colorRed
	switch {
	case percent >= 100:
		color = colorGreen
	case percent >= 50:
		color = colorYellow
	}

	return color + strings.Repeat("█", filled) + colorReset +
		strings.Repeat("░", width-filled) +
		fmt.Sprintf(" %3d%%", percent)
}
