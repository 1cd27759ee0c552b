package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minios-linux/autotrans/i18n"
	"github.com/minios-linux/autotrans/settings"
	"github.com/minios-linux/autotrans/translate"
)

// ---------------------------------------------------------------------------
// auth
// ---------------------------------------------------------------------------

type providerInfo struct {
	name    string
	needKey bool
	helpURL string
	example string
}

// knownProviders describes the providers a user can log in to.
var knownProviders = map[string]providerInfo{
	"web": {
		name: "Google Translate (web)",
	},
	"google": {
		name:    "Google Cloud Translation",
		needKey: true,
		helpURL: "https://console.cloud.google.com/apis/credentials",
		example: "autotrans translate --provider google",
	},
}

func describeProvider(id string) providerInfo {
	if info, ok := knownProviders[id]; ok {
		return info
	}
	return providerInfo{name: id, needKey: true}
}

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: i18n.T("Manage provider API keys"),
		Long: `Manage API keys of translation providers.

Keys are looked up in this order: --api-key, AUTOTRANS_API_KEY, the
credential store written by 'autotrans auth login'.

Providers:
  web       No key needed
  google    Google Cloud Translation API key

Examples:
  autotrans auth login --provider google
  autotrans auth logout --provider google
  autotrans auth logout                    Remove all credentials
  autotrans auth list`,
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthListCmd(),
	)

	return cmd
}

func keyProviders() []string {
	var ids []string
	for _, id := range translate.Providers() {
		if describeProvider(id).needKey {
			ids = append(ids, id)
		}
	}
	return ids
}

func completeKeyProviders(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var completions []string
	for _, id := range keyProviders() {
		completions = append(completions, fmt.Sprintf("%s\t%s", id, describeProvider(id).name))
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

func newAuthLoginCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "login",
		Short: i18n.T("Store an API key"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !describeProvider(provider).needKey {
				logInfo("%s", i18n.Tf("Provider %s needs no API key", provider))
				return nil
			}
			return authLoginAPIKey(provider, os.Stdin)
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "google", "Provider to store a key for")
	_ = cmd.RegisterFlagCompletionFunc("provider", completeKeyProviders)

	return cmd
}

func authLoginAPIKey(providerID string, in io.Reader) error {
	info := describeProvider(providerID)

	fmt.Fprintf(os.Stderr, "\n%s%s — %s%s\n", colorBlue, info.name, i18n.T("API Key Setup"), colorReset)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
	fmt.Fprintln(os.Stderr)

	if info.helpURL != "" {
		fmt.Fprintf(os.Stderr, "  %s: %s%s%s\n\n", i18n.T("Get your API key from"), colorGreen, info.helpURL, colorReset)
	}

	existing := settings.GetAPIKey(providerID)
	if existing != "" {
		fmt.Fprintf(os.Stderr, "  %s: %s%s%s\n", i18n.T("Current key"), colorYellow, settings.MaskKey(existing), colorReset)
		fmt.Fprintf(os.Stderr, "  %s: ", i18n.T("Enter new key to replace, or press Enter to keep"))
	} else {
		fmt.Fprintf(os.Stderr, "  %s: ", i18n.T("Enter API key"))
	}

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return errors.New(i18n.T("no input received"))
	}
	key := strings.TrimSpace(scanner.Text())

	if key == "" {
		if existing != "" {
			logInfo("%s", i18n.T("Keeping existing key"))
			return nil
		}
		return errors.New(i18n.T("no API key provided"))
	}

	if err := settings.SetAPIKey(providerID, key); err != nil {
		return fmt.Errorf("saving API key: %w", err)
	}

	logSuccess("%s", i18n.Tf("%s API key saved", info.name))
	if info.example != "" {
		fmt.Fprintf(os.Stderr, "\n  %s: %s\n\n", i18n.T("You can now use"), info.example)
	}
	return nil
}

func newAuthLogoutCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: i18n.T("Remove stored credentials"),
		Long: `Remove stored credentials for one or all providers.

If --provider is not specified, credentials for ALL providers are removed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if provider == "" {
				if err := settings.RemoveAll(); err != nil {
					return err
				}
				logSuccess("%s", i18n.T("All stored credentials removed"))
				return nil
			}
			if err := settings.Remove(provider); err != nil {
				return fmt.Errorf("removing %s credentials: %w", provider, err)
			}
			logSuccess("%s", i18n.Tf("%s credentials removed", provider))
			return nil
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Provider to logout (default: all)")
	_ = cmd.RegisterFlagCompletionFunc("provider", completeKeyProviders)

	return cmd
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   i18n.T("Show stored credentials"),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stderr, "\n%s%s%s\n", colorBlue, i18n.T("Stored Credentials"), colorReset)
			fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))
			fmt.Fprintf(os.Stderr, "  %s: %s\n\n", i18n.T("File"), settings.FilePath())

			store := settings.Load()
			for _, id := range translate.Providers() {
				info := describeProvider(id)
				var status string
				switch entry := store[id]; {
				case !info.needKey:
					status = colorGreen + i18n.T("no key needed") + colorReset
				case entry != nil && entry.Key != "":
					status = fmt.Sprintf("%s%s%s (%s)", colorGreen, i18n.T("configured"), colorReset, settings.MaskKey(entry.Key))
				default:
					status = colorRed + i18n.T("not configured") + colorReset
				}
				fmt.Fprintf(os.Stderr, "  %-10s %-28s %s\n", id, info.name, status)
			}

			fmt.Fprintln(os.Stderr)
			if envKey := os.Getenv("AUTOTRANS_API_KEY"); envKey != "" {
				fmt.Fprintf(os.Stderr, "  AUTOTRANS_API_KEY: %s%s%s (%s)\n", colorGreen, settings.MaskKey(envKey), colorReset, i18n.T("overrides stored keys"))
			} else {
				fmt.Fprintf(os.Stderr, "  AUTOTRANS_API_KEY: %s%s%s\n", colorRed, i18n.T("not set"), colorReset)
			}
			fmt.Fprintln(os.Stderr)
		},
	}
}
