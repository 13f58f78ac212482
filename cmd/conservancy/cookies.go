package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
	"github.com/alexisbeaulieu97/conservancy/internal/domain/appearance"
)

type cookieReport struct {
	State      appearance.State `json:"state" yaml:"state"`
	Fallbacks  []fallbackEntry  `json:"fallbacks" yaml:"fallbacks"`
	SetCookies []string         `json:"setCookie" yaml:"set_cookie"`
}

type fallbackEntry struct {
	Cookie string `json:"cookie" yaml:"cookie"`
	Reason string `json:"reason" yaml:"reason"`
}

func newCookiesCmd() *cobra.Command {
	var (
		values cookie.Values
		output string
	)

	cmd := &cobra.Command{
		Use:   "cookies",
		Short: "Decode appearance cookie values and print the normalised Set-Cookie headers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report := buildCookieReport(values)
			out := cmd.OutOrStdout()

			switch output {
			case "text":
				writeCookieReport(out, report)
				return nil
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(report); err != nil {
					return err
				}
				return enc.Close()
			default:
				return fmt.Errorf("unsupported output %q (want text, json or yaml)", output)
			}
		},
	}

	bindCookieFlags(cmd, &values)
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json or yaml")

	return cmd
}

func buildCookieReport(values cookie.Values) cookieReport {
	state := cookie.FromValues(values)
	report := cookieReport{
		State:      state,
		Fallbacks:  []fallbackEntry{},
		SetCookies: cookie.Headers(state),
	}
	for _, f := range cookie.Fallbacks(values) {
		report.Fallbacks = append(report.Fallbacks, fallbackEntry{Cookie: f.Cookie, Reason: f.Reason})
	}
	return report
}

func writeCookieReport(w io.Writer, r cookieReport) {
	fmt.Fprintf(w, "theme:          %s\n", r.State.Theme)
	fmt.Fprintf(w, "resolved theme: %s\n", r.State.ResolvedTheme)
	fmt.Fprintf(w, "palette:        %s\n", r.State.Palette)
	if len(r.Fallbacks) > 0 {
		fmt.Fprintln(w, "fallbacks:")
		for _, f := range r.Fallbacks {
			fmt.Fprintf(w, "  %s (%s)\n", f.Cookie, f.Reason)
		}
	}
	fmt.Fprintln(w)
	for _, h := range r.SetCookies {
		fmt.Fprintf(w, "Set-Cookie: %s\n", h)
	}
}
