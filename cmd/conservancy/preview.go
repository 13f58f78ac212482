package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
	"github.com/alexisbeaulieu97/conservancy/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/conservancy/internal/tui/preview"
)

const previewLogBuffer = 256

func newPreviewCmd(flags *rootFlags) *cobra.Command {
	var (
		values      cookie.Values
		storagePath string
		dark        bool
		light       bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Open an interactive terminal session that behaves like a returning browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return errors.New("preview needs an interactive terminal")
			}

			ctx, app, err := loadAppContext(cmd, flags)
			if err != nil {
				return err
			}

			prefersDark := lipgloss.HasDarkBackground()
			switch {
			case dark:
				prefersDark = true
			case light:
				prefersDark = false
			}
			if storagePath == "" {
				storagePath = app.Config.Client.StoragePath
			}

			// The program owns the terminal, so logs are held back and
			// written once it exits.
			buffer := logging.NewEventBuffer(previewLogBuffer)
			defer buffer.Flush(app.Logger)

			state, err := preview.Run(ctx, preview.Options{
				StoragePath: storagePath,
				PrefersDark: prefersDark,
				Fallback:    cookie.FromValues(values),
				Logger:      logging.NewBufferedLogger(buffer),
				AltScreen:   true,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "theme=%s resolved=%s palette=%s\n", state.Theme, state.ResolvedTheme, state.Palette)
			return nil
		},
	}

	bindCookieFlags(cmd, &values)
	cmd.Flags().StringVar(&storagePath, "storage", "", "Client storage file, overrides the configuration")
	cmd.Flags().BoolVar(&dark, "dark", false, "Start with the simulated OS preferring dark")
	cmd.Flags().BoolVar(&light, "light", false, "Start with the simulated OS preferring light")
	cmd.MarkFlagsMutuallyExclusive("dark", "light")

	return cmd
}
