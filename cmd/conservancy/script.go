package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/conservancy/internal/bootstrap"
	"github.com/alexisbeaulieu97/conservancy/internal/cookie"
)

func newScriptCmd() *cobra.Command {
	var (
		values cookie.Values
		html   bool
		hash   bool
	)

	cmd := &cobra.Command{
		Use:   "script",
		Short: "Print the inline bootstrap script for the given cookie values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			script := bootstrap.Script(cookie.FromValues(values))
			out := cmd.OutOrStdout()

			if hash {
				fmt.Fprintln(out, bootstrap.Hash(script))
				return nil
			}
			if html {
				fmt.Fprintf(out, "<script>%s</script>\n", script)
				return nil
			}
			fmt.Fprintln(out, script)
			return nil
		},
	}

	bindCookieFlags(cmd, &values)
	cmd.Flags().BoolVar(&html, "html", false, "Wrap the script in a <script> element")
	cmd.Flags().BoolVar(&hash, "hash", false, "Print only the Content-Security-Policy hash of the script")
	cmd.MarkFlagsMutuallyExclusive("html", "hash")

	return cmd
}
