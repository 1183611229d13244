package commands

import (
	"context"
	"fmt"
	"os"

	"cloudbill/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	verbose     *bool
	email       *string
	passwordCmd *string
	caFile      *string
	baseUrl     *string
)

var rootCmd = &cobra.Command{
	Use:   "cloudbill",
	Short: "cloudbill scrapes credit, usage and billing history from the provider console.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enables debug logging and request transcripts.")
	email = rootCmd.PersistentFlags().String("email", "", "The account email, prompted for interactively when missing.")
	passwordCmd = rootCmd.PersistentFlags().String("password-cmd", "", "A command whose stdout, newline-stripped, becomes the password.")
	caFile = rootCmd.PersistentFlags().String("ca-file", "", "A PEM bundle overriding the system trust store.")
	baseUrl = rootCmd.PersistentFlags().String("base-url", "", "Overrides the console base URL (debug only).")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
