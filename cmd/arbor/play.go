package main

import (
	"github.com/aretw0/arbor/internal/cli"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [content]",
	Short: "Play a content file (the default command)",
	Long: `Play a content file in the terminal.

At the prompt, enter a choice number, press enter to continue, or type
"reset" to start over and "quit" to leave. Progress is saved after every step.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func addPlayFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.Bool("json", false, "Write one JSON state per line and read commands from stdin")
	flags.Bool("plain", false, "Disable markdown rendering even on a terminal")
	flags.Bool("new", false, "Start a fresh save in a newly named slot")
	flags.Bool("stats", false, "Print Prometheus metrics to stderr on exit")
	flags.Uint64("seed", 0, "Seed for reproducible storylet picks (env ARBOR_SEED)")
}

func runPlay(cmd *cobra.Command, args []string) error {
	contentArg(args)

	flags := cmd.Flags()
	jsonMode, _ := flags.GetBool("json")
	plain, _ := flags.GetBool("plain")
	fresh, _ := flags.GetBool("new")
	stats, _ := flags.GetBool("stats")

	return cli.Play(cmd.Context(), cli.PlayOptions{
		Config: cfg,
		JSON:   jsonMode,
		Plain:  plain,
		New:    fresh,
		Stats:  stats,
		Debug:  debugFlag(cmd),
	}, cli.StdStreams())
}

func init() {
	addPlayFlags(playCmd)
	rootCmd.AddCommand(playCmd)
}
