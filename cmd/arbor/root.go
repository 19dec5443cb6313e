package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/arbor/internal/config"
	"github.com/spf13/cobra"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "arbor [content]",
	Short: "Arbor plays storylet-based interactive fiction",
	Long: `Arbor plays interactive fiction written as storylets: scenes gated by
conditions on the player's qualities. Player progress is saved to a slot
in a file, Redis or SQLite store.

Settings come from ARBOR_* environment variables; flags override them.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return applyFlags(cmd)
	},
	RunE: runPlay,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("store", "", "Save backend: memory, file, redis or sqlite (env ARBOR_STORE)")
	flags.String("slot", "", "Save slot name (env ARBOR_SLOT)")
	flags.String("data-dir", "", "Directory for file saves (env ARBOR_DATA_DIR)")
	flags.String("redis-addr", "", "Redis address (env ARBOR_REDIS_ADDR)")
	flags.String("sqlite-path", "", "SQLite database file (env ARBOR_SQLITE_PATH)")
	flags.String("log-level", "", "debug, info, warn or error (env ARBOR_LOG_LEVEL)")
	flags.Bool("debug", false, "Log engine events to stderr")

	addPlayFlags(rootCmd)
}

// applyFlags copies explicitly set flags over the environment configuration.
func applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	fields := map[string]*string{
		"store":       &cfg.Store,
		"slot":        &cfg.Slot,
		"data-dir":    &cfg.DataDir,
		"redis-addr":  &cfg.RedisAddr,
		"sqlite-path": &cfg.SQLitePath,
		"log-level":   &cfg.LogLevel,
	}
	for name, field := range fields {
		if !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*field = v
	}
	if flags.Changed("seed") {
		seed, err := flags.GetUint64("seed")
		if err != nil {
			return err
		}
		cfg.Seed = seed
	}
	return nil
}

func contentArg(args []string) {
	if len(args) > 0 {
		cfg.Content = args[0]
	}
}

func debugFlag(cmd *cobra.Command) bool {
	debug, _ := cmd.Flags().GetBool("debug")
	return debug
}
