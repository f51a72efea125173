package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the output cache",
	Long:  "Remove every cached module script so the next build emits from scratch.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	cache, err := driver.OpenOutputCache("salt")
	if err != nil {
		return fmt.Errorf("failed to open output cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clear %q: %w", cache.Dir(), err)
	}
	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", cache.Dir())
	}
	return nil
}
