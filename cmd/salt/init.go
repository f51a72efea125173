package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new salt project",
	Long: `Initialize a salt project by writing a salt.toml manifest. If [path|name]
is omitted, the current directory is used. A missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	target := wd
	if len(args) > 0 && args[0] != "." {
		target = args[0]
		if !filepath.IsAbs(target) {
			target = filepath.Join(wd, target)
		}
	}

	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	if root, ok, err := project.FindProjectRoot(target); err != nil {
		return err
	} else if ok && root == target {
		return fmt.Errorf("project already initialized: %s exists", filepath.Join(root, project.ManifestName))
	}

	name := strings.TrimSpace(filepath.Base(target))
	if !project.IsValidModuleName(name) {
		name = "salt-project"
	}
	path := filepath.Join(target, project.ManifestName)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := project.Default(name).Write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	}
	return nil
}
