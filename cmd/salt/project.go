package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/driver"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/observ"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/project"
)

var errNoModel = errors.New("no symbol model: pass a model path or run inside a project with salt.toml")

// compileFlags registers the flags shared by build, resolve and diag.
func compileFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool("minimize", false, "minimize member names in every module")
	f.Bool("compact", false, "print compact script text")
	f.String("runtime", "", "runtime library identifier (default from salt.toml or ss)")
	f.Int("jobs", 0, "max parallel module emitters (0=auto)")
	f.Bool("no-cache", false, "do not read or write the output cache")
}

// projectOptions builds driver options from salt.toml (explicit or found
// upwards) and the command flags. args may carry the model path.
func projectOptions(cmd *cobra.Command, args []string) (driver.Options, *project.Manifest, error) {
	manifest, err := findManifest(cmd)
	if err != nil {
		return driver.Options{}, nil, err
	}
	var opts driver.Options
	if manifest != nil {
		opts = driver.OptionsFromManifest(manifest)
	} else {
		opts = driver.Options{Runtime: project.DefaultRuntime, Indent: "\t"}
	}
	if len(args) > 0 {
		opts.ModelPath = args[0]
	}
	if opts.ModelPath == "" {
		return driver.Options{}, nil, errNoModel
	}

	f := cmd.Flags()
	if f.Changed("minimize") {
		opts.Minimize, _ = f.GetBool("minimize")
	}
	if f.Changed("compact") {
		opts.Compact, _ = f.GetBool("compact")
	}
	if runtime, _ := f.GetString("runtime"); runtime != "" {
		opts.Runtime = runtime
	}
	opts.Jobs, _ = f.GetInt("jobs")
	opts.MaxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if timings, _ := cmd.Root().PersistentFlags().GetBool("timings"); timings {
		opts.Timer = observ.NewTimer()
	}
	if noCache, _ := f.GetBool("no-cache"); !noCache {
		cache, err := driver.OpenOutputCache("salt")
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: output cache disabled: %v\n", err)
		} else {
			opts.Cache = cache
		}
	}
	return opts, manifest, nil
}

func findManifest(cmd *cobra.Command) (*project.Manifest, error) {
	path, err := cmd.Root().PersistentFlags().GetString("manifest")
	if err != nil {
		return nil, fmt.Errorf("failed to get manifest flag: %w", err)
	}
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		found, ok, err := project.FindManifest(wd)
		if err != nil || !ok {
			return nil, err
		}
		path = found
	}
	return project.LoadManifest(path)
}
