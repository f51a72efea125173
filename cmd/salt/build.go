package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diagfmt"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/driver"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/project"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/trace"
)

var buildCmd = &cobra.Command{
	Use:   "build [model]",
	Short: "Emit one script per module of the symbol model",
	Long: `Build loads the symbol model, resolves script semantics and writes one
script per module into the output directory. Nothing is written when any
error is reported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	compileFlags(buildCmd)
	buildCmd.Flags().String("out", "", "output directory (default from salt.toml or dist)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	opts, manifest, err := projectOptions(cmd, args)
	if err != nil {
		return err
	}
	outDir, _ := cmd.Flags().GetString("out")
	if outDir == "" {
		outDir = project.DefaultOut
		if manifest != nil {
			outDir = manifest.OutDir()
		}
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	uiValue, _ := cmd.Root().PersistentFlags().GetString("ui")
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	ctx, span := trace.Start(cmd.Context(), trace.ScopeDriver, "build")
	defer span.End("")

	var res *driver.Result
	if shouldUseTUI(mode, quiet) {
		res, err = compileWithUI(ctx, "salt build", manifestModules(manifest), opts)
	} else {
		res, err = driver.Compile(ctx, opts)
	}
	if err != nil {
		dumpTrace("failure")
		return err
	}

	res.Bag.Sort()
	if err := printDiagnostics(cmd, res, diagfmt.FormatPretty, false); err != nil {
		return err
	}
	written, err := driver.WriteOutputs(ctx, res, outDir, opts.Progress)
	if errors.Is(err, driver.ErrHasErrors) {
		fmt.Fprintf(cmd.ErrOrStderr(), "build failed: %s\n", diagfmt.Summary(res.Bag))
		return err
	}
	if err != nil {
		return err
	}
	if !quiet {
		cached := 0
		for _, m := range res.Modules {
			if m.Cached {
				cached++
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d file(s) to %s (%d cached), %s\n",
			len(written), outDir, cached, diagfmt.Summary(res.Bag))
	}
	printTimings(cmd, opts)
	return nil
}

func manifestModules(m *project.Manifest) []string {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.Modules))
	for name := range m.Modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
