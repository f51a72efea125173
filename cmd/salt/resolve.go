package main

import (
	"github.com/spf13/cobra"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diagfmt"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/driver"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/trace"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [model]",
	Short: "Print the script semantics assigned to every type and member",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runResolve,
}

func init() {
	compileFlags(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	opts, _, err := projectOptions(cmd, args)
	if err != nil {
		return err
	}
	opts.Cache = nil
	ctx, span := trace.Start(cmd.Context(), trace.ScopeDriver, "resolve")
	defer span.End("")
	res, err := driver.Resolve(ctx, opts)
	if err != nil {
		return err
	}
	if res.Table != nil {
		if err := res.Table.Dump(cmd.OutOrStdout()); err != nil {
			return err
		}
	}
	res.Bag.Sort()
	if err := printDiagnostics(cmd, res, diagfmt.FormatPretty, false); err != nil {
		return err
	}
	printTimings(cmd, opts)
	if res.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}
