package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diagfmt"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/driver"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/trace"
)

var errDiagnostics = errors.New("diagnostics reported errors")

var diagCmd = &cobra.Command{
	Use:   "diag [model]",
	Short: "Run the whole pipeline and report diagnostics only",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDiagnose,
}

func init() {
	compileFlags(diagCmd)
	diagCmd.Flags().String("format", "pretty", "output format (pretty|short|json)")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("no-warnings", false, "drop warnings from the output")
	diagCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	format, _ := cmd.Flags().GetString("format")
	outFormat := diagfmt.Format(strings.ToLower(format))
	switch outFormat {
	case diagfmt.FormatPretty, diagfmt.FormatShort, diagfmt.FormatJSON:
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	opts, _, err := projectOptions(cmd, args)
	if err != nil {
		return err
	}

	ctx, span := trace.Start(cmd.Context(), trace.ScopeDriver, "diag")
	defer span.End("")
	res, err := driver.Compile(ctx, opts)
	if err != nil {
		dumpTrace("failure")
		return err
	}

	if noWarnings, _ := cmd.Flags().GetBool("no-warnings"); noWarnings {
		res.Bag.Filter(func(d diag.Diagnostic) bool { return d.Severity != diag.SevWarning })
	}
	if strict, _ := cmd.Flags().GetBool("warnings-as-errors"); strict {
		promoted := diag.NewBag(0)
		for _, d := range res.Bag.Items() {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			promoted.Add(d)
		}
		res.Bag = promoted
	}
	res.Bag.Sort()
	withNotes, _ := cmd.Flags().GetBool("with-notes")
	if err := printDiagnostics(cmd, res, outFormat, withNotes); err != nil {
		return err
	}
	printTimings(cmd, opts)
	if res.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}

// printDiagnostics renders the bag in format. Timing diagnostics are shown
// by printTimings instead, except in JSON where they are data.
func printDiagnostics(cmd *cobra.Command, res *driver.Result, format diagfmt.Format, withNotes bool) error {
	bag := res.Bag
	maxDiag, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	fullPath, _ := cmd.Flags().GetBool("fullpath")
	pathMode := diagfmt.PathModeRelative
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	switch format {
	case diagfmt.FormatJSON:
		return diagfmt.JSON(cmd.OutOrStdout(), bag, res.Files, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			Max:              maxDiag,
			IncludeNotes:     withNotes,
		})
	}
	shown := diag.NewBag(0)
	for _, d := range bag.Items() {
		if d.Code != diag.ObsTimings {
			shown.Add(d)
		}
	}
	if format == diagfmt.FormatShort {
		return diagfmt.Short(cmd.OutOrStdout(), shown, res.Files, withNotes)
	}
	return diagfmt.Pretty(cmd.ErrOrStderr(), shown, res.Files, diagfmt.PrettyOpts{
		Color:     !colorDisabled(),
		PathMode:  pathMode,
		ShowNotes: withNotes,
		Max:       maxDiag,
	})
}
