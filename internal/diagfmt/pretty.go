package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/diag"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/source"
)

// Pretty renders each diagnostic as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by its notes, indented. Items are printed in bag order; call
// bag.Sort first for position order.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	sevColors := map[diag.Severity]*color.Color{
		diag.SevError:   color.New(color.FgRed, color.Bold),
		diag.SevWarning: color.New(color.FgYellow, color.Bold),
		diag.SevInfo:    color.New(color.FgCyan),
	}
	location := color.New(color.Bold)
	code := color.New(color.Faint)
	for _, c := range []*color.Color{location, code, sevColors[diag.SevError], sevColors[diag.SevWarning], sevColors[diag.SevInfo]} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	var sb strings.Builder
	for _, d := range items {
		fmt.Fprintf(&sb, "%s: %s %s: %s\n",
			location.Sprint(formatLocation(d.Primary, fs, opts.PathMode)),
			sevColors[d.Severity].Sprint(d.Severity.String()),
			code.Sprint(d.Code.ID()),
			d.Message)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			if n.Span.IsZero() {
				fmt.Fprintf(&sb, "  note: %s\n", n.Msg)
				continue
			}
			fmt.Fprintf(&sb, "  note: %s: %s\n", formatLocation(n.Span, fs, opts.PathMode), n.Msg)
		}
	}
	if rest := bag.Len() - len(items); rest > 0 {
		fmt.Fprintf(&sb, "... and %d more\n", rest)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Short renders one line per diagnostic in the stable golden format.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	out := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}

// Summary is the closing line of a build: "2 errors, 1 warning".
func Summary(bag *diag.Bag) string {
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
	}
	return plural(errs, "error") + ", " + plural(warns, "warning")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}

func formatLocation(span source.Span, fs *source.FileSet, mode PathMode) string {
	if fs == nil || span.File == source.NoFileID {
		return "<generated>"
	}
	return fmt.Sprintf("%s:%d:%d", filePath(fs, span.File, mode), span.Start.Line, span.Start.Col)
}

func filePath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	if mode == PathModeAuto {
		return fs.Path(id, "")
	}
	return fs.Path(id, mode.String())
}
