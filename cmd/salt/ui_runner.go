package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/buildpipeline"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/driver"
	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/ui"
)

type compileOutcome struct {
	result *driver.Result
	err    error
}

// compileWithUI runs the compilation while a bubbletea program renders the
// per-module progress. modules may be empty; the view grows as modules
// report in.
func compileWithUI(ctx context.Context, title string, modules []string, opts driver.Options) (*driver.Result, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan compileOutcome, 1)

	go func() {
		opts.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := driver.Compile(ctx, opts)
		outcomeCh <- compileOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, modules, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
