package ui

import (
	"strings"
	"testing"

	"github.com/Saltarelle/SaltarelleCompiler-sub003/internal/buildpipeline"
)

func TestProgressTracksModules(t *testing.T) {
	events := make(chan buildpipeline.Event)
	m := NewProgressModel("salt build", []string{"App", "Lib"}, events).(*progressModel)

	m.applyEvent(buildpipeline.Event{Stage: buildpipeline.StageResolve, Status: buildpipeline.StatusWorking})
	m.applyEvent(buildpipeline.Event{Module: "App", Stage: buildpipeline.StageLink, Status: buildpipeline.StatusWorking})
	m.applyEvent(buildpipeline.Event{Module: "Lib", Stage: buildpipeline.StagePrint, Status: buildpipeline.StatusCached})
	m.applyEvent(buildpipeline.Event{Module: "Unknown", Stage: buildpipeline.StagePrint, Status: buildpipeline.StatusDone})

	if got, want := m.percent(), (0.75+1.0+1.0)/3; got != want {
		t.Fatalf("percent = %v, want %v", got, want)
	}
	view := m.View()
	for _, want := range []string{"salt build (resolving)", "linking", "cached", "App", "Lib", "Unknown"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProgressQuitsWhenEventsClose(t *testing.T) {
	events := make(chan buildpipeline.Event)
	close(events)
	m := NewProgressModel("salt build", []string{"App"}, events).(*progressModel)
	if _, ok := m.listenForEvent()().(doneMsg); !ok {
		t.Fatalf("closed channel should produce doneMsg")
	}
	m.Update(doneMsg{})
	if !strings.Contains(m.View(), "done: salt build") {
		t.Fatalf("unexpected view:\n%s", m.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Company.Product.Module", 10); got != "Comp..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("App", 10); got != "App" {
		t.Fatalf("truncate = %q", got)
	}
}
