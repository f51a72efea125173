package buildpipeline

import (
	"testing"
	"time"
)

func TestTimingsAccumulate(t *testing.T) {
	var tm Timings
	tm.Add(StageLink, 2*time.Millisecond)
	tm.Add(StageLink, 3*time.Millisecond)
	tm.Add(StagePrint, time.Millisecond)
	if got := tm.Duration(StageLink); got != 5*time.Millisecond {
		t.Fatalf("link duration = %v, want 5ms", got)
	}
	if !tm.Has(StagePrint) || tm.Has(StageLoad) {
		t.Fatalf("unexpected Has results")
	}
	if got := tm.Sum(StageLink, StagePrint, StageLoad); got != 6*time.Millisecond {
		t.Fatalf("sum = %v, want 6ms", got)
	}
}

func TestSinks(t *testing.T) {
	var rec RecordingSink
	Notify(&rec, Event{Module: "App", Stage: StageLink, Status: StatusWorking})
	Notify(nil, Event{Module: "ignored"})
	if evs := rec.Events(); len(evs) != 1 || evs[0].Module != "App" {
		t.Fatalf("unexpected events: %+v", evs)
	}

	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{Stage: StageWrite, Status: StatusDone})
	if ev := <-ch; ev.Stage != StageWrite {
		t.Fatalf("unexpected event: %+v", ev)
	}
}
