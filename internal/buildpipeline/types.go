package buildpipeline

import "time"

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StageLoad decodes the symbol model document.
	StageLoad Stage = "load"
	// StageResolve assigns script semantics to every type and member.
	StageResolve Stage = "resolve"
	// StageAssemble builds per-type fragments of one module.
	StageAssemble Stage = "assemble"
	// StageOrder schedules static initialization of one module.
	StageOrder Stage = "order"
	// StageLink resolves type references and wraps one module.
	StageLink Stage = "link"
	// StagePrint renders one module to script text.
	StagePrint Stage = "print"
	// StageWrite writes the output files.
	StageWrite Stage = "write"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	// StatusCached marks a module served from the output cache.
	StatusCached Status = "cached"
	StatusError  Status = "error"
)

// Event reports progress for a module (or for the overall pipeline when
// Module is empty).
type Event struct {
	Module  string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Sinks are called from several
// goroutines while modules are emitted.
type ProgressSink interface {
	OnEvent(Event)
}

// Notify sends ev to sink when there is one.
func Notify(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}

// Timings holds stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Add accumulates a duration for stage; per-module stages add up.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] += dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	_, ok := t.stages[stage]
	return ok
}

func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}
