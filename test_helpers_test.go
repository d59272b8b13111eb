package machina

import (
	"fmt"
	"testing"
)

// callRecord captures one action invocation for asserting ordering and
// phase tagging.
type callRecord struct {
	id    StateID
	phase Phase
}

func (c callRecord) String() string {
	return fmt.Sprintf("%s:%s", c.id, c.phase)
}

type actionRecorder struct {
	calls []callRecord
}

func (r *actionRecorder) record(id StateID, phase Phase, _ *Context) {
	r.calls = append(r.calls, callRecord{id: id, phase: phase})
}

func (r *actionRecorder) count(phase Phase) int {
	n := 0
	for _, c := range r.calls {
		if c.phase == phase {
			n++
		}
	}
	return n
}

func (r *actionRecorder) has(id StateID, phase Phase) bool {
	for _, c := range r.calls {
		if c.id == id && c.phase == phase {
			return true
		}
	}
	return false
}

// newSimpleChart builds init -> s1 --go--> fin.
func newSimpleChart(t *testing.T) *Chart {
	t.Helper()
	chart, err := NewBuilder("simple").
		Initial("init").To("s1").
		State("s1").To("fin").On("go").
		Final("fin").
		Build()
	if err != nil {
		t.Fatalf("Expected simple chart to build, got: %v", err)
	}
	return chart
}

// newConflictChart builds a chart where s1 carries two always-enabled
// transitions on the same event.
func newConflictChart(t *testing.T) *Chart {
	t.Helper()
	chart, err := NewBuilder("conflict").
		Initial("init").To("s1").
		State("s1").
		To("fin-a").On("go").
		To("fin-b").On("go").
		Final("fin-a").
		Final("fin-b").
		Build()
	if err != nil {
		t.Fatalf("Expected conflict chart to build, got: %v", err)
	}
	return chart
}

// newOrthogonalChart builds init -> p{b1, b2}; b1 --x--> fin1, b2 --y--> fin2.
func newOrthogonalChart(t *testing.T) *Chart {
	t.Helper()
	chart, err := NewBuilder("parallel").
		Initial("init").To("p").
		Orthogonal("p", "b1", "b2").
		State("b1").To("fin1").On("x").
		State("b2").To("fin2").On("y").
		Final("fin1").
		Final("fin2").
		Build()
	if err != nil {
		t.Fatalf("Expected orthogonal chart to build, got: %v", err)
	}
	return chart
}

// newCompositeChart builds init -> comp{cinit -> a}; a --done--> fin.
func newCompositeChart(t *testing.T, rec *actionRecorder) *Chart {
	t.Helper()
	b := NewBuilder("nested").
		Initial("init").To("comp").
		Composite("comp", "cinit", "cinit", "a").
		OnEntry(rec.record).
		Initial("cinit").To("a").
		State("a").OnEntry(rec.record).OnRun(rec.record).
		To("fin").On("done").
		Final("fin")
	chart, err := b.Build()
	if err != nil {
		t.Fatalf("Expected composite chart to build, got: %v", err)
	}
	return chart
}

// newHistoryChart builds a pausable workflow: work{winit -> step1 --next-->
// step2} with a shallow history child; pause leaves from either step to
// paused, resume reenters through history.
func newHistoryChart(t *testing.T, deep bool) *Chart {
	t.Helper()
	b := NewBuilder("pausable")
	var history *StateBuilder
	if deep {
		history = b.DeepHistory("hist")
	} else {
		history = b.History("hist")
	}
	chart, err := history.
		Initial("init").To("work").
		Composite("work", "winit", "winit", "step1", "step2", "hist").
		Initial("winit").To("step1").
		State("step1").
		To("step2").On("next").
		To("paused").On("pause").
		State("step2").
		To("paused").On("pause").
		To("fin").On("finish").
		State("paused").To("hist").On("resume").
		Final("fin").
		Build()
	if err != nil {
		t.Fatalf("Expected history chart to build, got: %v", err)
	}
	return chart
}

func newActiveInstance(t *testing.T, chart *Chart) *Instance {
	t.Helper()
	inst, err := NewInstance(chart, nil)
	if err != nil {
		t.Fatalf("Expected instance to be created, got: %v", err)
	}
	if err := inst.Execute(); err != nil {
		t.Fatalf("Expected execute to succeed, got: %v", err)
	}
	return inst
}

func assertActive(t *testing.T, inst *Instance, want ...StateID) {
	t.Helper()
	got := inst.ActiveStates()
	if len(got) != len(want) {
		t.Fatalf("Expected active states %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Expected active states %v, got %v", want, got)
		}
	}
}

func assertCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error with code %v, got nil", code)
	}
	if got := CodeOf(err); got != code {
		t.Fatalf("Expected error code %v, got %v (%v)", code, got, err)
	}
}
