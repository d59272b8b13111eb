package machina

import "testing"

func TestInstance_ShallowHistoryRestoresLastChild(t *testing.T) {
	inst := newActiveInstance(t, newHistoryChart(t, false))
	assertActive(t, inst, "step1")

	if err := inst.Post("next"); err != nil {
		t.Fatalf("Expected post next to succeed, got: %v", err)
	}
	assertActive(t, inst, "step2")

	if err := inst.Post("pause"); err != nil {
		t.Fatalf("Expected post pause to succeed, got: %v", err)
	}
	assertActive(t, inst, "paused")

	if err := inst.Post("resume"); err != nil {
		t.Fatalf("Expected post resume to succeed, got: %v", err)
	}
	assertActive(t, inst, "step2")

	if err := inst.Post("finish"); err != nil {
		t.Fatalf("Expected post finish to succeed, got: %v", err)
	}
	if !inst.IsDone() {
		t.Error("Expected instance to be done")
	}
}

func TestInstance_HistoryMemoryIsUpdatedOnEveryExit(t *testing.T) {
	inst := newActiveInstance(t, newHistoryChart(t, false))

	_ = inst.Post("pause")
	_ = inst.Post("resume")
	assertActive(t, inst, "step1")

	_ = inst.Post("next")
	_ = inst.Post("pause")
	_ = inst.Post("resume")
	assertActive(t, inst, "step2")
}

// A history target reached before its region was ever active falls back to
// the declared defaults.
func TestInstance_HistoryDefaults(t *testing.T) {
	chart, err := NewBuilder("defaulted").
		Initial("init").To("lobby").
		State("lobby").To("hist").On("enter").
		Composite("work", "winit", "winit", "step1", "step2", "hist").
		History("hist", "step2").
		Initial("winit").To("step1").
		State("step1").To("fin").On("finish").
		State("step2").To("fin").On("finish").
		Final("fin").
		Build()
	if err != nil {
		t.Fatalf("Expected chart to build, got: %v", err)
	}
	inst := newActiveInstance(t, chart)
	assertActive(t, inst, "lobby")

	if err := inst.Post("enter"); err != nil {
		t.Fatalf("Expected post enter to succeed, got: %v", err)
	}
	assertActive(t, inst, "step2")
}

// Without memory or defaults the history falls back to the owning
// composite's nominated initial child.
func TestInstance_HistoryFallsBackToInitialChild(t *testing.T) {
	chart, err := NewBuilder("bare").
		Initial("init").To("lobby").
		State("lobby").To("hist").On("enter").
		Composite("work", "winit", "winit", "step1", "hist").
		History("hist").
		Initial("winit").To("step1").
		State("step1").To("fin").On("finish").
		Final("fin").
		Build()
	if err != nil {
		t.Fatalf("Expected chart to build, got: %v", err)
	}
	inst := newActiveInstance(t, chart)

	if err := inst.Post("enter"); err != nil {
		t.Fatalf("Expected post enter to succeed, got: %v", err)
	}
	assertActive(t, inst, "step1")
}

func buildDepthChart(t *testing.T, deep bool) *Chart {
	t.Helper()
	b := NewBuilder("depth")
	if deep {
		b.DeepHistory("hist")
	} else {
		b.History("hist")
	}
	chart, err := b.
		Initial("init").To("work").
		Composite("work", "winit", "winit", "inner", "hist").
		Initial("winit").To("inner").
		Composite("inner", "iinit", "iinit", "leaf1", "leaf2").
		Initial("iinit").To("leaf1").
		State("leaf1").To("leaf2").On("next").
		State("leaf2").
		To("paused").On("pause").
		To("fin").On("finish").
		State("paused").To("hist").On("resume").
		Final("fin").
		Build()
	if err != nil {
		t.Fatalf("Expected chart to build, got: %v", err)
	}
	return chart
}

func TestInstance_DeepHistoryRestoresLeaf(t *testing.T) {
	inst := newActiveInstance(t, buildDepthChart(t, true))
	assertActive(t, inst, "leaf1")

	_ = inst.Post("next")
	_ = inst.Post("pause")
	assertActive(t, inst, "paused")

	if err := inst.Post("resume"); err != nil {
		t.Fatalf("Expected post resume to succeed, got: %v", err)
	}
	assertActive(t, inst, "leaf2")
}

func TestInstance_ShallowHistoryRestoresBranchOnly(t *testing.T) {
	inst := newActiveInstance(t, buildDepthChart(t, false))

	_ = inst.Post("next")
	_ = inst.Post("pause")

	// shallow memory keeps only the immediate branch, so reentry goes
	// through inner's own initial child again
	if err := inst.Post("resume"); err != nil {
		t.Fatalf("Expected post resume to succeed, got: %v", err)
	}
	assertActive(t, inst, "leaf1")
}
