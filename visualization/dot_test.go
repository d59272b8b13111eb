package visualization_test

import (
	"strings"
	"testing"

	"github.com/machina-go/machina"
	"github.com/machina-go/machina/visualization"
)

func buildTestChart(t *testing.T) *machina.Chart {
	t.Helper()
	chart, err := machina.NewBuilder("traffic").
		Initial("init").To("red").
		State("red").Label("Stop").To("green").On("go").
		State("green").To("red").On("stop").
		ToSelf().On("tick").
		To("off").On("shutdown").
		Final("off").
		Build()
	if err != nil {
		t.Fatalf("Failed to build chart: %v", err)
	}
	return chart
}

func TestDOTGeneration(t *testing.T) {
	generator := visualization.NewDOTGenerator(buildTestChart(t))

	dotContent, err := generator.Generate()
	if err != nil {
		t.Fatalf("Failed to generate DOT: %v", err)
	}

	if !strings.Contains(dotContent, "digraph StateMachine") {
		t.Error("DOT content should contain graph declaration")
	}
	if !strings.Contains(dotContent, "label=\"Stop\"") {
		t.Error("DOT content should use the state label")
	}
	if !strings.Contains(dotContent, "green") {
		t.Error("DOT content should contain the green state")
	}
	if !strings.Contains(dotContent, "red -> green") {
		t.Error("DOT content should contain the red to green transition")
	}
	if !strings.Contains(dotContent, "lightgreen") {
		t.Error("DOT content should highlight the initial state")
	}
	if !strings.Contains(dotContent, "doublecircle") {
		t.Error("DOT content should mark the final state")
	}
	if !strings.Contains(dotContent, "style=dashed") {
		t.Error("DOT content should dash internal transitions")
	}

	t.Logf("Generated DOT content:\n%s", dotContent)
}

func TestDOTGeneration_Options(t *testing.T) {
	options := visualization.DefaultDOTOptions()
	options.RankDirection = "LR"
	options.ShowGuards = false
	generator := visualization.NewDOTGenerator(buildTestChart(t), options)

	dotContent, err := generator.Generate()
	if err != nil {
		t.Fatalf("Failed to generate DOT: %v", err)
	}
	if !strings.Contains(dotContent, "rankdir=LR") {
		t.Error("DOT content should honor the rank direction option")
	}
}

func TestDOTGeneration_CompositeCluster(t *testing.T) {
	chart, err := machina.NewBuilder("nested").
		Initial("init").To("work").
		Composite("work", "winit", "winit", "step").
		Initial("winit").To("step").
		State("step").To("fin").On("finish").
		Final("fin").
		Build()
	if err != nil {
		t.Fatalf("Failed to build chart: %v", err)
	}

	dotContent, err := visualization.NewDOTGenerator(chart).Generate()
	if err != nil {
		t.Fatalf("Failed to generate DOT: %v", err)
	}
	if !strings.Contains(dotContent, "subgraph cluster_work") {
		t.Error("DOT content should nest composite states in clusters")
	}
}

func TestDOTGeneration_InvalidChart(t *testing.T) {
	if _, err := visualization.NewDOTGenerator(machina.NewChart("empty")).Generate(); err == nil {
		t.Error("Expected generation to fail for an invalid chart")
	}
}
