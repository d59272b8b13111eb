package visualization

import (
	"fmt"
	"strings"

	"github.com/machina-go/machina"
)

// PlantUMLGenerator generates PlantUML state diagram representations of
// charts. Initial and final states render as the PlantUML start/end marker
// "[*]"; composite and orthogonal states render as nested blocks, with
// orthogonal regions separated by "--".
type PlantUMLGenerator struct {
	chart *machina.Chart
}

// NewPlantUMLGenerator creates a PlantUML generator for the given chart.
func NewPlantUMLGenerator(chart *machina.Chart) *PlantUMLGenerator {
	return &PlantUMLGenerator{chart: chart}
}

// Generate renders the chart as a PlantUML state diagram. The chart is
// validated first; an invalid chart is not rendered.
func (g *PlantUMLGenerator) Generate() (string, error) {
	v := &plantUMLVisitor{chart: g.chart}
	if err := machina.Walk(g.chart, v); err != nil {
		return "", fmt.Errorf("failed to generate plantuml: %w", err)
	}
	return v.buf.String(), nil
}

type plantUMLVisitor struct {
	machina.BaseVisitor
	chart *machina.Chart
	buf   strings.Builder
	// parent kinds and emitted-children counters for region separators
	stack       []*machina.State
	childCounts []int
	edges       []string
}

func (v *plantUMLVisitor) EnterChart(chart *machina.Chart) {
	v.buf.WriteString("@startuml\n")
	if chart.Label() != "" {
		fmt.Fprintf(&v.buf, "title %s\n", chart.Label())
	}
}

func (v *plantUMLVisitor) ExitChart(*machina.Chart) {
	for _, e := range v.edges {
		v.buf.WriteString(e)
	}
	v.buf.WriteString("@enduml\n")
}

func (v *plantUMLVisitor) EnterState(st *machina.State, depth int) {
	if len(v.stack) > 0 {
		owner := v.stack[len(v.stack)-1]
		if owner.Kind() == machina.Orthogonal {
			if v.childCounts[len(v.childCounts)-1] > 0 {
				fmt.Fprintf(&v.buf, "%s--\n", indent(depth))
			}
			v.childCounts[len(v.childCounts)-1]++
		}
	}
	v.stack = append(v.stack, st)
	v.childCounts = append(v.childCounts, 0)

	switch st.Kind() {
	case machina.Initial, machina.Final:
		// rendered as [*] at the transition ends
		return
	case machina.History:
		marker := "[H]"
		if st.IsDeep() {
			marker = "[H*]"
		}
		fmt.Fprintf(&v.buf, "%sstate \"%s\" as %s\n", indent(depth), marker, nodeName(st.ID()))
		return
	}
	if st.Label() != "" {
		fmt.Fprintf(&v.buf, "%sstate \"%s\" as %s", indent(depth), st.Label(), nodeName(st.ID()))
	} else {
		fmt.Fprintf(&v.buf, "%sstate %s", indent(depth), nodeName(st.ID()))
	}
	if st.HasChildren() {
		v.buf.WriteString(" {")
	}
	v.buf.WriteString("\n")
}

func (v *plantUMLVisitor) ExitState(st *machina.State, depth int) {
	v.stack = v.stack[:len(v.stack)-1]
	v.childCounts = v.childCounts[:len(v.childCounts)-1]

	switch st.Kind() {
	case machina.Initial, machina.Final, machina.History:
		return
	}
	if st.HasChildren() {
		fmt.Fprintf(&v.buf, "%s}\n", indent(depth))
	}
	name := nodeName(st.ID())
	if st.HasEntryActions() {
		fmt.Fprintf(&v.buf, "%s : entry / ()\n", name)
	}
	if st.HasBodyActions() {
		fmt.Fprintf(&v.buf, "%s : do / ()\n", name)
	}
	if st.HasExitActions() {
		fmt.Fprintf(&v.buf, "%s : exit / ()\n", name)
	}
}

func (v *plantUMLVisitor) VisitTransition(source *machina.State, t *machina.Transition) {
	target := source.ID()
	if t.HasTarget() {
		target = t.Target()
	}
	edge := fmt.Sprintf("%s --> %s", v.endpoint(source.ID()), v.endpoint(target))
	label := v.edgeLabel(t)
	if label != "" {
		edge += " : " + label
	}
	v.edges = append(v.edges, edge+"\n")
}

func (v *plantUMLVisitor) edgeLabel(t *machina.Transition) string {
	var parts []string
	if t.IsConditional() {
		parts = append(parts, "[guard]")
	}
	if t.Label() != "" {
		parts = append(parts, t.Label())
	} else if t.HasEvent() {
		parts = append(parts, t.Event())
	}
	if t.HasActions() {
		parts = append(parts, "/ ()")
	}
	return strings.Join(parts, " ")
}

// endpoint renders a transition end: initial and final states collapse onto
// the PlantUML start/end marker.
func (v *plantUMLVisitor) endpoint(id machina.StateID) string {
	st := v.chart.GetState(id)
	if st != nil && (st.Kind() == machina.Initial || st.Kind() == machina.Final) {
		return "[*]"
	}
	return nodeName(id)
}

func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
