// Package visualization renders validated charts into Graphviz DOT and
// PlantUML text for inspection and documentation. Both generators consume
// the chart strictly read-only through the visitor traversal.
package visualization

import (
	"fmt"
	"strings"

	"github.com/machina-go/machina"
)

// DOTGenerator generates Graphviz DOT representations of charts.
type DOTGenerator struct {
	chart   *machina.Chart
	options DOTOptions
}

// DOTOptions configures DOT generation.
type DOTOptions struct {
	ShowGuards    bool
	ShowActions   bool
	RankDirection string // "TB", "LR", "BT", "RL"
	NodeShape     string
}

// DefaultDOTOptions returns sensible default options for DOT generation.
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowGuards:    true,
		ShowActions:   true,
		RankDirection: "TB",
		NodeShape:     "box",
	}
}

// NewDOTGenerator creates a DOT generator for the given chart.
func NewDOTGenerator(chart *machina.Chart, options ...DOTOptions) *DOTGenerator {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}
	return &DOTGenerator{chart: chart, options: opts}
}

// Generate renders the chart as DOT. The chart is validated first; an
// invalid chart is not rendered.
func (g *DOTGenerator) Generate() (string, error) {
	v := &dotVisitor{chart: g.chart, options: g.options}
	if err := machina.Walk(g.chart, v); err != nil {
		return "", fmt.Errorf("failed to generate dot: %w", err)
	}
	return v.buf.String(), nil
}

type dotVisitor struct {
	machina.BaseVisitor
	chart   *machina.Chart
	options DOTOptions
	buf     strings.Builder
	edges   []string
}

func (v *dotVisitor) EnterChart(chart *machina.Chart) {
	v.buf.WriteString("digraph StateMachine {\n")
	if chart.Label() != "" {
		fmt.Fprintf(&v.buf, "  label=%q;\n", chart.Label())
	}
	fmt.Fprintf(&v.buf, "  rankdir=%s;\n", v.options.RankDirection)
	fmt.Fprintf(&v.buf, "  node [shape=%s];\n", v.options.NodeShape)
	v.buf.WriteString("  edge [fontsize=10];\n\n")
}

func (v *dotVisitor) ExitChart(*machina.Chart) {
	v.buf.WriteString("\n")
	for _, e := range v.edges {
		v.buf.WriteString(e)
	}
	v.buf.WriteString("}\n")
}

func (v *dotVisitor) EnterState(st *machina.State, depth int) {
	indent := strings.Repeat("  ", depth+1)
	name := nodeName(st.ID())
	if st.HasChildren() {
		fmt.Fprintf(&v.buf, "%ssubgraph cluster_%s {\n", indent, name)
		fmt.Fprintf(&v.buf, "%s  label=%q;\n", indent, displayLabel(st))
		fmt.Fprintf(&v.buf, "%s  style=rounded;\n", indent)
		return
	}
	attrs := v.nodeAttrs(st)
	fmt.Fprintf(&v.buf, "%s%s [%s];\n", indent, name, attrs)
}

func (v *dotVisitor) ExitState(st *machina.State, depth int) {
	if st.HasChildren() {
		indent := strings.Repeat("  ", depth+1)
		fmt.Fprintf(&v.buf, "%s}\n", indent)
	}
}

func (v *dotVisitor) VisitTransition(source *machina.State, t *machina.Transition) {
	target := t.Target()
	if !t.HasTarget() {
		target = source.ID()
	}
	label := t.Event()
	if v.options.ShowGuards && t.IsConditional() {
		label += " [guard]"
	}
	if v.options.ShowActions && t.HasActions() {
		label += " / action"
	}
	style := "solid"
	if t.IsInternal() {
		style = "dashed"
	}
	v.edges = append(v.edges, fmt.Sprintf("  %s -> %s [label=%q, style=%s];\n",
		nodeName(source.ID()), nodeName(target), strings.TrimSpace(label), style))
}

func (v *dotVisitor) nodeAttrs(st *machina.State) string {
	label := displayLabel(st)
	switch st.Kind() {
	case machina.Initial:
		attrs := fmt.Sprintf("label=%q, fillcolor=lightgreen, style=filled", label)
		if st.ID() == v.chart.InitialStateID() {
			attrs += ", shape=circle"
		}
		return attrs
	case machina.Final:
		return fmt.Sprintf("label=%q, shape=doublecircle, fillcolor=lightcoral, style=filled", label)
	case machina.History:
		marker := "H"
		if st.IsDeep() {
			marker = "H*"
		}
		return fmt.Sprintf("label=%q, shape=circle, fillcolor=lightyellow, style=filled", marker)
	default:
		return fmt.Sprintf("label=%q, fillcolor=lightblue, style=filled", label)
	}
}

func displayLabel(st *machina.State) string {
	if st.Label() != "" {
		return st.Label()
	}
	return st.ID().String()
}

// nodeName makes a state id safe to use as a DOT identifier.
func nodeName(id machina.StateID) string {
	var b strings.Builder
	for _, c := range id.String() {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			b.WriteRune(c)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
