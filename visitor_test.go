package machina

import "testing"

type traceVisitor struct {
	BaseVisitor
	events []string
}

func (v *traceVisitor) EnterChart(chart *Chart) {
	v.events = append(v.events, "chart:"+chart.Label())
}

func (v *traceVisitor) ExitChart(*Chart) {
	v.events = append(v.events, "end")
}

func (v *traceVisitor) EnterState(st *State, depth int) {
	v.events = append(v.events, "enter:"+st.ID().String())
}

func (v *traceVisitor) ExitState(st *State, depth int) {
	v.events = append(v.events, "exit:"+st.ID().String())
}

func (v *traceVisitor) VisitTransition(source *State, t *Transition) {
	target := t.Target()
	if !t.HasTarget() {
		target = source.ID()
	}
	v.events = append(v.events, "edge:"+source.ID().String()+">"+target.String())
}

func TestWalk_VisitsEverythingInOrder(t *testing.T) {
	v := &traceVisitor{}
	if err := Walk(newSimpleChart(t), v); err != nil {
		t.Fatalf("Expected walk to succeed, got: %v", err)
	}

	want := []string{
		"chart:simple",
		"enter:fin", "exit:fin",
		"enter:init", "edge:init>s1", "exit:init",
		"enter:s1", "edge:s1>fin", "exit:s1",
		"end",
	}
	if len(v.events) != len(want) {
		t.Fatalf("Expected events %v, got %v", want, v.events)
	}
	for i := range want {
		if v.events[i] != want[i] {
			t.Fatalf("Expected event %d to be %q, got %q", i, want[i], v.events[i])
		}
	}
}

func TestWalk_NestsChildrenUnderParents(t *testing.T) {
	var depths = map[string]int{}
	v := &depthVisitor{depths: depths}
	if err := Walk(newHistoryChart(t, false), v); err != nil {
		t.Fatalf("Expected walk to succeed, got: %v", err)
	}

	if depths["work"] != 0 {
		t.Errorf("Expected work at depth 0, got %d", depths["work"])
	}
	for _, id := range []string{"winit", "step1", "step2", "hist"} {
		if depths[id] != 1 {
			t.Errorf("Expected %s at depth 1, got %d", id, depths[id])
		}
	}
}

type depthVisitor struct {
	BaseVisitor
	depths map[string]int
}

func (v *depthVisitor) EnterState(st *State, depth int) {
	v.depths[st.ID().String()] = depth
}

func TestWalk_RejectsInvalidChart(t *testing.T) {
	v := &traceVisitor{}
	err := Walk(NewChart("empty"), v)
	assertCode(t, err, ErrCodeChartStatesEmpty)
	if len(v.events) != 0 {
		t.Errorf("Expected no visitation of an invalid chart, got %v", v.events)
	}
}
