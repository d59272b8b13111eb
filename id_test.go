package machina

import (
	"strings"
	"testing"
)

func TestParseID_Valid(t *testing.T) {
	for _, s := range []string{"a", "state-1", "work_flow", "ns:part", "a::b"} {
		id, err := ParseID(s)
		if err != nil {
			t.Errorf("Expected %q to parse, got: %v", s, err)
		}
		if id.String() != s {
			t.Errorf("Expected id %q, got %q", s, id)
		}
	}
}

func TestParseID_Invalid(t *testing.T) {
	for _, s := range []string{"", "has space", "semi;colon", "sla/sh"} {
		if _, err := ParseID(s); err == nil {
			t.Errorf("Expected %q to be rejected", s)
		}
	}
}

func TestMustID_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected MustID to panic on invalid id")
		}
	}()
	MustID("not ok")
}

func TestRandomID_Unique(t *testing.T) {
	a, b := RandomID(), RandomID()
	if a == b {
		t.Error("Expected random ids to differ")
	}
	if !a.IsValid() {
		t.Errorf("Expected random id to be valid, got %q", a)
	}
}

func TestRandomIDWithPrefix(t *testing.T) {
	id, err := RandomIDWithPrefix("instance")
	if err != nil {
		t.Fatalf("Expected prefixed id, got: %v", err)
	}
	if !strings.HasPrefix(id.String(), "instance::") {
		t.Errorf("Expected instance:: prefix, got %q", id)
	}

	if _, err := RandomIDWithPrefix("bad prefix"); err == nil {
		t.Error("Expected invalid prefix to be rejected")
	}
}

func TestInvalidID(t *testing.T) {
	if InvalidID().IsValid() {
		t.Error("Expected the invalid id sentinel not to validate")
	}
}

func TestStateID_AppendAndSplit(t *testing.T) {
	id := MustID("order")
	child, err := id.Append("payment")
	if err != nil {
		t.Fatalf("Expected append to succeed, got: %v", err)
	}
	if child != "order::payment" {
		t.Errorf("Expected order::payment, got %q", child)
	}

	parts := child.Split()
	if len(parts) != 2 || parts[0] != "order" || parts[1] != "payment" {
		t.Errorf("Expected [order payment], got %v", parts)
	}
}

func TestStateID_AppendRandom(t *testing.T) {
	a := MustID("branch").AppendRandom()
	b := MustID("branch").AppendRandom()
	if a == b {
		t.Error("Expected appended random ids to differ")
	}
	if !strings.HasPrefix(a.String(), "branch::") {
		t.Errorf("Expected branch:: prefix, got %q", a)
	}
}
