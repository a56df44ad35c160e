package selector

import (
	"errors"
	"reflect"
	"testing"
)

func labelOf(v string) func() (string, error) {
	return func() (string, error) { return v, nil }
}

func TestResolveRebasesNegativeIndices(t *testing.T) {
	tests := []struct {
		items    []string
		extent   int
		expected []int
		warnings int
	}{
		{[]string{"0", "2"}, 5, []int{0, 2}, 0},
		{[]string{"-1"}, 5, []int{4}, 0},
		{[]string{"-5"}, 5, []int{0}, 0},
		{[]string{"-6"}, 5, []int{}, 1},
		{[]string{"5"}, 5, []int{}, 1},
		{[]string{" 3 ", "+1"}, 5, []int{1, 3}, 0},
		{[]string{"-1", "4"}, 5, []int{4}, 0},
		{[]string{"1", "9", "-9"}, 3, []int{1}, 2},
	}

	for _, tt := range tests {
		s, err := New(tt.items, nil, false)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", tt.items, err)
		}
		var warnings []string
		r := s.Resolve(tt.extent, func(msg string) { warnings = append(warnings, msg) })
		if got := r.Indices(); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("Resolve(%q, %d) = %v, expected %v", tt.items, tt.extent, got, tt.expected)
		}
		if len(warnings) != tt.warnings {
			t.Errorf("Resolve(%q, %d) produced %d warnings, expected %d", tt.items, tt.extent, len(warnings), tt.warnings)
		}
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	s, err := New([]string{"-1", "Total", "0", "Mean"}, nil, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	first := s.Resolve(4, nil)
	second := s.Resolve(4, nil)
	if !reflect.DeepEqual(first.Indices(), second.Indices()) || !reflect.DeepEqual(first.Texts(), second.Texts()) {
		t.Errorf("resolving twice gave %v/%v and %v/%v", first.Indices(), first.Texts(), second.Indices(), second.Texts())
	}
	if !reflect.DeepEqual(first.Texts(), []string{"Mean", "Total"}) {
		t.Errorf("Texts() = %v", first.Texts())
	}
}

func TestMatchPrecedence(t *testing.T) {
	s, err := New([]string{"1", "Mean"}, nil, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	r := s.Resolve(3, nil)

	called := false
	m, ok, err := r.Match(1, func() (string, error) {
		called = true
		return "Other", nil
	})
	if err != nil || !ok || m.Pos != 1 {
		t.Fatalf("Match(1) = %+v, %v, %v", m, ok, err)
	}
	if called {
		t.Error("label text was read for an integer match")
	}

	if _, ok, _ := r.Match(2, labelOf("Mean")); !ok {
		t.Error("text selector did not match its label")
	}
	if _, ok, _ := r.Match(0, labelOf("mean")); ok {
		t.Error("text matching must be case sensitive")
	}
}

func TestMatchAll(t *testing.T) {
	s, err := New([]string{All}, nil, true)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if s.Regexp() {
		t.Error("a leading <<ALL>> must disable regex mode")
	}
	r := s.Resolve(2, nil)
	for pos := 0; pos < 2; pos++ {
		if _, ok, _ := r.Match(pos, labelOf("anything")); !ok {
			t.Errorf("position %d not matched by <<ALL>>", pos)
		}
	}
}

func TestRegexSearchSemantics(t *testing.T) {
	s, err := New([]string{"^Sig"}, nil, true)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	r := s.Resolve(3, nil)
	labels := []string{"Significance", "Sig.", "Other"}
	expected := []bool{true, true, false}
	for i, label := range labels {
		_, ok, err := r.Match(i, labelOf(label))
		if err != nil {
			t.Fatalf("Match(%q) failed: %v", label, err)
		}
		if ok != expected[i] {
			t.Errorf("Match(%q) = %v, expected %v", label, ok, expected[i])
		}
	}
}

func TestRegexAlternationKeepsIntegers(t *testing.T) {
	s, err := New([]string{"0", "Count$", "(?<=Std\\. )Dev"}, nil, true)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	r := s.Resolve(4, nil)
	if !reflect.DeepEqual(r.Indices(), []int{0}) {
		t.Errorf("Indices() = %v, expected [0]", r.Indices())
	}
	if _, ok, _ := r.Match(2, labelOf("Std. Dev")); !ok {
		t.Error("lookbehind alternative did not match")
	}
	if _, ok, _ := r.Match(3, labelOf("Count %")); ok {
		t.Error("anchored alternative matched a label that does not end with Count")
	}
}

func TestInvalidRegexp(t *testing.T) {
	_, err := New([]string{"(unclosed"}, nil, true)
	if !errors.Is(err, ErrInvalidRegexp) {
		t.Fatalf("New with bad pattern returned %v, expected ErrInvalidRegexp", err)
	}
}

func TestWidthsFollowTheirEntries(t *testing.T) {
	s, err := New([]string{"7", "1", "Total"}, []float64{10, 20, 30}, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var warned bool
	r := s.Resolve(3, func(string) { warned = true })
	if !warned {
		t.Error("expected a warning for the out-of-range selector")
	}
	m, ok, _ := r.Match(1, labelOf("x"))
	if !ok {
		t.Fatal("position 1 not matched")
	}
	if w, ok := m.Width(); !ok || w != 20 {
		t.Errorf("width for position 1 = %v, %v, expected 20", w, ok)
	}
	m, ok, _ = r.Match(2, labelOf("Total"))
	if !ok {
		t.Fatal("Total not matched")
	}
	if w, _ := m.Width(); w != 30 {
		t.Errorf("width for Total = %v, expected 30", w)
	}
}
