package setspec

import (
	"reflect"
	"testing"
)

func TestCountableRemovePortEdges(t *testing.T) {
	all := CountableAll(PortDomain)
	all = all.Remove(1)
	all = all.Remove(65535)

	got := all.Ranges()
	want := []Range[Port]{{Lo: 2, Hi: 65534}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Ranges() = %v, want %v", got, want)
	}
}

func TestCountableRemoveIdempotentOnAllExcept(t *testing.T) {
	s := CountableAllExcept(PortDomain, []Port{80})
	s2 := s.Remove(80)
	if !reflect.DeepEqual(s.Ranges(), s2.Ranges()) {
		t.Errorf("Remove of an already-absent element changed Ranges: %v vs %v", s.Ranges(), s2.Ranges())
	}
}

func TestCountableRemovePanicsOnEmpty(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic removing from an empty CountableSetSpecifier")
		}
	}()
	CountableEmpty(PortDomain).Remove(1)
}

func TestCountableRangesRoundTrip(t *testing.T) {
	s := CountableSome(PortDomain, []Port{80, 81, 82, 443, 8080, 8081})
	ranges := s.Ranges()
	want := []Range[Port]{
		{Lo: 80, Hi: 82},
		{Lo: 443, Hi: 443},
		{Lo: 8080, Hi: 8081},
	}
	if !reflect.DeepEqual(ranges, want) {
		t.Errorf("Ranges() = %v, want %v", ranges, want)
	}
}

func TestCountableIntersectsSymmetric(t *testing.T) {
	a := CountableSome(PortDomain, []Port{80, 443})
	b := CountableAllExcept(PortDomain, []Port{80})
	if a.Intersects(b) != b.Intersects(a) {
		t.Errorf("Intersects not symmetric")
	}
	empty := CountableEmpty(PortDomain)
	if empty.Intersects(a) || a.Intersects(empty) {
		t.Errorf("empty set must not intersect anything")
	}
}

func TestCountableContainsOneAllExcept(t *testing.T) {
	s := CountableAllExcept(PortDomain, []Port{22})
	if s.ContainsOne(22) {
		t.Error("expected 22 to be excluded")
	}
	if !s.ContainsOne(23) {
		t.Error("expected 23 to be present")
	}
}
