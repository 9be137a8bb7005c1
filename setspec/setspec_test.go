package setspec

import "testing"

func TestSetSpecifierContainsOne(t *testing.T) {
	cases := []struct {
		name string
		s    SetSpecifier[string]
		v    string
		want bool
	}{
		{"empty", Empty[string](), "x", false},
		{"one match", One("x"), "x", true},
		{"one mismatch", One("x"), "y", false},
		{"some match", Some([]string{"a", "b"}), "b", true},
		{"some mismatch", Some([]string{"a", "b"}), "c", false},
		{"all", All[string](), "anything", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.s.ContainsOne(tc.v); got != tc.want {
				t.Errorf("ContainsOne(%q) = %v, want %v", tc.v, got, tc.want)
			}
		})
	}
}

func TestSetSpecifierIntersectsSymmetric(t *testing.T) {
	pairs := []struct {
		a, b SetSpecifier[int]
	}{
		{Empty[int](), All[int]()},
		{One(1), Some([]int{1, 2, 3})},
		{Some([]int{1, 2}), Some([]int{3, 4})},
		{All[int](), All[int]()},
		{One(5), One(6)},
	}
	for _, p := range pairs {
		ab := p.a.Intersects(p.b)
		ba := p.b.Intersects(p.a)
		if ab != ba {
			t.Errorf("Intersects not symmetric: a.Intersects(b)=%v b.Intersects(a)=%v", ab, ba)
		}
	}
}

func TestSetSpecifierElementsPanicsOnAll(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic calling Elements() on All")
		}
	}()
	All[int]().Elements()
}

func TestSetSpecifierElements(t *testing.T) {
	if got := Empty[int]().Elements(); got != nil {
		t.Errorf("Empty.Elements() = %v, want nil", got)
	}
	if got := One(7).Elements(); len(got) != 1 || got[0] != 7 {
		t.Errorf("One(7).Elements() = %v, want [7]", got)
	}
	some := Some([]int{1, 2, 3})
	if got := some.Elements(); len(got) != 3 {
		t.Errorf("Some.Elements() = %v, want len 3", got)
	}
}
