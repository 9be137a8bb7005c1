package setspec

import (
	"bytes"
	"encoding/gob"
	"sort"
)

// Domain describes the ordered, enumerable universe a CountableSetSpecifier
// ranges over. Go type parameters carry no associated constants, unlike the
// ValueCounted trait this type stands in for, so callers supply one Domain
// value per instantiated T.
type Domain[T comparable] struct {
	Min  T
	Max  T
	Next func(T) T
	Prev func(T) T
}

// Range is an inclusive [Lo, Hi] range of T.
type Range[T comparable] struct {
	Lo T
	Hi T
}

// CountableSetSpecifier is a SetSpecifier over an ordered, enumerable
// universe, additionally supporting Remove and contiguous-range reporting
// ("all ports except 22 and 9000-9100").
type CountableSetSpecifier[T comparable] struct {
	domain *Domain[T]
	kind   Kind
	elem   T
	some   []T
	holes  []T // elements excluded from KindAll ("all except these")
}

// CountableEmpty returns the empty CountableSetSpecifier.
func CountableEmpty[T comparable](d *Domain[T]) CountableSetSpecifier[T] {
	return CountableSetSpecifier[T]{domain: d, kind: KindEmpty}
}

// CountableOne returns a singleton CountableSetSpecifier.
func CountableOne[T comparable](d *Domain[T], v T) CountableSetSpecifier[T] {
	return CountableSetSpecifier[T]{domain: d, kind: KindOne, elem: v}
}

// CountableSome returns a CountableSetSpecifier holding exactly the given
// elements.
func CountableSome[T comparable](d *Domain[T], vs []T) CountableSetSpecifier[T] {
	cp := make([]T, len(vs))
	copy(cp, vs)
	return CountableSetSpecifier[T]{domain: d, kind: KindSome, some: cp}
}

// CountableAll returns the CountableSetSpecifier matching the whole domain.
func CountableAll[T comparable](d *Domain[T]) CountableSetSpecifier[T] {
	return CountableSetSpecifier[T]{domain: d, kind: KindAll}
}

// CountableAllExcept returns the CountableSetSpecifier matching the whole
// domain minus the given holes.
func CountableAllExcept[T comparable](d *Domain[T], holes []T) CountableSetSpecifier[T] {
	cp := make([]T, len(holes))
	copy(cp, holes)
	return CountableSetSpecifier[T]{domain: d, kind: KindAll, holes: cp}
}

// Kind reports which variant s holds.
func (s CountableSetSpecifier[T]) Kind() Kind {
	return s.kind
}

func (s CountableSetSpecifier[T]) hasHole(v T) bool {
	for _, h := range s.holes {
		if h == v {
			return true
		}
	}
	return false
}

// ContainsOne reports whether needle is a member of s.
func (s CountableSetSpecifier[T]) ContainsOne(needle T) bool {
	switch s.kind {
	case KindEmpty:
		return false
	case KindOne:
		return s.elem == needle
	case KindSome:
		for _, e := range s.some {
			if e == needle {
				return true
			}
		}
		return false
	case KindAll:
		return !s.hasHole(needle)
	default:
		return false
	}
}

// Intersects reports whether s and other share at least one element. It is
// symmetric in the usual cases; the KindAll/KindAll case assumes both
// domains are non-empty once holes are accounted for.
func (s CountableSetSpecifier[T]) Intersects(other CountableSetSpecifier[T]) bool {
	switch s.kind {
	case KindEmpty:
		return false
	case KindOne:
		return other.ContainsOne(s.elem)
	case KindSome:
		for _, e := range s.some {
			if other.ContainsOne(e) {
				return true
			}
		}
		return false
	case KindAll:
		if other.kind == KindEmpty {
			return false
		}
		if other.kind == KindOne {
			return s.ContainsOne(other.elem)
		}
		if other.kind == KindSome {
			for _, e := range other.some {
				if s.ContainsOne(e) {
					return true
				}
			}
			return false
		}
		// Both All: intersect unless every value is a hole on one side or
		// the other across the whole (small, bounded in practice) domain.
		for _, r := range s.Ranges() {
			for v := r.Lo; ; v = s.domain.Next(v) {
				if !other.hasHole(v) {
					return true
				}
				if v == r.Hi {
					break
				}
			}
		}
		return false
	default:
		return false
	}
}

// Remove excludes v from s, returning the narrowed CountableSetSpecifier.
// It panics if s is KindEmpty or KindOne without containing v: removing
// from a set that cannot meaningfully shrink further indicates a caller
// bug, not a representable state.
func (s CountableSetSpecifier[T]) Remove(v T) CountableSetSpecifier[T] {
	switch s.kind {
	case KindEmpty:
		panic("setspec: Remove called on an empty CountableSetSpecifier")
	case KindOne:
		if s.elem != v {
			panic("setspec: Remove called with an element not present")
		}
		return CountableSetSpecifier[T]{domain: s.domain, kind: KindEmpty}
	case KindSome:
		out := make([]T, 0, len(s.some))
		found := false
		for _, e := range s.some {
			if e == v {
				found = true
				continue
			}
			out = append(out, e)
		}
		if !found {
			return s
		}
		if len(out) == 0 {
			return CountableSetSpecifier[T]{domain: s.domain, kind: KindEmpty}
		}
		return CountableSetSpecifier[T]{domain: s.domain, kind: KindSome, some: out}
	case KindAll:
		if s.hasHole(v) {
			return s
		}
		holes := make([]T, len(s.holes), len(s.holes)+1)
		copy(holes, s.holes)
		holes = append(holes, v)
		sortByDomain(holes, s.domain)
		return CountableSetSpecifier[T]{domain: s.domain, kind: KindAll, holes: holes}
	default:
		return s
	}
}

// Ranges returns the contiguous, sorted, inclusive ranges of elements s
// contains, collapsing adjacent values (per Domain.Next) into a single
// range. Round-tripping Ranges() back through CountableAllExcept/CountableSome
// reconstructs an equivalent specifier.
func (s CountableSetSpecifier[T]) Ranges() []Range[T] {
	switch s.kind {
	case KindEmpty:
		return nil
	case KindOne:
		return []Range[T]{{Lo: s.elem, Hi: s.elem}}
	case KindSome:
		vs := append([]T(nil), s.some...)
		return coalesce(vs, s.domain)
	case KindAll:
		if len(s.holes) == 0 {
			return []Range[T]{{Lo: s.domain.Min, Hi: s.domain.Max}}
		}
		holes := make(map[T]bool, len(s.holes))
		for _, h := range s.holes {
			holes[h] = true
		}
		var present []T
		v := s.domain.Min
		for {
			if !holes[v] {
				present = append(present, v)
			}
			if v == s.domain.Max {
				break
			}
			v = s.domain.Next(v)
		}
		return coalesce(present, s.domain)
	default:
		return nil
	}
}

// coalesce sorts vs by domain order and merges adjacent values into ranges.
func coalesce[T comparable](vs []T, d *Domain[T]) []Range[T] {
	if len(vs) == 0 {
		return nil
	}
	sortByDomain(vs, d)
	var out []Range[T]
	cur := Range[T]{Lo: vs[0], Hi: vs[0]}
	for _, v := range vs[1:] {
		if v == cur.Hi {
			continue
		}
		if d.Next(cur.Hi) == v {
			cur.Hi = v
			continue
		}
		out = append(out, cur)
		cur = Range[T]{Lo: v, Hi: v}
	}
	out = append(out, cur)
	return out
}

// gobCountable mirrors CountableSetSpecifier's fields, exported so gob can
// see them. Domain is deliberately excluded: its Next/Prev fields are
// functions, which gob cannot encode. Decode reconstructs the domain for the
// one type this repository instantiates CountableSetSpecifier with (Port);
// other instantiations decode with a nil Domain, unused in this codebase.
type gobCountable[T comparable] struct {
	Kind  Kind
	Elem  T
	Some  []T
	Holes []T
}

// GobEncode implements gob.GobEncoder.
func (s CountableSetSpecifier[T]) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	g := gobCountable[T]{Kind: s.kind, Elem: s.elem, Some: s.some, Holes: s.holes}
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (s *CountableSetSpecifier[T]) GobDecode(data []byte) error {
	var g gobCountable[T]
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return err
	}
	s.kind, s.elem, s.some, s.holes = g.Kind, g.Elem, g.Some, g.Holes
	var zero T
	if _, ok := any(zero).(Port); ok {
		s.domain = any(PortDomain).(*Domain[T])
	}
	return nil
}

// sortByDomain sorts vs in ascending domain order. It walks the domain once
// from Min to build a position index, then sorts by that index, rather than
// comparing pairs by repeated Next-walks.
func sortByDomain[T comparable](vs []T, d *Domain[T]) {
	pos := make(map[T]int)
	i := 0
	for v := d.Min; ; v = d.Next(v) {
		pos[v] = i
		i++
		if v == d.Max {
			break
		}
	}
	sort.Slice(vs, func(a, b int) bool {
		return pos[vs[a]] < pos[vs[b]]
	})
}
