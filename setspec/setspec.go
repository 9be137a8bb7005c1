// Package setspec implements the small set algebra used to describe what a
// sandboxing option value permits or denies: either nothing, exactly one
// element, an explicit list, or everything.
package setspec

import (
	"bytes"
	"encoding/gob"
)

// Kind tags which variant a SetSpecifier holds.
type Kind int

const (
	// KindEmpty denotes the empty set.
	KindEmpty Kind = iota
	// KindOne denotes a singleton set.
	KindOne
	// KindSome denotes an explicit, unordered list of elements.
	KindSome
	// KindAll denotes the universe (unbounded or not enumerated).
	KindAll
)

// SetSpecifier quantifies something that is done or denied, over a universe
// that may be unbounded or not worth enumerating (e.g. socket families).
type SetSpecifier[T comparable] struct {
	kind Kind
	elem T
	some []T
}

// Empty returns the empty SetSpecifier.
func Empty[T comparable]() SetSpecifier[T] {
	return SetSpecifier[T]{kind: KindEmpty}
}

// One returns a singleton SetSpecifier.
func One[T comparable](v T) SetSpecifier[T] {
	return SetSpecifier[T]{kind: KindOne, elem: v}
}

// Some returns a SetSpecifier holding exactly the given elements.
func Some[T comparable](vs []T) SetSpecifier[T] {
	cp := make([]T, len(vs))
	copy(cp, vs)
	return SetSpecifier[T]{kind: KindSome, some: cp}
}

// All returns the SetSpecifier matching every value in the universe.
func All[T comparable]() SetSpecifier[T] {
	return SetSpecifier[T]{kind: KindAll}
}

// Kind reports which variant s holds.
func (s SetSpecifier[T]) Kind() Kind {
	return s.kind
}

// ContainsOne reports whether needle is a member of s.
func (s SetSpecifier[T]) ContainsOne(needle T) bool {
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
		return true
	default:
		return false
	}
}

// Intersects reports whether s and other share at least one element.
// Symmetric: a.Intersects(b) == b.Intersects(a).
func (s SetSpecifier[T]) Intersects(other SetSpecifier[T]) bool {
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
		return other.kind != KindEmpty
	default:
		return false
	}
}

// Elements returns the enumerated members of s.
// It panics if s is KindAll, whose universe is not enumerable in general;
// callers must check Kind() first.
func (s SetSpecifier[T]) Elements() []T {
	switch s.kind {
	case KindEmpty:
		return nil
	case KindOne:
		return []T{s.elem}
	case KindSome:
		return s.some
	case KindAll:
		panic("setspec: Elements() called on All, whose universe is not enumerable")
	default:
		return nil
	}
}

// gobSetSpecifier mirrors SetSpecifier's fields, exported so gob can see
// them; SetSpecifier itself keeps its fields private to the package.
type gobSetSpecifier[T comparable] struct {
	Kind Kind
	Elem T
	Some []T
}

// GobEncode implements gob.GobEncoder, since SetSpecifier's fields are
// unexported and would otherwise be silently dropped by gob.
func (s SetSpecifier[T]) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	g := gobSetSpecifier[T]{Kind: s.kind, Elem: s.elem, Some: s.some}
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (s *SetSpecifier[T]) GobDecode(data []byte) error {
	var g gobSetSpecifier[T]
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&g); err != nil {
		return err
	}
	s.kind, s.elem, s.some = g.Kind, g.Elem, g.Some
	return nil
}
