// Package catalog describes the systemd sandboxing directives this tool
// can emit: for each option, its candidate values ordered least to most
// restrictive, and what each value would deny.
package catalog

import (
	"strings"

	"unitharden/action"
	"unitharden/errors"
)

// OptionValueKind tags which shape an OptionValue holds.
type OptionValueKind int

const (
	// BooleanValue is a plain true/false directive value.
	BooleanValue OptionValueKind = iota
	// StringValue is a single opaque string directive value.
	StringValue
	// ListValue is a space-separated list of directive values.
	ListValue
)

// OptionValue is the rendered form of a candidate value.
type OptionValue struct {
	Kind      OptionValueKind
	Bool      bool
	String    string
	List      []string
	Mergeable bool // only meaningful when Kind == ListValue
}

// DenyEffect reports whether a candidate value would have blocked the
// given observed action.
type DenyEffect func(action.ProgramAction) bool

// OptionValueDescription is one candidate value for an OptionDescription,
// together with what it denies.
type OptionValueDescription struct {
	Value      OptionValue
	DenyEffect DenyEffect
}

// OptionDescription is one systemd sandboxing directive: its name and its
// candidate values, ordered least to most restrictive.
type OptionDescription struct {
	Name           string
	PossibleValues []OptionValueDescription
	Mergeable      bool
}

// Validate checks a catalog for internal consistency before any trace is
// consumed: every option must have at least one candidate, all candidates
// of an option must share one value kind, and list entries naming
// capabilities or syscalls must come from the known tables. The shipped
// Build output always passes; Validate exists so a bad edit to the catalog
// fails at startup rather than as a silently wrong drop-in fragment.
func Validate(opts []OptionDescription) error {
	for _, opt := range opts {
		if len(opt.PossibleValues) == 0 {
			return errors.WrapWithDetail(errors.ErrCatalogEmptyValues, errors.ErrCatalog, "catalog.Validate", opt.Name)
		}
		kind := opt.PossibleValues[0].Value.Kind
		for _, v := range opt.PossibleValues {
			if v.Value.Kind != kind {
				return errors.WrapWithDetail(nil, errors.ErrCatalog, "catalog.Validate",
					opt.Name+": candidates mix value kinds")
			}
			if v.DenyEffect == nil {
				return errors.WrapWithDetail(nil, errors.ErrCatalog, "catalog.Validate",
					opt.Name+": candidate has no deny effect")
			}
			if err := validateListEntries(opt.Name, v.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateListEntries(optName string, v OptionValue) error {
	if v.Kind != ListValue {
		return nil
	}
	for _, entry := range v.List {
		switch optName {
		case "CapabilityBoundingSet":
			if !IsKnownCapability(entry) {
				return errors.WrapWithDetail(errors.ErrUnknownCapability, errors.ErrCatalog, "catalog.Validate", entry)
			}
		case "SystemCallFilter":
			name := strings.TrimPrefix(entry, "~")
			if strings.HasPrefix(name, "@") {
				continue // systemd syscall-set group, not a single name
			}
			if !IsKnownSyscallName(name) {
				return errors.WrapWithDetail(errors.ErrUnknownSyscallName, errors.ErrCatalog, "catalog.Validate", entry)
			}
		case "RestrictNamespaces":
			if !IsKnownNamespace(entry) {
				return errors.WrapWithDetail(nil, errors.ErrCatalog, "catalog.Validate", entry)
			}
		}
	}
	return nil
}
