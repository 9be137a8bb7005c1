package catalog

import (
	"strings"

	"unitharden/action"
	"unitharden/setspec"
)

// HardeningMode controls which candidate values Build offers. Safe sticks to
// directives broadly compatible with ordinary services; Aggressive also
// offers values that assume the trace covered every code path the service
// will ever exercise.
type HardeningMode int

const (
	Safe HardeningMode = iota
	Aggressive
)

// Build returns the catalog of systemd sandboxing directives this tool can
// resolve. Each OptionDescription's PossibleValues are ordered least to most
// restrictive; Build itself carries no per-trace state.
func Build(mode HardeningMode) []OptionDescription {
	opts := []OptionDescription{
		protectSystemOption(),
		protectHomeOption(),
		privateNetworkOption(),
		restrictAddressFamiliesOption(),
		socketBindDenyOption(),
		systemCallFilterOption(),
		capabilityBoundingSetOption(),
		restrictNamespacesOption(),
		memoryDenyWriteExecuteOption(),
		restrictRealtimeOption(),
		devicePolicyOption(),
	}
	if mode == Aggressive {
		opts = append(opts, privateUsersOption())
	}
	return opts
}

func isWriteOrCreate(a action.ProgramAction) (string, bool) {
	switch v := a.(type) {
	case action.WriteAction:
		return v.Path, true
	case action.CreateAction:
		return v.Path, true
	}
	return "", false
}

func isAnyPathAccess(a action.ProgramAction) (string, bool) {
	switch v := a.(type) {
	case action.ReadAction:
		return v.Path, true
	case action.WriteAction:
		return v.Path, true
	case action.CreateAction:
		return v.Path, true
	}
	return "", false
}

func hasPrefixAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

var (
	systemPaths = []string{"/usr", "/boot", "/efi", "/opt"}
	etcPath     = "/etc"
	homePaths   = []string{"/home", "/root", "/run/user"}
	writablePaths = []string{"/dev", "/proc", "/sys", "/tmp", "/var/tmp", "/run"}
)

func protectSystemOption() OptionDescription {
	return OptionDescription{
		Name: "ProtectSystem",
		PossibleValues: []OptionValueDescription{
			{
				Value:      OptionValue{Kind: StringValue, String: "false"},
				DenyEffect: func(action.ProgramAction) bool { return false },
			},
			{
				Value: OptionValue{Kind: StringValue, String: "true"},
				DenyEffect: func(a action.ProgramAction) bool {
					p, ok := isWriteOrCreate(a)
					return ok && hasPrefixAny(p, systemPaths)
				},
			},
			{
				Value: OptionValue{Kind: StringValue, String: "full"},
				DenyEffect: func(a action.ProgramAction) bool {
					p, ok := isWriteOrCreate(a)
					return ok && (hasPrefixAny(p, systemPaths) || strings.HasPrefix(p, etcPath))
				},
			},
			{
				Value: OptionValue{Kind: StringValue, String: "strict"},
				DenyEffect: func(a action.ProgramAction) bool {
					p, ok := isWriteOrCreate(a)
					return ok && !hasPrefixAny(p, writablePaths)
				},
			},
		},
	}
}

func protectHomeOption() OptionDescription {
	return OptionDescription{
		Name: "ProtectHome",
		PossibleValues: []OptionValueDescription{
			{
				Value:      OptionValue{Kind: StringValue, String: "false"},
				DenyEffect: func(action.ProgramAction) bool { return false },
			},
			{
				Value: OptionValue{Kind: StringValue, String: "read-only"},
				DenyEffect: func(a action.ProgramAction) bool {
					p, ok := isWriteOrCreate(a)
					return ok && hasPrefixAny(p, homePaths)
				},
			},
			{
				Value: OptionValue{Kind: StringValue, String: "tmpfs"},
				DenyEffect: func(a action.ProgramAction) bool {
					p, ok := isAnyPathAccess(a)
					return ok && hasPrefixAny(p, homePaths)
				},
			},
		},
	}
}

func privateNetworkOption() OptionDescription {
	return OptionDescription{
		Name: "PrivateNetwork",
		PossibleValues: []OptionValueDescription{
			{
				Value:      OptionValue{Kind: BooleanValue, Bool: false},
				DenyEffect: func(action.ProgramAction) bool { return false },
			},
			{
				Value: OptionValue{Kind: BooleanValue, Bool: true},
				DenyEffect: func(a action.ProgramAction) bool {
					_, ok := a.(action.NetworkActivityAction)
					return ok
				},
			},
		},
	}
}

// knownFamilies is the fixed vocabulary RestrictAddressFamilies= candidates
// reason about. A family the tool has never heard of is treated as outside
// every allow-list (conservative: such an observation denies the candidate).
var knownFamilies = []action.SocketFamily{
	"AF_UNIX", "AF_INET", "AF_INET6", "AF_NETLINK", "AF_PACKET", "AF_BLUETOOTH",
}

func allowSet(allowed []action.SocketFamily) map[action.SocketFamily]struct{} {
	m := make(map[action.SocketFamily]struct{}, len(allowed))
	for _, f := range allowed {
		m[f] = struct{}{}
	}
	return m
}

func deniesFamilyOutside(allowed map[action.SocketFamily]struct{}) DenyEffect {
	return func(a action.ProgramAction) bool {
		na, ok := a.(action.NetworkActivityAction)
		if !ok {
			return false
		}
		af := na.Activity.AF
		if af.Kind() == setspec.KindAll {
			return true
		}
		for _, f := range af.Elements() {
			if _, ok := allowed[f]; !ok {
				return true
			}
		}
		return false
	}
}

func listValue(families []action.SocketFamily) OptionValue {
	strs := make([]string, len(families))
	for i, f := range families {
		strs[i] = string(f)
	}
	return OptionValue{Kind: ListValue, List: strs, Mergeable: true}
}

func restrictAddressFamiliesOption() OptionDescription {
	all := knownFamilies
	inetOnly := []action.SocketFamily{"AF_UNIX", "AF_INET", "AF_INET6"}
	unixOnly := []action.SocketFamily{"AF_UNIX"}
	none := []action.SocketFamily{}
	return OptionDescription{
		Name:      "RestrictAddressFamilies",
		Mergeable: true,
		PossibleValues: []OptionValueDescription{
			{Value: listValue(all), DenyEffect: deniesFamilyOutside(allowSet(all))},
			{Value: listValue(inetOnly), DenyEffect: deniesFamilyOutside(allowSet(inetOnly))},
			{Value: listValue(unixOnly), DenyEffect: deniesFamilyOutside(allowSet(unixOnly))},
			{Value: listValue(none), DenyEffect: deniesFamilyOutside(allowSet(none))},
		},
	}
}

// socketBindDenyOption offers two candidates: an empty value that denies
// nothing, and the maximal "any" that denies every bind. The resolver checks
// only "any"; when that candidate is incompatible, it derives a SocketBindAllow
// port list directly from the observed Bind activity via
// setspec.CountableSetSpecifier[Port].Ranges() rather than picking among
// catalog candidates (see resolver.go).
func socketBindDenyOption() OptionDescription {
	return OptionDescription{
		Name: "SocketBindDeny",
		PossibleValues: []OptionValueDescription{
			{
				Value:      OptionValue{Kind: StringValue, String: ""},
				DenyEffect: func(action.ProgramAction) bool { return false },
			},
			{
				Value: OptionValue{Kind: StringValue, String: "any"},
				DenyEffect: func(a action.ProgramAction) bool {
					na, ok := a.(action.NetworkActivityAction)
					return ok && na.Activity.Kind.ContainsOne(action.Bind)
				},
			},
		},
	}
}

func systemCallFilterOption() OptionDescription {
	return OptionDescription{
		Name:      "SystemCallFilter",
		Mergeable: true,
		PossibleValues: []OptionValueDescription{
			{
				Value:      OptionValue{Kind: ListValue, List: nil, Mergeable: true},
				DenyEffect: func(action.ProgramAction) bool { return false },
			},
			{
				Value: OptionValue{Kind: ListValue, List: []string{"~@clock"}, Mergeable: true},
				DenyEffect: func(a action.ProgramAction) bool {
					_, ok := a.(action.SetAlarmAction)
					return ok
				},
			},
			{
				Value: OptionValue{Kind: ListValue, List: []string{"~@clock", "~epoll_ctl"}, Mergeable: true},
				DenyEffect: func(a action.ProgramAction) bool {
					switch a.(type) {
					case action.SetAlarmAction, action.WakeupAction:
						return true
					}
					return false
				},
			},
		},
	}
}

func capabilityBoundingSetOption() OptionDescription {
	return OptionDescription{
		Name:      "CapabilityBoundingSet",
		Mergeable: true,
		PossibleValues: []OptionValueDescription{
			{
				Value:      OptionValue{Kind: ListValue, List: AllCapabilityNames(), Mergeable: true},
				DenyEffect: func(action.ProgramAction) bool { return false },
			},
			{
				Value: OptionValue{Kind: ListValue, List: nil, Mergeable: true},
				DenyEffect: func(a action.ProgramAction) bool {
					switch a.(type) {
					case action.MknodSpecialAction, action.SetRealtimeSchedulerAction:
						return true
					}
					return false
				},
			},
		},
	}
}

// restrictNamespacesOption's deny effect is always false: this tool does not
// model setns/unshare as a ProgramAction, so no observation can prove the
// most restrictive value unsafe. The resolver will always pick true here;
// operators who actually need a contained namespace should disable it
// manually if profiling missed a namespace-dependent code path.
func restrictNamespacesOption() OptionDescription {
	return OptionDescription{
		Name: "RestrictNamespaces",
		PossibleValues: []OptionValueDescription{
			{Value: OptionValue{Kind: BooleanValue, Bool: false}, DenyEffect: func(action.ProgramAction) bool { return false }},
			{Value: OptionValue{Kind: BooleanValue, Bool: true}, DenyEffect: func(action.ProgramAction) bool { return false }},
		},
	}
}

func memoryDenyWriteExecuteOption() OptionDescription {
	return OptionDescription{
		Name: "MemoryDenyWriteExecute",
		PossibleValues: []OptionValueDescription{
			{Value: OptionValue{Kind: BooleanValue, Bool: false}, DenyEffect: func(action.ProgramAction) bool { return false }},
			{
				Value: OptionValue{Kind: BooleanValue, Bool: true},
				DenyEffect: func(a action.ProgramAction) bool {
					_, ok := a.(action.WriteExecuteMemoryMappingAction)
					return ok
				},
			},
		},
	}
}

func restrictRealtimeOption() OptionDescription {
	return OptionDescription{
		Name: "RestrictRealtime",
		PossibleValues: []OptionValueDescription{
			{Value: OptionValue{Kind: BooleanValue, Bool: false}, DenyEffect: func(action.ProgramAction) bool { return false }},
			{
				Value: OptionValue{Kind: BooleanValue, Bool: true},
				DenyEffect: func(a action.ProgramAction) bool {
					_, ok := a.(action.SetRealtimeSchedulerAction)
					return ok
				},
			},
		},
	}
}

func devicePolicyOption() OptionDescription {
	return OptionDescription{
		Name: "DevicePolicy",
		PossibleValues: []OptionValueDescription{
			{Value: OptionValue{Kind: StringValue, String: "auto"}, DenyEffect: func(action.ProgramAction) bool { return false }},
			{
				Value: OptionValue{Kind: StringValue, String: "closed"},
				DenyEffect: func(a action.ProgramAction) bool {
					_, ok := a.(action.MknodSpecialAction)
					return ok
				},
			},
		},
	}
}

// privateUsersOption is only offered in Aggressive mode: like
// RestrictNamespaces, no traced syscall proves it unsafe, so it is only
// worth offering to operators who accept that risk explicitly.
func privateUsersOption() OptionDescription {
	return OptionDescription{
		Name: "PrivateUsers",
		PossibleValues: []OptionValueDescription{
			{Value: OptionValue{Kind: BooleanValue, Bool: false}, DenyEffect: func(action.ProgramAction) bool { return false }},
			{Value: OptionValue{Kind: BooleanValue, Bool: true}, DenyEffect: func(action.ProgramAction) bool { return false }},
		},
	}
}
