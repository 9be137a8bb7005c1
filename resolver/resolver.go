// Package resolver picks the strongest systemd sandboxing directives
// compatible with an observed action stream, given a catalog of candidate
// values ordered least to most restrictive.
package resolver

import (
	"strconv"

	"unitharden/action"
	"unitharden/catalog"
	"unitharden/setspec"
)

// ResolvedOption is one directive the resolver selected for emission.
type ResolvedOption struct {
	Name  string
	Value catalog.OptionValue
}

// Resolve computes, for every catalog option, the most restrictive candidate
// value whose deny effects don't match any observed action. Options with no
// compatible candidate are omitted. Output order follows catalog order; the
// SocketBindAllow refinement (see resolveSocketBind) is emitted at
// SocketBindDeny's catalog position.
func Resolve(opts []catalog.OptionDescription, actions []action.ProgramAction) []ResolvedOption {
	var out []ResolvedOption
	for _, opt := range opts {
		if opt.Name == "SocketBindDeny" {
			out = append(out, resolveSocketBind(opt, actions)...)
			continue
		}
		if resolved, ok := resolveOption(opt, actions); ok {
			out = append(out, resolved)
		}
	}
	return out
}

func compatible(d catalog.DenyEffect, actions []action.ProgramAction) bool {
	for _, a := range actions {
		if d(a) {
			return false
		}
	}
	return true
}

// resolveOption retains the last (most restrictive) compatible candidate.
// Mergeable list options are handled the same way: the last compatible
// candidate's list is emitted as it stands, and the lists of several
// compatible candidates are not merged into one value.
func resolveOption(opt catalog.OptionDescription, actions []action.ProgramAction) (ResolvedOption, bool) {
	var last *catalog.OptionValueDescription
	for i := range opt.PossibleValues {
		v := &opt.PossibleValues[i]
		if compatible(v.DenyEffect, actions) {
			last = v
		}
	}
	if last == nil {
		return ResolvedOption{}, false
	}
	return ResolvedOption{Name: opt.Name, Value: last.Value}, true
}

// resolveSocketBind special-cases SocketBindDeny: when denying every bind is
// incompatible with the trace, it doesn't fall back to omitting restriction
// entirely. Instead it derives a SocketBindAllow port list from the observed
// Bind activity and pairs it with SocketBindDeny=any (allow-list entries take
// precedence over the deny in systemd, so together they permit exactly the
// observed ports). The observed set is accumulated by Remove-ing each bound
// port from the full port domain and taking the complement's holes; a Bind
// whose port set is All (port unknown) makes the refinement impossible and
// the restriction is dropped entirely.
func resolveSocketBind(opt catalog.OptionDescription, actions []action.ProgramAction) []ResolvedOption {
	last := opt.PossibleValues[len(opt.PossibleValues)-1]
	if compatible(last.DenyEffect, actions) {
		return []ResolvedOption{{Name: opt.Name, Value: last.Value}}
	}

	unbound := setspec.CountableAll(setspec.PortDomain)
	observed := false
	for _, a := range actions {
		na, ok := a.(action.NetworkActivityAction)
		if !ok || !na.Activity.Kind.ContainsOne(action.Bind) {
			continue
		}
		if na.Activity.LocalPort.Kind() == setspec.KindAll {
			return nil
		}
		for _, r := range na.Activity.LocalPort.Ranges() {
			for p := r.Lo; ; p = setspec.PortDomain.Next(p) {
				if unbound.ContainsOne(p) {
					unbound = unbound.Remove(p)
					observed = true
				}
				if p == r.Hi {
					break
				}
			}
		}
	}
	if !observed {
		return nil
	}

	ranges := allowedRanges(unbound)
	values := make([]string, len(ranges))
	for i, r := range ranges {
		values[i] = renderPortRange(r)
	}
	return []ResolvedOption{
		{
			Name:  "SocketBindAllow",
			Value: catalog.OptionValue{Kind: catalog.ListValue, List: values, Mergeable: true},
		},
		{
			Name:  "SocketBindDeny",
			Value: catalog.OptionValue{Kind: catalog.StringValue, String: "any"},
		},
	}
}

// allowedRanges recovers the removed (observed) ports from the remaining
// unbound set: the observed set is the domain minus what's left, so its
// ranges are exactly the gaps between (and around) the unbound set's sorted
// ranges.
func allowedRanges(unbound setspec.CountableSetSpecifier[action.Port]) []setspec.Range[action.Port] {
	d := setspec.PortDomain
	remaining := unbound.Ranges()
	var out []setspec.Range[action.Port]
	lo := d.Min
	for _, r := range remaining {
		if r.Lo != d.Min && lo <= d.Prev(r.Lo) {
			out = append(out, setspec.Range[action.Port]{Lo: lo, Hi: d.Prev(r.Lo)})
		}
		if r.Hi == d.Max {
			return out
		}
		lo = d.Next(r.Hi)
	}
	out = append(out, setspec.Range[action.Port]{Lo: lo, Hi: d.Max})
	return out
}

func renderPortRange(r setspec.Range[action.Port]) string {
	if r.Lo == r.Hi {
		return strconv.Itoa(int(r.Lo))
	}
	return strconv.Itoa(int(r.Lo)) + "-" + strconv.Itoa(int(r.Hi))
}
