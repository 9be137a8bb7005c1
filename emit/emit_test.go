package emit

import (
	"strings"
	"testing"

	"unitharden/action"
	"unitharden/catalog"
	"unitharden/resolver"
)

func TestRenderBooleanStringAndList(t *testing.T) {
	resolved := []resolver.ResolvedOption{
		{Name: "PrivateNetwork", Value: catalog.OptionValue{Kind: catalog.BooleanValue, Bool: true}},
		{Name: "ProtectSystem", Value: catalog.OptionValue{Kind: catalog.StringValue, String: "strict"}},
		{Name: "RestrictAddressFamilies", Value: catalog.OptionValue{Kind: catalog.ListValue, List: []string{"AF_UNIX", "AF_INET"}}},
	}
	out := Render(resolved)
	for _, want := range []string{
		"PrivateNetwork=true",
		"ProtectSystem=strict",
		"RestrictAddressFamilies=AF_UNIX AF_INET",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	// Build the catalog twice: byte-identical output must not depend on a
	// particular Build invocation (map iteration order must never leak).
	actions := []action.ProgramAction{
		action.WriteAction{Path: "/usr/lib/foo.so"},
		action.MknodSpecialAction{},
	}
	a := Render(resolver.Resolve(catalog.Build(catalog.Safe), actions))
	b := Render(resolver.Resolve(catalog.Build(catalog.Safe), actions))
	if a != b {
		t.Errorf("Render output not deterministic:\n%s\nvs\n%s", a, b)
	}
}

func TestRenderCatalogMarkdownIncludesEveryOption(t *testing.T) {
	opts := catalog.Build(catalog.Safe)
	md := RenderCatalogMarkdown(opts)
	for _, opt := range opts {
		if !strings.Contains(md, opt.Name) {
			t.Errorf("markdown dump missing option %s", opt.Name)
		}
	}
}
