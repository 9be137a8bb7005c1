// Package emit renders resolved sandboxing directives as the Key=Value text
// a systemd drop-in fragment expects. It carries no policy of its own; all
// it does is format what the resolver already decided.
package emit

import (
	"fmt"
	"strconv"
	"strings"

	"unitharden/catalog"
	"unitharden/resolver"
)

// Render formats resolved options as one "Name=Value" line per option, in
// the order given, suitable for a systemd [Service] drop-in fragment.
func Render(resolved []resolver.ResolvedOption) string {
	var b strings.Builder
	b.WriteString("[Service]\n")
	for _, r := range resolved {
		fmt.Fprintf(&b, "%s=%s\n", r.Name, renderValue(r.Value))
	}
	return b.String()
}

func renderValue(v catalog.OptionValue) string {
	switch v.Kind {
	case catalog.BooleanValue:
		return strconv.FormatBool(v.Bool)
	case catalog.StringValue:
		return v.String
	case catalog.ListValue:
		return strings.Join(v.List, " ")
	default:
		return ""
	}
}

// RenderCatalogMarkdown renders the full option catalog (not a resolved
// subset) as a markdown document, for the list-systemd-options command.
// This is purely derived from the catalog's own data; it consumes no trace.
func RenderCatalogMarkdown(opts []catalog.OptionDescription) string {
	var b strings.Builder
	b.WriteString("# Sandboxing options\n\n")
	for _, opt := range opts {
		fmt.Fprintf(&b, "## [`%s`](https://www.freedesktop.org/software/systemd/man/latest/systemd.exec.html#%s=)\n\n", opt.Name, opt.Name)
		if opt.Mergeable {
			b.WriteString("Mergeable across candidate values.\n\n")
		}
		for _, v := range opt.PossibleValues {
			rendered := renderValue(v.Value)
			if rendered == "" {
				rendered = "(empty)"
			}
			fmt.Fprintf(&b, "- `%s`\n", rendered)
		}
		b.WriteString("\n")
	}
	return b.String()
}
