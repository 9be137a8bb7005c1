// unitharden profiles a program's system calls and synthesizes the
// strongest systemd sandboxing directives still compatible with its
// observed behavior.
//
// Commands:
//
//	run                  - trace a command and summarize its behavior
//	merge-profile-data   - merge profile files from multiple runs
//	service start-profile  - relax a unit's sandboxing for profiling
//	service finish-profile - apply resolved hardening directives
//	service reset          - remove fragments this tool wrote
//	list-systemd-options - print the option catalog as markdown
package main

import (
	"fmt"
	"os"

	"unitharden/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
