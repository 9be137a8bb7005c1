package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"unitharden/catalog"
	"unitharden/emit"
	"unitharden/errors"
)

var listOptionsCmd = &cobra.Command{
	Use:   "list-systemd-options",
	Short: "Print the catalog of systemd sandboxing options this tool can resolve",
	Long: `Dumps the option catalog as markdown: one section per option, linking to
its systemd.exec(5) entry, listing its possible values from least to most
restrictive. Purely derived from the catalog; no trace involved.`,
	Args: cobra.NoArgs,
	RunE: runListOptions,
}

var listOptionsAggressive bool

func init() {
	rootCmd.AddCommand(listOptionsCmd)
	listOptionsCmd.Flags().BoolVar(&listOptionsAggressive, "aggressive", false, "include options only offered in aggressive hardening mode")
}

func runListOptions(cmd *cobra.Command, args []string) error {
	mode := catalog.Safe
	if listOptionsAggressive {
		mode = catalog.Aggressive
	}
	opts := catalog.Build(mode)
	if err := catalog.Validate(opts); err != nil {
		return err
	}
	fmt.Fprint(os.Stdout, emit.RenderCatalogMarkdown(opts))
	return nil
}

func readFileArg(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrIO, "cmd.readFileArg")
	}
	return string(data), nil
}
