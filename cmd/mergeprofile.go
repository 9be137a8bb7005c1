package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"unitharden/action"
	"unitharden/errors"
	"unitharden/logging"
	"unitharden/profile"
)

var mergeProfileCmd = &cobra.Command{
	Use:   "merge-profile-data <profile-file>...",
	Short: "Merge profile files from previous runs and resolve sandboxing directives",
	Long: `Merge loads profile files written by "run --save-profile", concatenates
their actions in the order given, deduplicates adjacent repeats, resolves
the strongest compatible sandboxing directives over the merged stream, and
prints them. The consumed profile files are removed afterwards unless
--keep is given.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMergeProfile,
}

var (
	mergeProfileAggressive bool
	mergeProfileKeep       bool
	mergeProfileOutput     string
)

func init() {
	rootCmd.AddCommand(mergeProfileCmd)
	mergeProfileCmd.Flags().BoolVar(&mergeProfileAggressive, "aggressive", false, "use the aggressive hardening mode catalog when resolving")
	mergeProfileCmd.Flags().BoolVar(&mergeProfileKeep, "keep", false, "keep the input profile files instead of removing them")
	mergeProfileCmd.Flags().StringVarP(&mergeProfileOutput, "output", "o", "", "write resolved directives to this path instead of stdout")
}

func runMergeProfile(cmd *cobra.Command, args []string) error {
	runs := make([][]action.ProgramAction, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(err, errors.ErrIO, "cmd.merge-profile-data")
		}
		actions, err := profile.Deserialize(data)
		if err != nil {
			return fmt.Errorf("deserialize %s: %w", path, err)
		}
		runs = append(runs, actions)
	}

	merged := profile.Merge(runs...)
	logging.Default().Info("profiles merged", "inputs", len(args), "actions", len(merged))

	if err := resolveAndWrite(merged, mergeProfileAggressive, mergeProfileOutput); err != nil {
		return err
	}

	if mergeProfileKeep {
		return nil
	}
	for _, path := range args {
		if err := os.Remove(path); err != nil {
			return errors.Wrap(err, errors.ErrIO, "cmd.merge-profile-data")
		}
	}
	return nil
}
