package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"unitharden/unit"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the profiling/hardening drop-in fragments for a systemd unit",
}

var serviceStartProfileCmd = &cobra.Command{
	Use:   "start-profile <unit-name>",
	Short: "Write a drop-in fragment that relaxes sandboxing for profiling, then reload",
	Args:  cobra.ExactArgs(1),
	RunE:  runServiceStartProfile,
}

var serviceFinishProfileCmd = &cobra.Command{
	Use:   "finish-profile <unit-name> <directives-file>",
	Short: "Replace the profiling fragment with resolved hardening directives, then reload",
	Args:  cobra.ExactArgs(2),
	RunE:  runServiceFinishProfile,
}

var serviceResetCmd = &cobra.Command{
	Use:   "reset <unit-name>",
	Short: "Remove any fragments this tool wrote for the unit, then reload",
	Args:  cobra.ExactArgs(1),
	RunE:  runServiceReset,
}

var serviceForce bool

func init() {
	rootCmd.AddCommand(serviceCmd)
	serviceCmd.AddCommand(serviceStartProfileCmd, serviceFinishProfileCmd, serviceResetCmd)
	serviceStartProfileCmd.Flags().BoolVarP(&serviceForce, "force", "f", false, "overwrite an existing profiling fragment")
}

func runServiceStartProfile(cmd *cobra.Command, args []string) error {
	ctx := GetContext()
	svc, err := unit.New(args[0])
	if err != nil {
		return err
	}
	if err := svc.StartProfile(ctx, serviceForce); err != nil {
		return fmt.Errorf("start profile: %w", err)
	}
	return nil
}

func runServiceFinishProfile(cmd *cobra.Command, args []string) error {
	ctx := GetContext()
	svc, err := unit.New(args[0])
	if err != nil {
		return err
	}

	directives, err := readFileArg(args[1])
	if err != nil {
		return err
	}

	if err := svc.FinishProfile(ctx, directives); err != nil {
		return fmt.Errorf("finish profile: %w", err)
	}
	return nil
}

func runServiceReset(cmd *cobra.Command, args []string) error {
	ctx := GetContext()
	svc, err := unit.New(args[0])
	if err != nil {
		return err
	}
	if err := svc.Reset(ctx); err != nil {
		return fmt.Errorf("reset unit: %w", err)
	}
	return nil
}
