package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"unitharden/action"
	"unitharden/catalog"
	"unitharden/emit"
	"unitharden/errors"
	"unitharden/logging"
	"unitharden/profile"
	"unitharden/resolver"
	"unitharden/trace"
	"unitharden/tracer"
)

// defaultActionListWidth is the line width used for truncating the action
// listing when stdout is not a terminal (piped or redirected), mirroring a
// conservative 80-column terminal.
const defaultActionListWidth = 80

var runCmd = &cobra.Command{
	Use:   "run -- <command> [args...]",
	Short: "Trace a command and summarize its observed behavior",
	Long: `Run spawns strace against the given command, summarizes the resulting
syscall stream into a list of program actions, and either writes a profile
file (--save-profile) or resolves and prints systemd sandboxing directives
directly (--resolve).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

var (
	runTraceFile   string
	runSaveProfile string
	runResolve     bool
	runAggressive  bool
	runOutput      string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runTraceFile, "trace-file", "", "write strace's raw output to this path instead of reading it directly")
	runCmd.Flags().StringVar(&runSaveProfile, "save-profile", "", "write the summarized actions to this profile file instead of resolving them")
	runCmd.Flags().BoolVar(&runResolve, "resolve", false, "resolve sandboxing directives from this run's actions and print them")
	runCmd.Flags().BoolVar(&runAggressive, "aggressive", false, "use the aggressive hardening mode catalog when resolving")
	runCmd.Flags().StringVarP(&runOutput, "output", "o", "", "write resolved directives to this path instead of stdout")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := GetContext()
	log := logging.Default()

	session, err := tracer.Start(ctx, tracer.Options{Command: args, TraceFile: runTraceFile})
	if err != nil {
		return fmt.Errorf("start tracer: %w", err)
	}

	pr, pw := io.Pipe()
	go func() {
		for line := range session.Lines() {
			if _, err := io.WriteString(pw, line+"\n"); err != nil {
				break
			}
		}
		pw.Close()
	}()

	parser := trace.NewParser()
	results := parser.Parse(pr)

	syscalls := make(chan trace.Syscall)
	go func() {
		defer close(syscalls)
		for r := range results {
			if r.Err != nil {
				log.Warn("skipping unparseable trace line", "error", r.Err)
				continue
			}
			syscalls <- *r.Syscall
		}
	}()

	actions, err := action.Summarize(syscalls)
	if err != nil {
		return fmt.Errorf("summarize trace: %w", err)
	}

	if err := session.Wait(); err != nil {
		log.Warn("traced command exited abnormally", "error", err)
	}
	select {
	case err := <-session.Errs():
		if err != nil {
			log.Warn("tracer stream error", "error", err)
		}
	default:
	}

	if runSaveProfile != "" {
		data, err := profile.Serialize(actions)
		if err != nil {
			return fmt.Errorf("serialize profile: %w", err)
		}
		if err := os.WriteFile(runSaveProfile, data, 0644); err != nil {
			return errors.Wrap(err, errors.ErrIO, "cmd.run")
		}
		log.Info("profile saved", "path", runSaveProfile, "actions", len(actions))
		return nil
	}

	if !runResolve {
		printActions(os.Stdout, actions)
		return nil
	}

	return resolveAndWrite(actions, runAggressive, runOutput)
}

// printActions writes one line per action, truncating each to the
// terminal's width when stdout is a terminal so a long path or network
// descriptor doesn't wrap mid-word across the window; falls back to
// defaultActionListWidth when stdout is redirected to a file or pipe, where
// term.GetSize has nothing to query.
func printActions(w *os.File, actions []action.ProgramAction) {
	width := defaultActionListWidth
	if term.IsTerminal(int(w.Fd())) {
		if cols, _, err := term.GetSize(int(w.Fd())); err == nil && cols > 0 {
			width = cols
		}
	}
	for _, a := range actions {
		line := fmt.Sprintf("%+v", a)
		if len(line) > width {
			line = line[:width-1] + "…"
		}
		fmt.Fprintln(w, line)
	}
}

func resolveAndWrite(actions []action.ProgramAction, aggressive bool, output string) error {
	mode := catalog.Safe
	if aggressive {
		mode = catalog.Aggressive
	}

	opts := catalog.Build(mode)
	if err := catalog.Validate(opts); err != nil {
		return fmt.Errorf("validate catalog: %w", err)
	}

	resolved := resolver.Resolve(opts, actions)
	text := emit.Render(resolved)

	if output == "" {
		fmt.Fprint(os.Stdout, text)
		return nil
	}
	if err := os.WriteFile(output, []byte(text), 0644); err != nil {
		return errors.Wrap(err, errors.ErrIO, "cmd.resolveAndWrite")
	}
	return nil
}
