package hostprep

import (
	"embed"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/hostprep/internal/version"
	"github.com/arthur-debert/hostprep/pkg/cobrax/topics"
	"github.com/arthur-debert/hostprep/pkg/config"
	"github.com/arthur-debert/hostprep/pkg/errors"
	"github.com/arthur-debert/hostprep/pkg/orchestrator"
	"github.com/arthur-debert/hostprep/pkg/style"
	"github.com/arthur-debert/hostprep/pkg/tasks"
	"github.com/arthur-debert/hostprep/pkg/ui"
	"github.com/arthur-debert/hostprep/pkg/ui/converter"
	"github.com/arthur-debert/hostprep/pkg/ui/progress"
	"github.com/arthur-debert/hostprep/pkg/ui/prompt"
)

//go:embed topics
var topicsFS embed.FS

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultEnv())
}

func newRootCmd(e *env) *cobra.Command {
	initTemplateFormatting()

	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "hostprep",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, "no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	rootCmd.SetIn(e.stdin)
	rootCmd.SetOut(e.stdout)
	rootCmd.SetErr(e.stderr)

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&g.configFile, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&g.root, "root", "", MsgFlagRoot)

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newRunCmd(e, g))
	rootCmd.AddCommand(newPlanCmd(e, g))
	rootCmd.AddCommand(newTasksCmd(e, g))
	rootCmd.AddCommand(newConfigCmd(e, g))
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newVersionCmd(e))
	rootCmd.AddCommand(newCompletionCmd(e))

	// Topics are embedded, so a scan failure only loses the extra help
	_, _ = topics.Initialize(rootCmd, topicsFS, "topics", topics.Options{
		Extensions: []string{".txt", ".md"},
		Renderer:   topics.NewGlamourRenderer(),
	})

	return rootCmd
}

// taskIDsCompletion offers the registered task ids not already given
func taskIDsCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	given := make(map[string]bool, len(args))
	for _, a := range args {
		given[a] = true
	}
	var ids []string
	for _, id := range tasks.Registered() {
		if !given[id] {
			ids = append(ids, id)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

func newRunCmd(e *env, g *globalOptions) *cobra.Command {
	var (
		assumeYes bool
		plain     bool
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:               "run [tasks...]",
		Short:             MsgRunShort,
		Long:              MsgRunLong,
		Example:           MsgRunExample,
		GroupID:           "core",
		ValidArgsFunction: taskIDsCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.open(e)
			if err != nil {
				return err
			}
			defer s.close()

			style.Setup(e.stdout, plain)
			format := ui.FormatAuto
			if plain {
				format = ui.FormatText
			}
			renderer, err := ui.NewRenderer(format, e.stdout)
			if err != nil {
				return err
			}

			animated := !plain && !dryRun && style.IsTerminal(e.stdout)
			s.log.Info().
				Strs("tasks", args).
				Bool("yes", assumeYes).
				Bool("dry_run", dryRun).
				Bool("animated", animated).
				Msg("Starting run")

			prompter := prompt.New(prompt.Options{
				Accessible: plain || !style.IsTerminal(e.stdin),
				Input:      e.stdin,
				Output:     e.stdout,
			})

			ctxOpts := contextOptions{confirm: prompter.Confirm, assumeYes: assumeYes}
			var runner orchestrator.Runner = orchestrator.NewSequentialRunner(s.log.Logger)
			opts := orchestrator.Options{
				AssumeYes:     assumeYes,
				TaskIDs:       args,
				StopAfterPlan: dryRun,
				OnPlan: func(report *orchestrator.Report) {
					if err := renderer.RenderPlan(report); err != nil {
						s.log.Warn().Err(err).Msg("Failed to render plan")
					}
					if !report.HasPending() {
						_ = renderer.RenderMessage(MsgNothingPending)
					}
				},
			}
			if animated {
				// The view owns the terminal, so commands and logs go to the file
				ctxOpts.commandOutput = s.log.Writer()
				fileOnly := s.log.FileOnly()
				opts.ExecutionLogger = &fileOnly
				runner = progress.New(s.log.Logger, e.stdin, e.stdout)
			}

			ec, err := s.executionContext(ctxOpts)
			if err != nil {
				return err
			}
			ts, err := tasks.Build(s.cfg, s.cfg.Tasks.Order)
			if err != nil {
				return fmt.Errorf(MsgErrBuildTasks, err)
			}

			report, err := orchestrator.New(ts, prompter, runner, opts).Run(cmd.Context(), ec)
			if err != nil {
				return err
			}
			if dryRun && !report.Aborted {
				return nil
			}

			if err := renderer.RenderSummary(report); err != nil {
				return err
			}
			if report.HasFailures() {
				if path := s.log.FilePath(); path != "" {
					fmt.Fprintf(e.stderr, MsgLogFileHint+"\n", path)
				}
				return errors.Newf(errors.ErrTaskExecute, MsgErrTasksFailed, report.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, MsgFlagYes)
	cmd.Flags().BoolVar(&plain, "plain", false, MsgFlagPlain)
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, MsgFlagDryRun)

	return cmd
}

func newPlanCmd(e *env, g *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:               "plan [tasks...]",
		Short:             MsgPlanShort,
		Long:              MsgPlanLong,
		Example:           MsgPlanExample,
		GroupID:           "core",
		ValidArgsFunction: taskIDsCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newOutputRenderer(e, output)
			if err != nil {
				return err
			}

			s, err := g.open(e)
			if err != nil {
				return err
			}
			defer s.close()

			ec, err := s.executionContext(contextOptions{assumeYes: true})
			if err != nil {
				return err
			}
			ts, err := tasks.Build(s.cfg, s.cfg.Tasks.Order)
			if err != nil {
				return fmt.Errorf(MsgErrBuildTasks, err)
			}

			// A plan never prompts, so no selector is needed
			o := orchestrator.New(ts, nil, orchestrator.NewSequentialRunner(s.log.Logger), orchestrator.Options{
				AssumeYes:     true,
				TaskIDs:       args,
				StopAfterPlan: true,
			})
			report, err := o.Run(cmd.Context(), ec)
			if err != nil {
				return err
			}
			return renderer.RenderPlan(report)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "auto", MsgFlagOutput)

	return cmd
}

func newTasksCmd(e *env, g *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "tasks",
		Short:   MsgTasksShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := newOutputRenderer(e, output)
			if err != nil {
				return err
			}

			s, err := g.open(e)
			if err != nil {
				return err
			}
			defer s.close()

			ts, err := tasks.Build(s.cfg, s.cfg.Tasks.Order)
			if err != nil {
				return fmt.Errorf(MsgErrBuildTasks, err)
			}
			rows := make([]converter.TaskRow, 0, len(ts))
			for _, t := range ts {
				rows = append(rows, converter.TaskRow{ID: t.ID(), Name: t.Name(), Description: t.Description()})
			}
			return renderer.RenderTasks(rows)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "auto", MsgFlagOutput)

	return cmd
}

func newConfigCmd(e *env, g *globalOptions) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				_, err := fmt.Fprint(e.stdout, config.DefaultContent())
				return err
			}

			s, err := g.open(e)
			if err != nil {
				return err
			}
			defer s.close()

			out, err := s.cfg.Redacted().TOML()
			if err != nil {
				return err
			}
			_, err = e.stdout.Write(out)
			return err
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)

	return cmd
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			if helpCmd, _, err := cmd.Root().Find([]string{"help"}); err == nil && helpCmd.Run != nil {
				helpCmd.Run(helpCmd, []string{"topics"})
				return nil
			}
			return errors.New(errors.ErrNotFound, "help command not found")
		},
	}
}

func newVersionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(e.stdout, "hostprep version %s\n", version.Version)
			fmt.Fprintf(e.stdout, "  commit: %s\n", version.Commit)
			fmt.Fprintf(e.stdout, "  built:  %s\n", version.Date)
		},
	}
}

func newCompletionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(e.stdout, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(e.stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(e.stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(e.stdout)
			}
			return nil
		},
	}
}

// newOutputRenderer builds the renderer for an --output value. Machine
// formats never carry colour.
func newOutputRenderer(e *env, output string) (ui.Renderer, error) {
	format, err := ui.ParseFormat(output)
	if err != nil {
		return nil, err
	}
	style.Setup(e.stdout, format.Machine() || format == ui.FormatText)
	return ui.NewRenderer(format, e.stdout)
}
