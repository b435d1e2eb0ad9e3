package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soundlane/renderplan/internal/binder"
	"github.com/soundlane/renderplan/internal/compiler"
	"github.com/soundlane/renderplan/internal/graph"
	"github.com/soundlane/renderplan/internal/timeline"
	"github.com/soundlane/renderplan/internal/timemap"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	At      float64
	Quality string
	Catalog string // asset catalog database path; empty disables binding
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan <project-dir>",
		Short: "Evaluate the timeline at an instant and compile a render plan",
		Long: `Evaluate the project timeline at an instant and compile the resulting
audio graph into an ordered render plan.

With --catalog, source nodes are bound against the asset catalog and
unbindable sources are reported as diagnostics.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.At, "at", 0, "timeline instant in seconds")
	cmd.Flags().StringVar(&opts.Quality, "quality", string(graph.QualityStandard), "render quality (draft|standard|high)")
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "asset catalog database path")

	return cmd
}

func runPlan(opts *PlanOptions, projectDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	quality, err := parseQuality(opts.Quality)
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, err.Error())
	}

	project, err := LoadProject(projectDir)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	var b compiler.Binder
	if opts.Catalog != "" {
		catalog, err := binder.Open(opts.Catalog)
		if err != nil {
			formatter.Error(ErrCodeGeneric, fmt.Sprintf("opening catalog: %v", err), nil)
			return NewExitError(ExitCommandError, "opening catalog failed")
		}
		defer catalog.Close()
		b = catalog
	}

	plan := evaluateAndCompile(project, opts.At, quality, b, formatter)

	if opts.Format == "json" {
		return formatter.Success(plan.Doc())
	}

	fmt.Fprintf(formatter.Writer, "quality:     %s\n", plan.Quality)
	fmt.Fprintf(formatter.Writer, "stable hash: %016x\n", plan.StableHash64)
	fmt.Fprintf(formatter.Writer, "nodes:       %d\n", len(plan.Ordered))
	for _, n := range plan.Ordered {
		fmt.Fprintf(formatter.Writer, "  %s  %s\n", n.ID, n.Spec.Kind())
	}
	if len(plan.Diagnostics) > 0 {
		fmt.Fprintf(formatter.Writer, "diagnostics: %d\n", len(plan.Diagnostics))
		for _, issue := range plan.Diagnostics {
			fmt.Fprintf(formatter.Writer, "  %s\n", issue)
		}
	}
	return nil
}

// evaluateAndCompile runs the evaluate→compile pipeline once.
func evaluateAndCompile(project *timeline.Project, at float64, quality graph.Quality, b compiler.Binder, formatter *OutputFormatter) *compiler.Plan {
	clock := timemap.NewClock(timemap.DefaultSampleRate)
	g := timeline.Evaluate(project, at, clock)
	formatter.VerboseLog("evaluated %d node(s) at t=%g", len(g.Nodes), at)
	return compiler.Compile(g, quality, b)
}

func parseQuality(s string) (graph.Quality, error) {
	switch q := graph.Quality(s); q {
	case graph.QualityDraft, graph.QualityStandard, graph.QualityHigh:
		return q, nil
	default:
		return "", fmt.Errorf("unknown quality %q", s)
	}
}

// outputLoadError renders a load failure and converts it to an ExitError.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		formatter.Error(loadErr.Code, loadErr.Message, nil)
		return NewExitError(ExitCommandError, loadErr.Message)
	}
	formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return NewExitError(ExitCommandError, err.Error())
}
