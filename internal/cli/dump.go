package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soundlane/renderplan/internal/compiler"
	"github.com/soundlane/renderplan/internal/graph"
	"github.com/soundlane/renderplan/internal/timeline"
	"github.com/soundlane/renderplan/internal/timemap"
)

// DumpOptions holds flags for the dump command.
type DumpOptions struct {
	*RootOptions
	At       float64
	Quality  string
	WithPlan bool
}

// NewDumpCommand creates the dump command.
func NewDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DumpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump <project-dir>",
		Short: "Emit the canonical graph document at an instant",
		Long: `Evaluate the project timeline at an instant and emit the audio graph
as canonical JSON. The bytes are stable: the same project at the same
instant always produces the same output, suitable for golden files and
content addressing.

With --plan, the compiled render plan document is emitted alongside the
graph.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(opts, args[0], cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.At, "at", 0, "timeline instant in seconds")
	cmd.Flags().StringVar(&opts.Quality, "quality", string(graph.QualityStandard), "render quality (draft|standard|high)")
	cmd.Flags().BoolVar(&opts.WithPlan, "plan", false, "include the compiled plan document")

	return cmd
}

func runDump(opts *DumpOptions, projectDir string, cmd *cobra.Command) error {
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

	clock := timemap.NewClock(timemap.DefaultSampleRate)
	g := timeline.Evaluate(project, opts.At, clock)

	doc := g.Doc()
	if opts.WithPlan {
		plan := compiler.Compile(g, quality, nil)
		doc = map[string]any{
			"graph": g.Doc(),
			"plan":  plan.Doc(),
		}
	}

	data, err := graph.MarshalCanonical(doc)
	if err != nil {
		formatter.Error(ErrCodeGeneric, fmt.Sprintf("encoding document: %v", err), nil)
		return NewExitError(ExitCommandError, "encoding document failed")
	}
	return formatter.Raw(data)
}
