package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/marmos91/essentials/internal/cli/output"
	"github.com/marmos91/essentials/internal/cli/timeutil"
	"github.com/marmos91/essentials/pkg/lifecycle"
	"github.com/marmos91/essentials/pkg/metrics"
)

var (
	filesPath        string
	filesOutput      string
	filesFailOnError bool
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Write, read, append to and delete a file",
	Long: `Run a file through its whole lifecycle.

The stages are:
  1. write "Hello, File System!" (creating or truncating the file)
  2. read it back and log the content
  3. append "\nAppending some text."
  4. delete it

Each stage runs only if the previous one succeeded. The first failure is
logged and ends the run; nothing is retried or rolled back. The command
exits successfully even when a stage fails unless --fail-on-error is set.

Examples:
  # Use example.txt in the current directory
  essentials files

  # Use another path and print a per-stage report
  essentials files --path /tmp/demo.txt --output table`,
	Args: cobra.NoArgs,
	RunE: runFiles,
}

func init() {
	filesCmd.Flags().StringVarP(&filesPath, "path", "p", "", "File to operate on (default: files.path from config, example.txt)")
	filesCmd.Flags().StringVarP(&filesOutput, "output", "o", "", "Print a stage report (table|json|yaml)")
	filesCmd.Flags().BoolVar(&filesFailOnError, "fail-on-error", false, "Exit with an error when a stage fails")
}

func runFiles(cmd *cobra.Command, args []string) error {
	var format output.Format
	if filesOutput != "" {
		f, err := output.ParseFormat(filesOutput)
		if err != nil {
			return err
		}
		format = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	cfg := env.cfg.Files
	if filesPath != "" {
		cfg.Path = filesPath
	}

	pipeline := lifecycle.New(afero.NewOsFs(), cfg, lifecycle.WithMetrics(metrics.NewPipelineMetrics()))
	report := pipeline.Run(ctx)

	if format != "" {
		if err := output.NewPrinter(cmd.OutOrStdout(), format).Print(newReportView(report)); err != nil {
			return err
		}
	}

	if filesFailOnError {
		return report.Err()
	}
	return nil
}

// reportView is the printable form of a lifecycle.Report.
type reportView struct {
	RunID     string      `json:"run_id" yaml:"run_id"`
	Path      string      `json:"path" yaml:"path"`
	Succeeded bool        `json:"succeeded" yaml:"succeeded"`
	Duration  string      `json:"duration" yaml:"duration"`
	Stages    []stageView `json:"stages" yaml:"stages"`
}

type stageView struct {
	Stage    string `json:"stage" yaml:"stage"`
	Status   string `json:"status" yaml:"status"`
	Duration string `json:"duration" yaml:"duration"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newReportView(r *lifecycle.Report) reportView {
	v := reportView{
		RunID:     r.RunID,
		Path:      r.Path,
		Succeeded: r.Succeeded(),
		Duration:  r.Duration.Round(time.Microsecond).String(),
		Stages:    make([]stageView, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		sv := stageView{
			Stage:    res.Stage,
			Status:   string(res.Status),
			Duration: timeutil.FormatElapsed(res.Duration),
		}
		if res.Error != nil {
			sv.Error = res.Error.Error()
		}
		v.Stages = append(v.Stages, sv)
	}
	return v
}

func (v reportView) Headers() []string {
	return []string{"Stage", "Status", "Duration", "Error"}
}

func (v reportView) Rows() [][]string {
	rows := make([][]string, 0, len(v.Stages))
	for _, s := range v.Stages {
		rows = append(rows, []string{s.Stage, s.Status, s.Duration, s.Error})
	}
	return rows
}
