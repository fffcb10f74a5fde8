package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/RevCBH/hookrunner/internal/container"
	"github.com/RevCBH/hookrunner/internal/lifecycle"
)

// CleanupJobOptions holds flags for the cleanup-job command
type CleanupJobOptions struct {
	ContainersFile string // Container set written by prepare-job
}

// NewCleanupJobCmd creates the cleanup-job command
func NewCleanupJobCmd(app *App) *cobra.Command {
	opts := CleanupJobOptions{}

	cmd := &cobra.Command{
		Use:   "cleanup-job",
		Short: "Release the job's containers through the hook",
		Long: `cleanup-job sends the container set to the hook's cleanup_job command.
Use the file written by prepare-job so the hook sees the assigned ids and
network. Failures are reported and never retried.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.CleanupJob(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ContainersFile, "containers", "f", "", "Container set file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("containers")

	return cmd
}

// CleanupJob runs cleanup_job for the container set in opts.ContainersFile
func (a *App) CleanupJob(ctx context.Context, out, errOut io.Writer, opts CleanupJobOptions) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	containers, err := container.LoadSet(opts.ContainersFile)
	if err != nil {
		return err
	}

	rt, err := a.WireRuntime(errOut)
	if err != nil {
		return err
	}
	defer func() {
		err = lifecycle.CleanupAfter(err, rt.Close())
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	signals := NewSignalHandler(cancel, rt.Logger)
	signals.Start(a.notifySignals)
	defer signals.Stop()

	if err := rt.Manager.CleanupJob(ctx, containers); err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "cleaned up %d containers\n", len(containers))
	return err
}
