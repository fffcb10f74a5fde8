package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/RevCBH/hookrunner/internal/container"
	"github.com/RevCBH/hookrunner/internal/jobctx"
	"github.com/RevCBH/hookrunner/internal/lifecycle"
)

// cleanupTimeout bounds the cleanup_job run that follows a failed prepare.
const cleanupTimeout = 30 * time.Second

// PrepareJobOptions holds flags for the prepare-job command
type PrepareJobOptions struct {
	ContainersFile   string // Container set to prepare
	StateOut         string // Where to write the updated set (default: ContainersFile)
	JSON             bool   // Force JSON output of the job context
	CleanupOnFailure bool   // Run cleanup_job if prepare_job fails
}

// NewPrepareJobCmd creates the prepare-job command
func NewPrepareJobCmd(app *App) *cobra.Command {
	opts := PrepareJobOptions{}

	cmd := &cobra.Command{
		Use:   "prepare-job",
		Short: "Create the job container and its services through the hook",
		Long: `prepare-job sends the container set to the hook's prepare_job command,
records the container ids and networks the hook returns, and prints the
resulting job context.

The updated container set is written back so cleanup-job can release the
same containers later.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.PrepareJob(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ContainersFile, "containers", "f", "", "Container set file (YAML or JSON)")
	cmd.Flags().StringVar(&opts.StateOut, "state-out", "", "Write the updated container set here (default: the --containers file)")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the job context as JSON")
	cmd.Flags().BoolVar(&opts.CleanupOnFailure, "cleanup-on-failure", false, "Ask the hook to clean up if preparation fails")
	_ = cmd.MarkFlagRequired("containers")

	return cmd
}

// PrepareJob runs prepare_job for the container set in opts.ContainersFile
func (a *App) PrepareJob(ctx context.Context, out, errOut io.Writer, opts PrepareJobOptions) (err error) {
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

	jc := jobctx.New()
	if err := rt.Manager.PrepareJob(ctx, jc, containers); err != nil {
		if opts.CleanupOnFailure {
			rt.Logger.Info("cleaning up after failed prepare")
			// Cleanup still runs after a signal cancelled prepare.
			cleanupCtx, cleanupCancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
			defer cleanupCancel()
			return lifecycle.CleanupAfter(err, rt.Manager.CleanupJob(cleanupCtx, containers))
		}
		return err
	}

	statePath := opts.StateOut
	if statePath == "" {
		statePath = opts.ContainersFile
	}
	if err := container.SaveSet(statePath, containers); err != nil {
		return err
	}
	rt.Logger.Debug("container set saved", zap.String("path", statePath))

	return writeJobContext(out, jc, opts.JSON)
}

func writeJobContext(out io.Writer, jc *jobctx.Context, forceJSON bool) error {
	if forceJSON || !isTerminal(out) {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(jc)
	}
	_, err := fmt.Fprint(out, RenderJobContext(DefaultStyles(), jc))
	return err
}
