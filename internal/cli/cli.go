package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/RevCBH/hookrunner/internal/hook"
)

// App represents the CLI application with all wired dependencies
type App struct {
	// Root command
	rootCmd *cobra.Command

	// Persistent flags
	configDir  string
	verbose    bool
	jsonEvents bool
	metricsOut string

	// runner executes the hook; tests substitute a fake
	runner hook.Runner

	// notifySignals registers with OS signal handling (off in tests)
	notifySignals bool

	// Version information
	versionInfo VersionInfo
}

// VersionInfo holds build-time version details
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// New creates a new CLI application
func New() *App {
	app := &App{
		notifySignals: true,
	}
	app.setupRootCmd()
	return app
}

// Execute runs the CLI application
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

// ExecuteContext runs the CLI application with ctx as the commands' context
func (a *App) ExecuteContext(ctx context.Context) error {
	return a.rootCmd.ExecuteContext(ctx)
}

// SetVersion sets the version string for the version command
func (a *App) SetVersion(version, commit, date string) {
	a.versionInfo = VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// SetRunner replaces the process runner used to execute the hook
func (a *App) SetRunner(r hook.Runner) {
	a.runner = r
}

// SetArgs sets the arguments for the root command
func (a *App) SetArgs(args []string) {
	a.rootCmd.SetArgs(args)
}

// SetOutput redirects command output and errors
func (a *App) SetOutput(out, errOut io.Writer) {
	a.rootCmd.SetOut(out)
	a.rootCmd.SetErr(errOut)
}

// setupRootCmd configures the root Cobra command
func (a *App) setupRootCmd() {
	a.rootCmd = &cobra.Command{
		Use:   "hookrunner",
		Short: "Container hook lifecycle runner",
		Long: `hookrunner drives a job's containers through an external container hook:
it asks the hook to prepare the job and service containers, records the ids
and networks the hook assigns, and asks the hook to clean them up again.

The hook is located by the ACTIONS_RUNNER_CONTAINER_HOOKS environment variable
or the hook.path key of .hookrunner.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags
	a.rootCmd.PersistentFlags().StringVar(&a.configDir, "config", "",
		"Directory holding .hookrunner.yaml and .env (default: current directory)")
	a.rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"Verbose output")
	a.rootCmd.PersistentFlags().BoolVar(&a.jsonEvents, "json-events", false,
		"Emit lifecycle events as JSON lines on stderr")
	a.rootCmd.PersistentFlags().StringVar(&a.metricsOut, "metrics-out", "",
		"Write hook metrics in Prometheus text format to this file")

	a.rootCmd.AddCommand(
		NewPrepareJobCmd(a),
		NewCleanupJobCmd(a),
		NewCapabilitiesCmd(a),
		NewVersionCmd(a),
	)
}

// resolveConfigDir returns the --config directory or the working directory
func (a *App) resolveConfigDir() (string, error) {
	if a.configDir != "" {
		return a.configDir, nil
	}
	return os.Getwd()
}
