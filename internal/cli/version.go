package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// String renders version info with placeholders for unset fields
func (v VersionInfo) String() string {
	version, commit, date := v.Version, v.Commit, v.Date
	if version == "" {
		version = "dev"
	}
	if commit == "" {
		commit = "unknown"
	}
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("hookrunner %s\ncommit: %s\nbuilt: %s\ngo: %s\n",
		version, commit, date, runtime.Version())
}

// NewVersionCmd creates the version command
func NewVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), app.versionInfo.String())
			return err
		},
	}
}
