package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RevCBH/hookrunner/internal/hook"
	"github.com/RevCBH/hookrunner/internal/lifecycle"
)

// Capability reports whether one lifecycle command is implemented
type Capability struct {
	Command   hook.Command `json:"command"`
	Supported bool         `json:"supported"`
}

// Capabilities lists every lifecycle command in protocol order
func Capabilities() []Capability {
	m := lifecycle.NewManager(nil)
	caps := make([]Capability, len(hook.Commands))
	for i, cmd := range hook.Commands {
		caps[i] = Capability{Command: cmd, Supported: m.Supports(cmd)}
	}
	return caps
}

// NewCapabilitiesCmd creates the capabilities command
func NewCapabilitiesCmd(app *App) *cobra.Command {
	var forceJSON bool

	cmd := &cobra.Command{
		Use:   "capabilities",
		Short: "List lifecycle commands and whether they are supported",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCapabilities(cmd.OutOrStdout(), Capabilities(), forceJSON)
		},
	}

	cmd.Flags().BoolVar(&forceJSON, "json", false, "Print capabilities as JSON")

	return cmd
}

func writeCapabilities(out io.Writer, caps []Capability, forceJSON bool) error {
	if forceJSON || !isTerminal(out) {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(caps)
	}

	_, err := fmt.Fprint(out, RenderCapabilities(DefaultStyles(), caps))
	return err
}

// RenderCapabilities renders the capability list as a styled summary
func RenderCapabilities(s Styles, caps []Capability) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("Lifecycle commands"))
	b.WriteString("\n")
	for _, c := range caps {
		icon := s.Supported.Render(IconSupported)
		if !c.Supported {
			icon = s.Missing.Render(IconUnsupported)
		}
		fmt.Fprintf(&b, "  %s %s\n", icon, c.Command)
	}
	return b.String()
}
