package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RevCBH/hookrunner/internal/hook"
)

func TestCapabilities(t *testing.T) {
	assert.Equal(t, []Capability{
		{Command: hook.CommandPrepareJob, Supported: true},
		{Command: hook.CommandCleanupJob, Supported: true},
		{Command: hook.CommandContainerStep, Supported: false},
		{Command: hook.CommandRunScriptStep, Supported: false},
	}, Capabilities())
}

func TestCapabilitiesCmd_JSON(t *testing.T) {
	app := New()
	var out bytes.Buffer
	app.SetOutput(&out, &bytes.Buffer{})
	app.SetArgs([]string{"capabilities", "--json"})

	require.NoError(t, app.Execute())

	var caps []Capability
	require.NoError(t, json.Unmarshal(out.Bytes(), &caps))
	assert.Len(t, caps, len(hook.Commands))
}

func TestRenderCapabilities(t *testing.T) {
	out := RenderCapabilities(DefaultStyles(), Capabilities())

	assert.Contains(t, out, "Lifecycle commands")
	assert.Contains(t, out, IconSupported+" prepare_job")
	assert.Contains(t, out, IconSupported+" cleanup_job")
	assert.Contains(t, out, IconUnsupported+" run_container_step")
	assert.Contains(t, out, IconUnsupported+" run_script_step")
	assert.Equal(t, 5, strings.Count(out, "\n"))
}
