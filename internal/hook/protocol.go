package hook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Command identifies a lifecycle operation sent to the hook executable.
type Command string

const (
	// CommandPrepareJob creates the job container and its services
	CommandPrepareJob Command = "prepare_job"

	// CommandCleanupJob tears down everything PrepareJob created
	CommandCleanupJob Command = "cleanup_job"

	// CommandContainerStep runs a step inside a hook-managed container (reserved)
	CommandContainerStep Command = "run_container_step"

	// CommandRunScriptStep runs a script step through the hook (reserved)
	CommandRunScriptStep Command = "run_script_step"
)

// Commands lists every command in the protocol, in lifecycle order.
var Commands = []Command{
	CommandPrepareJob,
	CommandCleanupJob,
	CommandContainerStep,
	CommandRunScriptStep,
}

// Valid reports whether c is a known protocol command.
func (c Command) Valid() bool {
	switch c {
	case CommandPrepareJob, CommandCleanupJob, CommandContainerStep, CommandRunScriptStep:
		return true
	}
	return false
}

// MountVolume is a host path mounted into a container.
type MountVolume struct {
	SourceVolumePath string `json:"sourceVolumePath"`
	TargetVolumePath string `json:"targetVolumePath"`
	ReadOnly         bool   `json:"readOnly"`
}

// Registry holds credentials for pulling a private image.
type Registry struct {
	Username  string `json:"username,omitempty"`
	Password  string `json:"password,omitempty"`
	ServerURL string `json:"serverUrl,omitempty"`
}

// ContainerSpec is the externally visible description of a container
// handed to the hook. Field names are part of the hook contract.
type ContainerSpec struct {
	Image                string            `json:"image,omitempty"`
	EntryPoint           string            `json:"entryPoint,omitempty"`
	EntryPointArgs       []string          `json:"entryPointArgs,omitempty"`
	CreateOptions        string            `json:"createOptions,omitempty"`
	EnvironmentVariables map[string]string `json:"environmentVariables,omitempty"`
	UserMountVolumes     []MountVolume     `json:"userMountVolumes,omitempty"`
	SystemMountVolumes   []MountVolume     `json:"systemMountVolumes,omitempty"`
	Registry             *Registry         `json:"registry,omitempty"`
	PortMappings         []string          `json:"portMappings,omitempty"`
	WorkingDirectory     string            `json:"workingDirectory,omitempty"`
}

// Args carries the command-specific arguments.
// Network is only sent with cleanup_job and is omitted when unknown.
type Args struct {
	Container *ContainerSpec  `json:"container,omitempty"`
	Services  []ContainerSpec `json:"services"`
	Network   *string         `json:"network,omitempty"`
}

// Request is the document written to the hook's standard input.
type Request struct {
	Command      Command `json:"command"`
	ResponseFile string  `json:"responseFile"`
	Args         Args    `json:"args"`
}

// ContainerResult is the hook's report for one container.
type ContainerResult struct {
	ID      string `json:"id"`
	Network string `json:"network"`
}

// Response is the document the hook writes to the response file.
// Services[i] describes the service sent at Args.Services[i].
type Response struct {
	Container *ContainerResult  `json:"container"`
	Services  []ContainerResult `json:"services"`
}

// EncodeRequest serializes a request as a single JSON document.
func EncodeRequest(req Request) ([]byte, error) {
	if !req.Command.Valid() {
		return nil, fmt.Errorf("encode request: unknown command %q", req.Command)
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return data, nil
}

// DecodeRequest parses a request document. Hook implementations written
// in Go use this to read their standard input.
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Request{}, fmt.Errorf("decode request: %w", err)
	}
	if !req.Command.Valid() {
		return Request{}, fmt.Errorf("decode request: unknown command %q", req.Command)
	}
	return req, nil
}

// responseDocument accepts the response either at the top level or
// wrapped in a "context" object.
type responseDocument struct {
	Response
	Context *Response `json:"context"`
}

// DecodeResponse parses the response to cmd. Empty input, malformed JSON
// and missing required fields all yield a *ProtocolError. Only prepare_job
// responses must describe the job container.
func DecodeResponse(cmd Command, data []byte) (*Response, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, NewProtocolError("", ErrResponseEmpty)
	}

	var doc responseDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, NewProtocolError("", fmt.Errorf("invalid response document: %w", err))
	}

	resp := doc.Response
	if doc.Context != nil {
		resp = *doc.Context
	}

	if err := validateResponse(cmd, &resp); err != nil {
		return nil, NewProtocolError("", err)
	}
	return &resp, nil
}

func validateResponse(cmd Command, resp *Response) error {
	if cmd != CommandPrepareJob {
		return nil
	}
	if resp.Container == nil {
		return errors.New("response is missing required field \"container\"")
	}
	if resp.Container.ID == "" {
		return errors.New("response is missing required field \"container.id\"")
	}
	for i, svc := range resp.Services {
		if svc.ID == "" {
			return fmt.Errorf("response is missing required field \"services[%d].id\"", i)
		}
	}
	return nil
}
