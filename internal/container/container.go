package container

import (
	"errors"
	"fmt"
	"sort"

	"github.com/RevCBH/hookrunner/internal/hook"
)

// ErrNoJobContainer is returned when a container set has no job container.
var ErrNoJobContainer = errors.New("container set has no job container")

// ContainerID is a unique identifier for a container, as reported by the hook.
type ContainerID string

// MountVolume is a host path mounted into a container.
type MountVolume struct {
	SourceVolumePath string `yaml:"source" json:"source"`
	TargetVolumePath string `yaml:"target" json:"target"`
	ReadOnly         bool   `yaml:"read_only,omitempty" json:"readOnly,omitempty"`
}

// RegistryAuth holds credentials for a private image registry.
type RegistryAuth struct {
	Username  string `yaml:"username,omitempty" json:"username,omitempty"`
	Password  string `yaml:"password,omitempty" json:"password,omitempty"`
	ServerURL string `yaml:"server_url,omitempty" json:"serverUrl,omitempty"`
}

// ContainerInfo is one container participating in a job.
// The orchestrator fills in ContainerID and ContainerNetwork after the
// hook has created the container.
type ContainerInfo struct {
	// IsJobContainer marks the container the job's steps run in
	IsJobContainer bool `yaml:"job_container,omitempty" json:"jobContainer,omitempty"`

	// ContainerID is assigned by PrepareJob
	ContainerID ContainerID `yaml:"id,omitempty" json:"id,omitempty"`

	// ContainerNetwork is assigned by PrepareJob
	ContainerNetwork string `yaml:"network,omitempty" json:"network,omitempty"`

	// ContainerNetworkAlias names the container in the job context (e.g. "db")
	ContainerNetworkAlias string `yaml:"alias,omitempty" json:"alias,omitempty"`

	// ContainerImage is the image reference (e.g., "postgres:16")
	ContainerImage string `yaml:"image" json:"image"`

	ContainerEntryPoint     string   `yaml:"entrypoint,omitempty" json:"entrypoint,omitempty"`
	ContainerEntryPointArgs []string `yaml:"entrypoint_args,omitempty" json:"entrypointArgs,omitempty"`
	ContainerCreateOptions  string   `yaml:"options,omitempty" json:"options,omitempty"`
	ContainerWorkDirectory  string   `yaml:"workdir,omitempty" json:"workdir,omitempty"`

	// ContainerEnvironmentVariables are set inside the container
	ContainerEnvironmentVariables map[string]string `yaml:"env,omitempty" json:"env,omitempty"`

	// UserPortMappings maps container port to host port as declared by the user
	UserPortMappings map[string]string `yaml:"ports,omitempty" json:"ports,omitempty"`

	UserMountVolumes   []MountVolume `yaml:"volumes,omitempty" json:"volumes,omitempty"`
	SystemMountVolumes []MountVolume `yaml:"system_volumes,omitempty" json:"systemVolumes,omitempty"`

	RegistryAuth *RegistryAuth `yaml:"credentials,omitempty" json:"credentials,omitempty"`
}

// HookContainer projects the container onto the descriptor sent to the hook.
func (c *ContainerInfo) HookContainer() hook.ContainerSpec {
	spec := hook.ContainerSpec{
		Image:                c.ContainerImage,
		EntryPoint:           c.ContainerEntryPoint,
		EntryPointArgs:       c.ContainerEntryPointArgs,
		CreateOptions:        c.ContainerCreateOptions,
		EnvironmentVariables: c.ContainerEnvironmentVariables,
		UserMountVolumes:     hookVolumes(c.UserMountVolumes),
		SystemMountVolumes:   hookVolumes(c.SystemMountVolumes),
		PortMappings:         c.PortMappings(),
		WorkingDirectory:     c.ContainerWorkDirectory,
	}
	if c.RegistryAuth != nil {
		spec.Registry = &hook.Registry{
			Username:  c.RegistryAuth.Username,
			Password:  c.RegistryAuth.Password,
			ServerURL: c.RegistryAuth.ServerURL,
		}
	}
	return spec
}

// PortMappings renders UserPortMappings as sorted "container:host" pairs.
// A mapping with no host port renders as the container port alone.
func (c *ContainerInfo) PortMappings() []string {
	if len(c.UserPortMappings) == 0 {
		return nil
	}
	out := make([]string, 0, len(c.UserPortMappings))
	for containerPort, hostPort := range c.UserPortMappings {
		if hostPort == "" {
			out = append(out, containerPort)
			continue
		}
		out = append(out, fmt.Sprintf("%s:%s", containerPort, hostPort))
	}
	sort.Strings(out)
	return out
}

func hookVolumes(vols []MountVolume) []hook.MountVolume {
	if len(vols) == 0 {
		return nil
	}
	out := make([]hook.MountVolume, len(vols))
	for i, v := range vols {
		out[i] = hook.MountVolume{
			SourceVolumePath: v.SourceVolumePath,
			TargetVolumePath: v.TargetVolumePath,
			ReadOnly:         v.ReadOnly,
		}
	}
	return out
}

// Partition splits a container set into the first job container and the
// remaining containers, preserving order. The job container is nil when
// none is flagged. Nil entries are skipped.
func Partition(containers []*ContainerInfo) (job *ContainerInfo, services []*ContainerInfo) {
	for _, c := range containers {
		if c == nil {
			continue
		}
		if c.IsJobContainer && job == nil {
			job = c
			continue
		}
		if !c.IsJobContainer {
			services = append(services, c)
		}
	}
	return job, services
}

// FirstNetwork returns the first non-empty network in the set, or nil.
func FirstNetwork(containers []*ContainerInfo) *string {
	for _, c := range containers {
		if c != nil && c.ContainerNetwork != "" {
			network := c.ContainerNetwork
			return &network
		}
	}
	return nil
}

// HookContainers projects each non-nil container onto its hook descriptor.
func HookContainers(containers []*ContainerInfo) []hook.ContainerSpec {
	specs := make([]hook.ContainerSpec, 0, len(containers))
	for _, c := range containers {
		if c == nil {
			continue
		}
		specs = append(specs, c.HookContainer())
	}
	return specs
}
