package container

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// setFile is the on-disk layout of a container set.
type setFile struct {
	Containers []*ContainerInfo `yaml:"containers"`
}

// LoadSet reads a container set from a YAML (or JSON) file.
func LoadSet(path string) ([]*ContainerInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read container set: %w", err)
	}

	var f setFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse container set %s: %w", path, err)
	}
	if len(f.Containers) == 0 {
		return nil, fmt.Errorf("container set %s is empty", path)
	}
	for i, c := range f.Containers {
		if c == nil {
			return nil, fmt.Errorf("container set %s: entry %d is empty", path, i)
		}
	}
	return f.Containers, nil
}

// SaveSet writes a container set, including any ids and networks the
// hook assigned, so a later cleanup can use it.
func SaveSet(path string, containers []*ContainerInfo) error {
	data, err := yaml.Marshal(setFile{Containers: containers})
	if err != nil {
		return fmt.Errorf("encode container set: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write container set: %w", err)
	}
	return nil
}
