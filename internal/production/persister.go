// Package production provides production integrations for corotick:
// file-based snapshot persistence and executor visualization, implemented
// with the same stack the core engine reserves for adapters (gopkg.in/yaml.v3
// plus encoding/json).
package production

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/outpace/corotick"
)

// JSONPersister is a file-based persister for ExecutorSnapshot using JSON.
type JSONPersister struct {
	dir string
}

// NewJSONPersister creates a JSONPersister, ensuring dir exists.
func NewJSONPersister(dir string) (*JSONPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &JSONPersister{dir: dir}, nil
}

// Save writes snapshot to <dir>/<name>.json.
func (p *JSONPersister) Save(name string, snapshot corotick.ExecutorSnapshot) error {
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	fn := filepath.Join(p.dir, name+".json")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

// Load reads an ExecutorSnapshot previously written by Save.
func (p *JSONPersister) Load(name string) (corotick.ExecutorSnapshot, error) {
	fn := filepath.Join(p.dir, name+".json")
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return corotick.ExecutorSnapshot{}, fmt.Errorf("snapshot %q: %w", name, os.ErrNotExist)
		}
		return corotick.ExecutorSnapshot{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var snapshot corotick.ExecutorSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return corotick.ExecutorSnapshot{}, fmt.Errorf("json unmarshal: %w", err)
	}
	return snapshot, nil
}

// YAMLPersister is a file-based persister for ExecutorSnapshot using YAML.
type YAMLPersister struct {
	dir string
}

// NewYAMLPersister creates a YAMLPersister, ensuring dir exists.
func NewYAMLPersister(dir string) (*YAMLPersister, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &YAMLPersister{dir: dir}, nil
}

// Save writes snapshot to <dir>/<name>.yaml.
func (p *YAMLPersister) Save(name string, snapshot corotick.ExecutorSnapshot) error {
	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}

	fn := filepath.Join(p.dir, name+".yaml")
	if err := os.WriteFile(fn, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", fn, err)
	}
	return nil
}

// Load reads an ExecutorSnapshot previously written by Save.
func (p *YAMLPersister) Load(name string) (corotick.ExecutorSnapshot, error) {
	fn := filepath.Join(p.dir, name+".yaml")
	data, err := os.ReadFile(fn)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return corotick.ExecutorSnapshot{}, fmt.Errorf("snapshot %q: %w", name, os.ErrNotExist)
		}
		return corotick.ExecutorSnapshot{}, fmt.Errorf("read %s: %w", fn, err)
	}

	var snapshot corotick.ExecutorSnapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return corotick.ExecutorSnapshot{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	return snapshot, nil
}
