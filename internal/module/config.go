package module

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// configFileName is the optional per-project settings file read from
// the directory containing the script being run, so a project can pin
// its stdlib root once instead of passing --stdlib on every
// invocation.
const configFileName = "hemlock.yaml"

// Config is hemlock.yaml's shape.
type Config struct {
	StdlibRoot string `yaml:"stdlib_root"`
}

// LoadConfig reads hemlock.yaml from dir. A missing file is not an
// error: it returns (nil, nil), letting the caller fall back to
// whatever default it already has (a CLI flag, an embedder-supplied
// option).
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("IOError: %s", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("hemlock.yaml: %s", err)
	}
	return &cfg, nil
}
