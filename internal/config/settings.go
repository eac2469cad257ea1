// Package config gathers the settings for a run: built-in defaults, an
// optional YAML file, the dump's build.prop, and interactive answers.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"blobdeps/internal/resolve"
	"blobdeps/internal/scan"
)

// DefaultFile is read from the working directory when no --config is given.
const DefaultFile = "blobdeps.yaml"

// Settings holds everything a run needs to know.
type Settings struct {
	Root   string `yaml:"root"`   // System dump root
	Vendor string `yaml:"vendor"` // ro.product.brand
	Device string `yaml:"device"` // ro.product.device
	SDK    int    `yaml:"sdk"`    // ro.build.version.sdk, picks the baseline manifest

	IndexDir       string   `yaml:"index_dir"`
	BaselinePrefix string   `yaml:"baseline_prefix"`
	Directories    []string `yaml:"directories"`

	MaxBackward       int `yaml:"max_backward"`
	MaxNameLen        int `yaml:"max_name_len"`
	RegistryWarnBytes int `yaml:"registry_warn_bytes"`
}

// Defaults returns the built-in settings (Android KitKat dump in the usual place).
func Defaults() Settings {
	return Settings{
		Root:              "/home/android/system_dump",
		Vendor:            "manufacturer",
		Device:            "device",
		SDK:               19,
		IndexDir:          "emulator_systems",
		BaselinePrefix:    resolve.DefaultBaselinePrefix,
		Directories:       scan.Directories(),
		MaxBackward:       scan.DefaultMaxBackward,
		MaxNameLen:        scan.DefaultMaxNameLen,
		RegistryWarnBytes: resolve.DefaultRegistryWarnBytes,
	}
}

// LoadFile overlays the YAML file at path onto s. Keys missing from the
// file keep their current value. A missing file is reported with an error
// wrapping fs.ErrNotExist so callers can decide whether it matters.
func LoadFile(path string, s *Settings) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks that the settings can drive a run.
func (s Settings) Validate() error {
	var errs []error
	if s.Root == "" {
		errs = append(errs, errors.New("root is required"))
	}
	if s.SDK <= 0 {
		errs = append(errs, fmt.Errorf("sdk must be positive, got %d", s.SDK))
	}
	if len(s.Directories) == 0 {
		errs = append(errs, errors.New("at least one directory is required"))
	}
	for _, d := range s.Directories {
		if !strings.HasPrefix(d, "/") || !strings.HasSuffix(d, "/") {
			errs = append(errs, fmt.Errorf("directory %q must start and end with '/'", d))
		}
	}
	if s.MaxBackward <= 0 {
		errs = append(errs, fmt.Errorf("max_backward must be positive, got %d", s.MaxBackward))
	}
	if s.MaxNameLen <= s.MaxBackward {
		errs = append(errs, fmt.Errorf("max_name_len (%d) must exceed max_backward (%d)", s.MaxNameLen, s.MaxBackward))
	}
	return errors.Join(errs...)
}

// IndexPath is the baseline manifest for the configured SDK level.
func (s Settings) IndexPath() string {
	return filepath.Join(s.IndexDir, fmt.Sprintf("sdk_%d.txt", s.SDK))
}

// ResolverOptions maps the settings onto resolver options.
func (s Settings) ResolverOptions() resolve.Options {
	return resolve.Options{
		Root:              s.Root,
		Vendor:            s.Vendor,
		Device:            s.Device,
		BaselinePrefix:    s.BaselinePrefix,
		Directories:       s.Directories,
		MaxBackward:       s.MaxBackward,
		MaxNameLen:        s.MaxNameLen,
		RegistryWarnBytes: s.RegistryWarnBytes,
	}
}
