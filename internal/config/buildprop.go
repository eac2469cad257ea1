package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrBuildPropMissing means the configured root is not a system dump.
var ErrBuildPropMissing = errors.New("build.prop not found in system dump root")

// Keys read from build.prop.
const (
	KeySDK    = "ro.build.version.sdk"
	KeyVendor = "ro.product.brand"
	KeyDevice = "ro.product.device"
)

// BuildProp holds the values of interest from a dump's build.prop. Zero
// values mean the key was absent or unusable.
type BuildProp struct {
	SDK    int
	Vendor string
	Device string
}

// ParseBuildProp reads key=value lines. Lines without '=' and values that do
// not parse are ignored.
func ParseBuildProp(r io.Reader) (BuildProp, error) {
	var bp BuildProp
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), "=")
		if !ok {
			continue
		}
		value = strings.TrimRight(value, "\r\n")
		switch key {
		case KeySDK:
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil && n > 0 {
				bp.SDK = n
			}
		case KeyVendor:
			bp.Vendor = value
		case KeyDevice:
			bp.Device = value
		}
	}
	return bp, scanner.Err()
}

// LoadBuildProp reads <root>/build.prop.
func LoadBuildProp(root string) (BuildProp, error) {
	path := filepath.Join(root, "build.prop")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return BuildProp{}, fmt.Errorf("%w: %q should list the dump's build.prop", ErrBuildPropMissing, path)
		}
		return BuildProp{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	bp, err := ParseBuildProp(f)
	if err != nil {
		return BuildProp{}, fmt.Errorf("read %s: %w", path, err)
	}
	return bp, nil
}

// Apply copies the present values onto s.
func (bp BuildProp) Apply(s *Settings) {
	if bp.SDK > 0 {
		s.SDK = bp.SDK
	}
	if bp.Vendor != "" {
		s.Vendor = bp.Vendor
	}
	if bp.Device != "" {
		s.Device = bp.Device
	}
}
