// Package unit wraps systemctl and systemd-analyze invocations and manages
// the drop-in fragments this tool writes for a service unit: one to relax
// sandboxing while profiling, one to apply the resolver's hardened result.
package unit

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sync"

	"unitharden/errors"
	"unitharden/logging"
)

// unitNameRegex mirrors the OCI container ID validator's shape, adapted to
// systemd unit syntax: letters, digits, and ":_.-@", ending in ".service".
var unitNameRegex = regexp.MustCompile(`^[a-zA-Z0-9:_.\-@]+\.service$`)

// ValidateUnitName checks that name is safe to pass to systemctl and to use
// as a directory component under /etc/systemd/system.
func ValidateUnitName(name string) error {
	if name == "" {
		return errors.ErrInvalidUnitName
	}
	if len(name) > 256 {
		return errors.WrapWithDetail(nil, errors.ErrInvalidConfig, "unit.ValidateUnitName",
			fmt.Sprintf("unit name too long (max 256 characters): %d", len(name)))
	}
	if !unitNameRegex.MatchString(name) {
		return errors.WrapWithDetail(nil, errors.ErrInvalidConfig, "unit.ValidateUnitName",
			fmt.Sprintf("unit name %q is not a valid systemd service unit name", name))
	}
	if filepath.Clean(name) != name {
		return errors.WrapWithDetail(nil, errors.ErrInvalidConfig, "unit.ValidateUnitName",
			fmt.Sprintf("unit name %q contains path traversal", name))
	}
	return nil
}

const (
	dropInDir          = "/etc/systemd/system"
	profilingFragment  = "10-unitharden-profiling.conf"
	hardenedFragment   = "20-unitharden-hardening.conf"
)

// Service wraps systemctl/systemd-analyze operations for one unit. mu
// guards concurrent profiling/hardening transitions the same way
// container.Container guards its lifecycle.
type Service struct {
	mu   sync.RWMutex
	Name string
}

// New validates name and returns a Service handle for it.
func New(name string) (*Service, error) {
	if err := ValidateUnitName(name); err != nil {
		return nil, err
	}
	return &Service{Name: name}, nil
}

func (s *Service) dropInPath(fragment string) string {
	return filepath.Join(dropInDir, s.Name+".d", fragment)
}

func runSystemctl(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "systemctl", args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errors.WrapWithDetail(err, errors.ErrInternal, "unit.runSystemctl", stderr.String())
	}
	return out.String(), nil
}

// Reload runs systemctl daemon-reload so a newly written drop-in fragment
// takes effect.
func Reload(ctx context.Context) error {
	_, err := runSystemctl(ctx, "daemon-reload")
	return err
}

// Restart restarts the unit.
func (s *Service) Restart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := runSystemctl(ctx, "restart", s.Name)
	return err
}

// Stop stops the unit.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := runSystemctl(ctx, "stop", s.Name)
	return err
}

// StartUnit starts the unit.
func (s *Service) StartUnit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := runSystemctl(ctx, "start", s.Name)
	return err
}

// IsActive reports whether systemctl considers the unit active.
func (s *Service) IsActive(ctx context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out, err := runSystemctl(ctx, "is-active", s.Name)
	if err != nil {
		// systemctl is-active exits non-zero for inactive units; that is
		// a valid answer, not a failure, as long as it actually ran.
		if perr, ok := err.(*errors.ProfilerError); ok && perr.Err != nil {
			if _, ok := perr.Err.(*exec.ExitError); ok {
				return false, nil
			}
		}
		return false, err
	}
	return out == "active\n" || out == "active", nil
}

// ExposureScore runs systemd-analyze security <unit> and returns its raw
// output; parsing the report into a single score is left to the caller
// since its format varies across systemd versions.
func (s *Service) ExposureScore(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cmd := exec.CommandContext(ctx, "systemd-analyze", "security", s.Name)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); !ok {
			return "", errors.WrapWithDetail(err, errors.ErrInternal, "unit.ExposureScore", stderr.String())
		}
	}
	return out.String(), nil
}

// profilingFragmentContent relaxes sandboxing directives so nothing is
// blocked while the service is being traced.
const profilingFragmentContent = `[Service]
ProtectSystem=false
ProtectHome=false
PrivateNetwork=false
RestrictAddressFamilies=
SystemCallFilter=
CapabilityBoundingSet=~
RestrictNamespaces=false
MemoryDenyWriteExecute=false
RestrictRealtime=false
DevicePolicy=auto
`

// StartProfile writes the profiling drop-in fragment and reloads systemd.
// It fails if one is already in place and force is false.
func (s *Service) StartProfile(ctx context.Context, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.dropInPath(profilingFragment)
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ErrProfileFragmentExists
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, errors.ErrIO, "unit.StartProfile")
	}
	if err := os.WriteFile(path, []byte(profilingFragmentContent), 0644); err != nil {
		return errors.Wrap(err, errors.ErrIO, "unit.StartProfile")
	}
	logging.WithUnit(logging.Default(), s.Name).Info("profiling fragment written", "path", path)
	return Reload(ctx)
}

// FinishProfile removes the profiling fragment, writes the hardened
// fragment with the given directive text, and reloads systemd.
func (s *Service) FinishProfile(ctx context.Context, hardened string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profPath := s.dropInPath(profilingFragment)
	if _, err := os.Stat(profPath); err != nil {
		return errors.ErrNoProfileFragment
	}
	if err := os.Remove(profPath); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.ErrIO, "unit.FinishProfile")
	}

	hardPath := s.dropInPath(hardenedFragment)
	if err := os.WriteFile(hardPath, []byte(hardened), 0644); err != nil {
		return errors.Wrap(err, errors.ErrIO, "unit.FinishProfile")
	}
	logging.WithUnit(logging.Default(), s.Name).Info("hardening fragment written", "path", hardPath)
	return Reload(ctx)
}

// Reset removes both fragments this tool may have written and reloads
// systemd, restoring the unit to its unmodified configuration.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, fragment := range []string{profilingFragment, hardenedFragment} {
		path := s.dropInPath(fragment)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Wrap(err, errors.ErrIO, "unit.Reset")
		}
	}
	return Reload(ctx)
}
