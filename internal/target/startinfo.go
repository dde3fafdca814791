// Package target models the launch parameters of a coverage run:
// executable path, optional working directory, arguments, and environment
// overrides. Construction validates eagerly so a bad StartInfo never
// reaches the debug event pump.
package target

import (
	"os"

	"github.com/glthr/covrun/internal/coveragerr"
)

// StartInfo carries everything needed to launch the target under the
// debugger. Path and WorkingDir (when set) are validated to exist at
// construction time.
type StartInfo struct {
	Path        string
	WorkingDir  string
	Args        []string
	Env         map[string]string
	DisplayName string
}

// New validates path and constructs a StartInfo. path must be non-empty
// and must exist, or coveragerr.InvalidStartInfo is returned.
func New(path string, opts ...Option) (*StartInfo, error) {
	if path == "" {
		return nil, coveragerr.New(coveragerr.InvalidStartInfo, "target path is empty", nil)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, coveragerr.New(coveragerr.InvalidStartInfo, "target path "+path+" does not exist", err)
	}

	s := &StartInfo{
		Path:        path,
		DisplayName: path,
		Env:         make(map[string]string),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Option customizes a StartInfo during New.
type Option func(*StartInfo) error

// WithWorkingDir sets the working directory, which must exist.
func WithWorkingDir(dir string) Option {
	return func(s *StartInfo) error {
		if dir == "" {
			return coveragerr.New(coveragerr.InvalidStartInfo, "working directory is empty", nil)
		}
		if _, err := os.Stat(dir); err != nil {
			return coveragerr.New(coveragerr.InvalidStartInfo, "working directory "+dir+" does not exist", err)
		}
		s.WorkingDir = dir
		return nil
	}
}

// WithArgs sets the additional command-line arguments passed to the target.
func WithArgs(args ...string) Option {
	return func(s *StartInfo) error {
		s.Args = args
		return nil
	}
}

// WithEnv merges env into the target's environment overrides.
func WithEnv(env map[string]string) Option {
	return func(s *StartInfo) error {
		for k, v := range env {
			s.Env[k] = v
		}
		return nil
	}
}

// WithDisplayName overrides the Run's display name (defaults to Path).
func WithDisplayName(name string) Option {
	return func(s *StartInfo) error {
		s.DisplayName = name
		return nil
	}
}
