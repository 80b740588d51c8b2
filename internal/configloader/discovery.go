package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// ConfigPaths holds the configuration files found for a run. Empty fields
// mean no file was found at that level.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string
}

// ProjectConfigFiles are the project config names, most preferred first.
//
//nolint:gochecknoglobals // Read-only lookup table.
var ProjectConfigFiles = []string{
	".quickbook.yml",
	".quickbook.yaml",
	"quickbook.yml",
	"quickbook.yaml",
}

// projectRootMarkers end the upward search. Directories mark version
// control roots; Jamroot files mark the root of a Boost.Build project.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectRootMarkers = []struct {
	name string
	dir  bool
}{
	{".git", true},
	{".hg", true},
	{".svn", true},
	{"Jamroot", false},
	{"Jamroot.jam", false},
	{"jamroot.jam", false},
}

// DiscoverPaths finds the system, user and project configuration files
// for a run started in workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  firstConfig(systemConfigDir()),
		User:    firstConfig(userConfigDir()),
		Project: project,
	}, nil
}

func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/quickbook"
	}
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = `C:\ProgramData`
	}
	return filepath.Join(programData, "quickbook")
}

func userConfigDir() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "quickbook")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "quickbook")
}

// firstConfig returns config.yaml or config.yml in dir, whichever exists.
func firstConfig(dir string) string {
	if dir == "" {
		return ""
	}
	return firstExisting(dir, []string{"config.yaml", "config.yml"})
}

func firstExisting(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// FindProjectConfig walks up from startDir looking for a project config.
// The walk ends at a project root, the home directory or the filesystem
// root; an empty result means nothing was found.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("context cancelled: %w", err)
		}
		if path := firstExisting(dir, ProjectConfigFiles); path != "" {
			return path, nil
		}
		if isProjectRoot(dir) || dir == home {
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func isProjectRoot(dir string) bool {
	for _, marker := range projectRootMarkers {
		info, err := os.Stat(filepath.Join(dir, marker.name))
		if err == nil && info.IsDir() == marker.dir {
			return true
		}
	}
	return false
}
