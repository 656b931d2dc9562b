// Package version reports build information and checks configuration
// file compatibility.
package version

import (
	"fmt"
	"runtime"

	goversion "github.com/hashicorp/go-version"

	"github.com/satishbabariya/sqlguard/internal/core/query/domain"
)

var (
	// Version is the version of the CLI
	Version = "0.3.0"
	// BuildDate is the build date
	BuildDate = "unknown"
	// GitCommit is the git commit hash
	GitCommit = "unknown"
)

// ConfigConstraint is the range of config_version values this build reads.
const ConfigConstraint = ">= 1.0, < 2.0"

// Info holds version information
type Info struct {
	Version   string
	BuildDate string
	GitCommit string
	GoVersion string
	Platform  string
}

// Get returns version information
func Get() Info {
	return Info{
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// String returns a formatted version string
func (i Info) String() string {
	return fmt.Sprintf("sqlguard version %s (%s %s)", i.Version, i.Platform, i.GoVersion)
}

// FullString returns a detailed version string
func (i Info) FullString() string {
	return fmt.Sprintf(`sqlguard version %s
Build Date: %s
Git Commit: %s
Platform: %s
Go Version: %s
Config Versions: %s`, i.Version, i.BuildDate, i.GitCommit, i.Platform, i.GoVersion, ConfigConstraint)
}

// CheckConfig reports whether a config_version value can be read. An empty
// value is accepted as the current format.
func CheckConfig(configVersion string) error {
	if configVersion == "" {
		return nil
	}
	v, err := goversion.NewVersion(configVersion)
	if err != nil {
		return fmt.Errorf("%w: config_version %q: %v", domain.ErrInvalidInput, configVersion, err)
	}
	c, err := goversion.NewConstraint(ConfigConstraint)
	if err != nil {
		return err
	}
	if !c.Check(v) {
		return fmt.Errorf("%w: config_version %s is not supported (want %s)", domain.ErrInvalidInput, v, ConfigConstraint)
	}
	return nil
}

// Newer reports whether candidate is a newer release than the running build.
func Newer(candidate string) (bool, error) {
	current, err := goversion.NewVersion(Version)
	if err != nil {
		return false, fmt.Errorf("invalid version format: %w", err)
	}
	latest, err := goversion.NewVersion(candidate)
	if err != nil {
		return false, fmt.Errorf("invalid latest version format: %w", err)
	}
	return current.LessThan(latest), nil
}
