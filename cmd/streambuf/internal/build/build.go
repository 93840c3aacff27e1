// Package build holds build-time version information injected via ldflags.
//
//	go build -ldflags "-X github.com/Deadbeetle/helper-streambufs/cmd/streambuf/internal/build.Version=v1.0.0 \
//	  -X github.com/Deadbeetle/helper-streambufs/cmd/streambuf/internal/build.Commit=$(git rev-parse --short HEAD)"
package build

import (
	"fmt"
	"runtime"
)

// These variables are set at build time via -ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
)

// Info is the version information in structured form.
type Info struct {
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Go      string `json:"go" yaml:"go"`
	OS      string `json:"os" yaml:"os"`
	Arch    string `json:"arch" yaml:"arch"`
}

// Get returns the current build information.
func Get() Info {
	return Info{
		Version: Version,
		Commit:  Commit,
		Go:      runtime.Version(),
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
	}
}

// String returns a formatted version string.
func String() string {
	return fmt.Sprintf("streambuf %s (%s) %s/%s", Version, Commit, runtime.GOOS, runtime.GOARCH)
}
