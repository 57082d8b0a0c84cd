// Package misc keeps program identity helpers used by cmd and config.
package misc

import (
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
)

const appName = "resgen"

// set by the build with -ldflags "-X resgen/misc.appVersion=..."
var appVersion = "development"

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return appVersion
}

// GetGitHash returns VCS revision recorded in build info, if any.
func GetGitHash() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range bi.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return "unknown"
}

var runID = sync.OnceValue(func() string {
	return uuid.NewString()
})

// GetRunID returns identifier unique to this invocation, used to correlate
// logs with debug reports.
func GetRunID() string {
	return runID()
}
