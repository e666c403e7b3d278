package utils

import (
	"runtime/debug"
)

const (
	developmentVersion  = "dev"
	develBuildVersion   = "(devel)"
	vcsRevisionKey      = "vcs.revision"
	vcsModifiedKey      = "vcs.modified"
	shortRevisionLength = 12
	dirtyRevisionSuffix = "-dirty"
)

// Version is populated at build time with
// -ldflags "-X 'github.com/temirov/projscan/internal/utils.Version=1.2.3'".
var Version = ""

// GetApplicationVersion reports the linked version, falling back to the module
// version recorded in the build info and then to the VCS revision.
func GetApplicationVersion() string {
	if Version != "" {
		return Version
	}
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if !buildInfoAvailable {
		return developmentVersion
	}
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != develBuildVersion {
		return buildInfo.Main.Version
	}
	return revisionFromSettings(buildInfo.Settings)
}

func revisionFromSettings(settings []debug.BuildSetting) string {
	revision := ""
	modified := false
	for _, setting := range settings {
		switch setting.Key {
		case vcsRevisionKey:
			revision = setting.Value
		case vcsModifiedKey:
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return developmentVersion
	}
	if len(revision) > shortRevisionLength {
		revision = revision[:shortRevisionLength]
	}
	if modified {
		revision += dirtyRevisionSuffix
	}
	return revision
}
