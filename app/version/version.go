// Copyright © 2024-2025 Padfi Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package version provides the release version of the codebase and semver utilities.
package version

import (
	"context"
	"fmt"
	"regexp"
	"runtime/debug"
	"strconv"

	"github.com/padfi/launchpad-go/app/errors"
	"github.com/padfi/launchpad-go/app/log"
	"github.com/padfi/launchpad-go/app/z"
)

// version is the release version of the codebase.
// Usually overridden by tag names when building binaries.
const version = "v0.4-dev"

// Version is the parsed release version of the codebase.
var Version = mustParse(version)

// supported is the list of supported minor versions, latest first.
// Persisted data (like tracker snapshots) written by any of these is readable.
var supported = []SemVer{
	{major: 0, minor: 4, semVerType: typeMinor},
	{major: 0, minor: 3, semVerType: typeMinor},
}

// Supported returns the supported minor versions, latest first.
func Supported() []SemVer {
	return append([]SemVer(nil), supported...)
}

type semVerType int

const (
	typeMinor semVerType = iota + 1
	typePatch
	typePreRelease
)

// SemVer is a semantic version of the form v0.1, v0.1.2 or v0.1-dev.
type SemVer struct {
	major      int
	minor      int
	patch      int
	preRelease string
	semVerType semVerType
}

func (v SemVer) String() string {
	switch v.semVerType {
	case typePatch:
		return fmt.Sprintf("v%d.%d.%d", v.major, v.minor, v.patch)
	case typePreRelease:
		return fmt.Sprintf("v%d.%d-%s", v.major, v.minor, v.preRelease)
	default:
		return fmt.Sprintf("v%d.%d", v.major, v.minor)
	}
}

// Minor returns a copy of the version truncated to its minor version.
func (v SemVer) Minor() SemVer {
	return SemVer{major: v.major, minor: v.minor, semVerType: typeMinor}
}

var semVerRegex = regexp.MustCompile(`^v([0-9]+)\.([0-9]+)(?:\.([0-9]+)|-([a-z0-9]+))?$`)

// Parse parses the version string into a SemVer.
func Parse(v string) (SemVer, error) {
	matches := semVerRegex.FindStringSubmatch(v)
	if matches == nil {
		return SemVer{}, errors.New("invalid semver string", z.Str("version", v))
	}

	resp := SemVer{semVerType: typeMinor}

	var err error

	resp.major, err = strconv.Atoi(matches[1])
	if err != nil {
		return SemVer{}, errors.Wrap(err, "parse major version")
	}

	resp.minor, err = strconv.Atoi(matches[2])
	if err != nil {
		return SemVer{}, errors.Wrap(err, "parse minor version")
	}

	if matches[3] != "" {
		resp.patch, err = strconv.Atoi(matches[3])
		if err != nil {
			return SemVer{}, errors.Wrap(err, "parse patch version")
		}

		resp.semVerType = typePatch
	} else if matches[4] != "" {
		resp.preRelease = matches[4]
		resp.semVerType = typePreRelease
	}

	return resp, nil
}

// Compare returns -1, 0 or 1 comparing major, minor and, if both
// versions carry one, patch. Pre-release suffixes are ignored.
func Compare(a, b SemVer) int {
	if a.major != b.major {
		return cmpInt(a.major, b.major)
	}

	if a.minor != b.minor {
		return cmpInt(a.minor, b.minor)
	}

	if a.semVerType == typePatch && b.semVerType == typePatch && a.patch != b.patch {
		return cmpInt(a.patch, b.patch)
	}

	return 0
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}

	return 1
}

func mustParse(v string) SemVer {
	resp, err := Parse(v)
	if err != nil {
		panic("invalid codebase version: " + v)
	}

	return resp
}

// GitCommit returns the git commit hash and timestamp from build info.
func GitCommit() (hash string, timestamp string) {
	hash, timestamp = "unknown", "unknown"

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return hash, timestamp
	}

	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			hash = s.Value[:7]
		} else if s.Key == "vcs.time" {
			timestamp = s.Value
		}
	}

	return hash, timestamp
}

// LogVersion logs version information along-with the provided message.
func LogVersion(ctx context.Context, msg string) {
	gitHash, gitTimestamp := GitCommit()
	log.Info(ctx, msg,
		z.Str("version", Version.String()),
		z.Str("git_commit_hash", gitHash),
		z.Str("git_commit_time", gitTimestamp),
	)
}
