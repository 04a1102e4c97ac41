package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withBuildInfo(t *testing.T, info *debug.BuildInfo) {
	t.Helper()

	orig := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return info, info != nil }

	t.Cleanup(func() { readBuildInfo = orig })
}

func TestGetVersion_DevWithoutBuildInfo(t *testing.T) {
	withBuildInfo(t, nil)

	assert.Equal(t, "dev", GetVersion())
	assert.Equal(t, "none", GetCommit())
	assert.Equal(t, "unknown", GetDate())
}

func TestGetVersion_FromModuleVersion(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2026-10-18T09:00:00Z"},
		},
	})

	assert.Equal(t, "v1.2.3", GetVersion())
	assert.Equal(t, "abc123", GetCommit())
	assert.Equal(t, "2026-10-18T09:00:00Z", GetDate())
}

func TestGetVersion_DevelBuildStaysDev(t *testing.T) {
	withBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})

	assert.Equal(t, "dev", GetVersion())
}

func TestGetFullVersionFormat(t *testing.T) {
	withBuildInfo(t, nil)

	expected := GetVersion() + " (commit: " + GetCommit() + ", built: " + GetDate() + ")"
	assert.Equal(t, expected, GetFullVersion())
	assert.Contains(t, GetFullVersion(), "commit:")
	assert.Contains(t, GetFullVersion(), "built:")
}
