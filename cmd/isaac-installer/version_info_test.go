package main

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitVersionUsesBuildInfoWhenDev(t *testing.T) {
	prevVersion := version
	prevReader := readBuildInfo
	t.Cleanup(func() {
		version = prevVersion
		readBuildInfo = prevReader
	})

	version = defaultVersion
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{
				Path:    "github.com/brunorios1080/Isaac-Installer",
				Version: "v0.3.1",
			},
		}, true
	}

	initVersion()

	assert.Equal(t, "v0.3.1", version)
}

func TestInitVersionIgnoresDevelVersion(t *testing.T) {
	prevVersion := version
	prevReader := readBuildInfo
	t.Cleanup(func() {
		version = prevVersion
		readBuildInfo = prevReader
	})

	version = defaultVersion
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "(devel)"},
		}, true
	}

	initVersion()

	assert.Equal(t, defaultVersion, version)
}

func TestInitVersionRespectsPresetVersion(t *testing.T) {
	prevVersion := version
	prevReader := readBuildInfo
	t.Cleanup(func() {
		version = prevVersion
		readBuildInfo = prevReader
	})

	version = "custom"
	readBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{Main: debug.Module{Version: "v0.3.1"}}, true
	}

	initVersion()

	assert.Equal(t, "custom", version)
}

func TestInitVersionWithoutBuildInfo(t *testing.T) {
	prevVersion := version
	prevReader := readBuildInfo
	t.Cleanup(func() {
		version = prevVersion
		readBuildInfo = prevReader
	})

	version = defaultVersion
	readBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }

	initVersion()

	assert.Equal(t, defaultVersion, version)
}
