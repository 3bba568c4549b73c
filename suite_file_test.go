package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/testbootstrap/bootstrap-harness/framework/exitcodes"
)

func writeSuiteFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "suite.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSuiteFileSuppliesDefaults(t *testing.T) {
	path := writeSuiteFile(t, `
resources: unittests/testdata/resources
skip:
  - placeholder/rename_me
repeat: 2
`)
	var params commandParams
	require.True(t, params.Read([]string{"x", "-config", path}, os.Stderr))

	assert.Equal(t, "unittests/testdata/resources", params.resourceDir)
	assert.Equal(t, 2, params.repeat)
	assert.Equal(t, `"placeholder/rename_me"`, params.filters.MustNotMatch.String())

	code, _, _ := runForTest(t, "-config", path)
	assert.Equal(t, exitcodes.Success, code)
}

func TestFlagsOverrideSuiteFile(t *testing.T) {
	path := writeSuiteFile(t, `
resources: does/not/exist
repeat: 5
failFast: true
skip: [other]
`)
	var params commandParams
	require.True(t, params.Read([]string{"x", "-config", path, "-resources", quietResources, "-repeat", "1", "-skip", "mine"}, os.Stderr))

	assert.Equal(t, quietResources, params.resourceDir)
	assert.Equal(t, 1, params.repeat)
	assert.True(t, params.failFast)
	assert.Equal(t, `"mine" or "other"`, params.filters.MustNotMatch.String())
}

func TestInvalidSuiteFile(t *testing.T) {
	var params commandParams
	assert.False(t, params.Read([]string{"x", "-config", writeSuiteFile(t, "repeat: [")}, os.Stderr))

	params = commandParams{}
	assert.False(t, params.Read([]string{"x", "-config", writeSuiteFile(t, "repeat: -1")}, os.Stderr))

	params = commandParams{}
	assert.False(t, params.Read([]string{"x", "-config", filepath.Join(t.TempDir(), "missing.yml")}, os.Stderr))
}
