package cli

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withVersion(t *testing.T, v string) {
	t.Helper()
	original := version
	SetVersion(v)
	t.Cleanup(func() { version = original })
}

func TestVersionCmd_PrintsVersionAndRuntime(t *testing.T) {
	setupTestServices(t)
	withVersion(t, "1.2.3")

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "askwork version 1.2.3")
	assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)
}

func TestVersionCmd_Short(t *testing.T) {
	setupTestServices(t)
	withVersion(t, "1.2.3")

	out, err := execute(t, "version", "--short")

	require.NoError(t, err)
	assert.Contains(t, out, "1.2.3")
	assert.NotContains(t, out, "askwork version")
}

func TestVersionCmd_RejectsArguments(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "version", "extra")

	assert.Error(t, err)
}
