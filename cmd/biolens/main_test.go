package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abfi/biolens/internal/cli"
	"github.com/abfi/biolens/internal/config"
)

func TestRootCommandConstruction(t *testing.T) {
	root := cli.NewRootCmd(version)
	assert.NotNil(t, root)
	assert.Equal(t, "biolens", root.Use)
	assert.NotEmpty(t, root.Version)
}

// run owns the log file cleanup so the os.Exit path in main cannot skip it.
func TestRunReturnsErrorAndClosesLogFile(t *testing.T) {
	t.Setenv(config.EnvVarConfigDir, t.TempDir())

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = []string{"biolens", "no-such-command"}

	require.Error(t, run())

	// The deferred close already ran; a second close must be a no-op.
	config.CloseLogFile()
}
