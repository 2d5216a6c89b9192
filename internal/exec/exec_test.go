package exec

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunSuccess(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), Command{Argv: []string{"echo", "hi"}, Stdout: &out})
	require.NoError(t, err)
	require.Contains(t, out.String(), "hi")
}

func TestRunExitError(t *testing.T) {
	err := Run(context.Background(), Command{Argv: []string{"sh", "-c", "exit 3"}})
	require.Error(t, err)
	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 3, exitErr.Status)
}

func TestRunSpawnError(t *testing.T) {
	err := Run(context.Background(), Command{Argv: []string{"hpm-no-such-binary-xyz"}})
	require.Error(t, err)
	var spawnErr *SpawnError
	require.ErrorAs(t, err, &spawnErr)
}
