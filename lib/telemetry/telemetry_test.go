package telemetry

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupFromEnvMissingConfig(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	// a fresh temp dir has no telemetry.json5 anywhere up its tree
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	tel, err := SetupFromEnv(context.Background(), "test:telemetry")
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)

	// a no-op Telemetry shuts down cleanly
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestInstrumentPerfStatsStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	InstrumentPerfStats(ctx)
}
