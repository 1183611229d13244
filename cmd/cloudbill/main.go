package main

import (
	"context"

	"cloudbill/cmd/cloudbill/commands"
	"cloudbill/lib/telemetry"
)

func main() {
	ctx := context.Background()
	telemetry.SetupFromEnv(ctx, "cloudbill")
	telemetry.InstrumentPerfStats(ctx)
	commands.ExecuteContext(ctx)
}
