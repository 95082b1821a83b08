package main

import (
	"context"

	"playscope-backend/cmd/playscope-cli/commands"
	"playscope-backend/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "playscope-cli")
	telemetry.InitSlog(false)
	commands.ExecuteContext(context.Background())
}
