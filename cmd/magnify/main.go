package main

import (
	"magnify-backend/cmd/magnify/commands"
	"magnify-backend/lib/serviceutil"
	"magnify-backend/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()
	telemetry.SetupFromEnv(ctx, "magnify")
	commands.ExecuteContext(ctx)
}
