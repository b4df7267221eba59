package app

const ServiceName = "social-media-service"

// Set at build time with -ldflags "-X social-media-service/internal/app.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
)
