package version

var (
	// Set at build time with -ldflags "-X github.com/hamed0406/mcstatus/internal/version.Version=...".
	Version   = "dev"
	GitCommit = "none"
	BuildTime = "unknown"
)
