package buildinfo

// Set at build time with -ldflags "-X .../internal/buildinfo.Version=..."
var (
	Version = "dev"
	Commit  = "none"
	BuiltAt = "unknown"
)
