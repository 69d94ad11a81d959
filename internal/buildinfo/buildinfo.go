package buildinfo

// Set via -ldflags "-X github.com/varsilias/ollama-chat-api/internal/buildinfo.Version=..."
var (
	Version = "dev"
	Commit  = "none"
	BuiltAt = "unknown"
)
