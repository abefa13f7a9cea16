package vision

import (
	"context"
)

// Config represents the configuration for a vision model call.
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
}

// Provider defines the interface for a vision-capable model provider. It
// returns the model's raw text response; parsing is the caller's concern.
type Provider interface {
	Analyze(ctx context.Context, config Config, image []byte, mimeType string) (string, error)
}
