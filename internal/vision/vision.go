package vision

import "context"

// Analyzer can analyze a stored image and produce a free-text answer.
type Analyzer interface {
	// Analyze reads the image at path and returns the model's answer. The
	// answer is treated as opaque text by callers.
	Analyze(ctx context.Context, path string) (string, error)
}
