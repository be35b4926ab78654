package llm

import "context"

// Client is a minimal multimodal LLM interface to allow pluggable providers.
type Client interface {
	// Transcribe returns the text spoken in the audio file at audioPath.
	Transcribe(ctx context.Context, audioPath string) (string, error)
	// DescribeImage returns a detailed description of the image at imagePath.
	DescribeImage(ctx context.Context, imagePath string) (string, error)
	// Complete runs a plain text completion with a system and user prompt.
	Complete(ctx context.Context, system, user string) (string, error)
}
