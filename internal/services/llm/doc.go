// Package llm wraps an OpenAI-compatible chat completions API with retries,
// JSON-only responses, and optional image attachments for vision analysis.
package llm
