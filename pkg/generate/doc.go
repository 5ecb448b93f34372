// Package generate turns free-form text into a structured content
// description using a hosted language model.
//
// The provider is selected from the API key shape, so a single key
// environment variable drives the whole boundary. Responses are decoded
// tolerantly and normalized through [content.Process] before they reach
// the layout engine; transient provider failures retry with exponential
// backoff.
package generate
