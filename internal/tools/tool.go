// Package tools holds the agent-callable tool surface: the Tool interface,
// the registry, and the five airtime tools. Every tool renders plain text;
// domain failures come back as descriptive messages, never raw errors.
package tools

import "context"

// Tool is the interface all agent capabilities implement.
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description for the agent.
	Description() string

	// Parameters returns the JSON schema for the tool's parameters.
	Parameters() map[string]any

	// Execute runs the tool with the given arguments and returns the result
	// text. An error is returned only for malformed invocations; domain
	// failures are part of the result text.
	Execute(ctx context.Context, args map[string]any) (string, error)
}
