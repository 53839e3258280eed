// Package driving holds the interfaces the CLI and the MCP server call.
// internal/core/services implements them.
package driving
