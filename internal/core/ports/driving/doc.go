// Package driving declares the operations the CLI and MCP adapters call.
// internal/core/services implements each interface.
package driving
