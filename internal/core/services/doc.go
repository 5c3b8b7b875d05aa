// Package services holds askwork's core: the permission engine, the
// message classifier, indexing and retrieval, the sync orchestrator and
// the answer orchestrator.
//
// Every service talks to infrastructure through the driven ports and is
// exposed to the CLI and MCP adapters through the driving ports.
package services
