// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under ~/.askwork.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable prompt files
//   - KnowledgeBase: team directory and company knowledge from TOML, with a file watcher
//   - Directory: requester identities from the same knowledge file
package file
