// Package connectors holds the external collaborators that feed the sync
// orchestrator: the issue tracker (github) and the calendar and mailbox
// (google/calendar, google/gmail). Each implements a driven port and
// returns typed records; turning records into documents is left to the
// normalisers.
package connectors
