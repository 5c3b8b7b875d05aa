package driving

import "github.com/custodia-labs/askwork/internal/core/domain"

// ClassifierService triages inbound messages.
type ClassifierService interface {
	// Classify assigns a priority and category. It is pure and total.
	Classify(msg domain.InboundMessage) domain.ClassifiedMessage

	// SortByPriority returns the messages ordered critical first.
	SortByPriority(msgs []domain.ClassifiedMessage) []domain.ClassifiedMessage
}
