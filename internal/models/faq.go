package models

import (
	"time"

	"github.com/google/uuid"
)

// FAQRecord is a row of faq_entries, imported from the FAQ document.
type FAQRecord struct {
	ID             uuid.UUID `db:"id"`
	Position       int       `db:"position"`
	Question       string    `db:"question"`
	ShortAnswer    string    `db:"short_answer"`
	LegalReference string    `db:"legal_reference"`
	LegalURL       string    `db:"legal_url"`
	Block          string    `db:"block"`
	CurrentAsOf    string    `db:"current_as_of"`
	CreatedAt      time.Time `db:"created_at"`
}
