package models

import "time"

// StatutReclamation is the closed set of complaint workflow states.
type StatutReclamation string

const (
	ReclamationOuverte StatutReclamation = "ouverte"
	ReclamationEnCours StatutReclamation = "en_cours"
	ReclamationResolue StatutReclamation = "resolue"
)

func (s StatutReclamation) IsValid() bool {
	switch s {
	case ReclamationOuverte, ReclamationEnCours, ReclamationResolue:
		return true
	default:
		return false
	}
}

// ParseStatutReclamation converts a wire string into a StatutReclamation.
func ParseStatutReclamation(s string) (StatutReclamation, bool) {
	statut := StatutReclamation(s)
	return statut, statut.IsValid()
}

// Reclamation is a complaint filed against a client account.
type Reclamation struct {
	ID           int64
	Sujet        string
	Description  string
	DateCreation time.Time
	Statut       StatutReclamation
	ClientID     int64
}

// Attachment is a file attached to a reclamation. The payload itself lives in
// S3-compatible storage under StorageKey; the row only tracks metadata.
type Attachment struct {
	ID            int64
	ReclamationID int64
	StorageKey    string
	Filename      string
	CreatedAt     time.Time
}
