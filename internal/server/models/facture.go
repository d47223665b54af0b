package models

import "time"

// StatutFacture is the closed set of invoice payment states.
type StatutFacture string

const (
	FacturePayee  StatutFacture = "payé"
	FactureImpaye StatutFacture = "impayé"
)

func (s StatutFacture) IsValid() bool {
	switch s {
	case FacturePayee, FactureImpaye:
		return true
	default:
		return false
	}
}

// ParseStatutFacture converts a wire string into a StatutFacture.
func ParseStatutFacture(s string) (StatutFacture, bool) {
	statut := StatutFacture(s)
	return statut, statut.IsValid()
}

// Facture is an invoice issued to a client.
type Facture struct {
	ID           int64
	Numero       string
	Montant      float64
	DateEmission time.Time
	Statut       StatutFacture
	ClientID     int64
}
