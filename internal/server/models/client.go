package models

// Client is a customer record. Factures and reclamations reference it and are
// removed with it (ON DELETE CASCADE).
type Client struct {
	ID        int64
	Nom       string
	Email     string
	Telephone *string
}
