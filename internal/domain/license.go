package domain

import "time"

// License is the per-payer singleton describing which applications the payer
// is licensed for and the contracted user headroom.
type License struct {
	PubID         string    `json:"pubId"`
	PayerPubID    string    `json:"payerPubId"`
	VBCallEnabled bool      `json:"vbcallEnabled"`
	VBPayEnabled  bool      `json:"vbpayEnabled"`
	VBUMEnabled   bool      `json:"vbumEnabled"`
	UserLimit     int       `json:"userLimit"`
	FromDate      time.Time `json:"fromDate"`
	ToDate        time.Time `json:"toDate"`
	IsActive      bool      `json:"isActive"`
	Audit
}
