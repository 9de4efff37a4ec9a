package domain

import "time"

// Audit carries the bookkeeping columns shared by every live row.
type Audit struct {
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"`
	UpdatedAt time.Time `json:"updatedAt"`
	UpdatedBy string    `json:"updatedBy"`
}

// NewAudit stamps creation bookkeeping for a row created now by the given user.
func NewAudit(userPubID string, now time.Time) Audit {
	return Audit{
		CreatedAt: now,
		CreatedBy: userPubID,
		UpdatedAt: now,
		UpdatedBy: userPubID,
	}
}

// Touch returns the audit columns with the update bookkeeping refreshed.
func (a Audit) Touch(userPubID string, now time.Time) Audit {
	a.UpdatedAt = now
	a.UpdatedBy = userPubID
	return a
}
