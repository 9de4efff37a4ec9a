package domain

import (
	"strings"

	"github.com/google/uuid"
)

// NewPubID mints an opaque public identifier for a new row. Public identifiers
// are non-sequential so that nothing about row ordering or volume leaks across
// tenants.
func NewPubID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
