package auth

import (
	"context"
	"fmt"

	"github.com/vbtech/vbadmin/internal/domain"
)

// Requirement states the capability set an operation demands: an allowed set
// of user types, a role set from which the caller must hold at least one, and
// the payer the operation targets. Every action states its requirement and
// calls Evaluate instead of re-implementing role lookups inline.
type Requirement struct {
	Types      []domain.UserType
	Roles      []domain.UserRole
	PayerPubID string
}

// Evaluate decides allow/deny for a caller against a requirement.
//
// BPO users are back-office staff and bypass payer scoping: a matching type is
// sufficient. Every other type must additionally hold one of the required
// roles for the specific target payer, not merely for any payer.
func Evaluate(user domain.UserContext, req Requirement) error {
	if req.PayerPubID == "" {
		return &domain.AuthorizationError{Message: "target payer is required"}
	}

	typeAllowed := false
	for _, t := range req.Types {
		if user.Type == t {
			typeAllowed = true
			break
		}
	}
	if !typeAllowed {
		return &domain.AuthorizationError{
			Message: fmt.Sprintf("user type %q is not permitted for this operation", user.Type),
		}
	}

	if user.Type == domain.UserTypeBPO {
		return nil
	}

	held := user.RolesFor(req.PayerPubID)
	for _, required := range req.Roles {
		for _, role := range held {
			if role == required {
				return nil
			}
		}
	}

	return &domain.AuthorizationError{Message: "user does not hold a required role for the target payer"}
}

// RequireUser pulls the caller from the context and evaluates the requirement.
func RequireUser(ctx context.Context, req Requirement) (domain.UserContext, error) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return domain.UserContext{}, &domain.AuthorizationError{Message: "no authenticated user"}
	}
	if err := Evaluate(user, req); err != nil {
		return domain.UserContext{}, err
	}
	return user, nil
}
