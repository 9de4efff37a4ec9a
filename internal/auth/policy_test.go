package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbtech/vbadmin/internal/domain"
)

func editRequirement(payerPubID string) Requirement {
	return Requirement{
		Types:      []domain.UserType{domain.UserTypeBPO, domain.UserTypePayer},
		Roles:      []domain.UserRole{domain.UserRoleEdit},
		PayerPubID: payerPubID,
	}
}

func TestEvaluateAllowsScopedRole(t *testing.T) {
	user := domain.UserContext{
		UserPubID: "u1",
		Type:      domain.UserTypePayer,
		Assignments: []domain.RoleAssignment{
			{PayerPubID: "p1", Roles: []domain.UserRole{domain.UserRoleRead, domain.UserRoleEdit}},
		},
	}
	assert.NoError(t, Evaluate(user, editRequirement("p1")))
}

func TestEvaluateDeniesRoleScopedToAnotherPayer(t *testing.T) {
	user := domain.UserContext{
		UserPubID: "u1",
		Type:      domain.UserTypePayer,
		Assignments: []domain.RoleAssignment{
			{PayerPubID: "p2", Roles: []domain.UserRole{domain.UserRoleEdit}},
		},
	}
	err := Evaluate(user, editRequirement("p1"))
	require.Error(t, err)

	var authErr *domain.AuthorizationError
	assert.True(t, errors.As(err, &authErr), "denial must be an AuthorizationError")
}

func TestEvaluateDeniesDisallowedType(t *testing.T) {
	user := domain.UserContext{
		UserPubID: "u1",
		Type:      domain.UserTypeVendor,
		Assignments: []domain.RoleAssignment{
			{PayerPubID: "p1", Roles: []domain.UserRole{domain.UserRoleEdit}},
		},
	}
	require.Error(t, Evaluate(user, editRequirement("p1")))
}

func TestEvaluateBPOBypassesPayerScope(t *testing.T) {
	user := domain.UserContext{UserPubID: "u1", Type: domain.UserTypeBPO}
	assert.NoError(t, Evaluate(user, editRequirement("p1")))
}

func TestRequireUserWithoutContext(t *testing.T) {
	_, err := RequireUser(context.Background(), editRequirement("p1"))
	var authErr *domain.AuthorizationError
	require.True(t, errors.As(err, &authErr))
}

func TestRequireUserRoundTrip(t *testing.T) {
	user := domain.UserContext{UserPubID: "u1", Type: domain.UserTypeBPO}
	ctx := ContextWithUser(context.Background(), user)

	got, err := RequireUser(ctx, editRequirement("p1"))
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserPubID)
}
