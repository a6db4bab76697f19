package services

import (
	"context"
	"testing"

	"careerhub-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	users := NewUserService(f.users, f.log)
	admin := f.createUser(t, "kai")
	target := f.createUser(t, "lou")

	// points awarded elsewhere survive an admin edit
	require.NoError(t, f.db.Exec("UPDATE users SET points = 30 WHERE id = ?", target.ID).Error)

	employer := domain.RoleEmployer
	updated, err := users.UpdateUserByAdmin(ctx, admin.ID, target.ID, &UpdateUserByAdminInput{Role: &employer})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployer, updated.Role)

	profile, err := users.GetProfile(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployer, profile.Role)
	assert.Equal(t, 30, profile.Points)

	bogus := domain.Role("owner")
	_, err = users.UpdateUserByAdmin(ctx, admin.ID, target.ID, &UpdateUserByAdminInput{Role: &bogus})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = users.UpdateUserByAdmin(ctx, admin.ID, admin.ID, &UpdateUserByAdminInput{Role: &employer})
	assert.ErrorIs(t, err, ErrCannotChangeOwnRole)

	_, err = users.UpdateUserByAdmin(ctx, admin.ID, 9999, &UpdateUserByAdminInput{Role: &employer})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	list, total, err := users.ListUsers(ctx, 0, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 1)
}
