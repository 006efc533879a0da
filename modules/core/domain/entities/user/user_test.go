package user_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relayhq/relay-server/modules/core/domain/entities/company"
	"github.com/relayhq/relay-server/modules/core/domain/entities/user"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	r, ok := user.ParseRole("Admin")
	assert.True(t, ok)
	assert.Equal(t, user.RoleAdmin, r)

	_, ok = user.ParseRole("admin")
	assert.False(t, ok)

	_, ok = user.ParseRole("")
	assert.False(t, ok)
}

func TestSetAndCheckPassword(t *testing.T) {
	t.Parallel()

	u := user.New("Jordan", "jordan@example.com", user.RoleEditor)
	require.NoError(t, u.SetPassword("s3cret-pass"))

	assert.NotEqual(t, "s3cret-pass", u.PasswordHash())
	assert.True(t, u.CheckPassword("s3cret-pass"))
	assert.False(t, u.CheckPassword("wrong"))
	assert.False(t, u.CheckPassword(""))
}

func TestAdminPredicates(t *testing.T) {
	t.Parallel()

	platform := company.New("Relay", company.WithID(1), company.WithSuperAdmin(true))
	client := company.New("Acme Studios", company.WithID(2))

	admin := user.New("Root", "root@example.com", user.RoleAdmin)
	editor := user.New("Cutter", "cutter@example.com", user.RoleEditor)

	assert.True(t, user.IsSuperAdmin(admin, platform))
	assert.False(t, user.IsSuperAdmin(admin, client))
	assert.False(t, user.IsSuperAdmin(admin, nil))
	assert.False(t, user.IsSuperAdmin(editor, platform))

	assert.True(t, user.IsCompanyAdmin(admin, client))
	assert.False(t, user.IsCompanyAdmin(admin, platform))
	assert.False(t, user.IsCompanyAdmin(editor, client))
}

func TestApplyPatchesOnlySetFields(t *testing.T) {
	t.Parallel()

	u := user.New("Jordan", "jordan@example.com", user.RolePhotographer,
		user.WithAvatar("old.png"))

	name := "Jordan B."
	u.Apply(user.Patch{Name: &name})

	assert.Equal(t, "Jordan B.", u.Name())
	assert.Equal(t, "jordan@example.com", u.Email())
	assert.Equal(t, "old.png", u.Avatar())
	assert.Equal(t, user.RolePhotographer, u.Access())
}
