package service

import (
	"context"
	"testing"

	"lost_and_found_tool/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_Validation(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	valid := RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Phone:    "111222333",
		Password: "correct horse",
	}

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
	}{
		{"missing name", func(in *RegisterInput) { in.Name = " " }},
		{"missing email", func(in *RegisterInput) { in.Email = "" }},
		{"missing phone", func(in *RegisterInput) { in.Phone = "" }},
		{"short password", func(in *RegisterInput) { in.Password = "short" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := valid
			tc.mutate(&in)
			_, err := e.users.Register(ctx, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	u, err := e.users.Register(ctx, valid)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)

	// Same email again.
	valid.Phone = "999888777"
	_, err = e.users.Register(ctx, valid)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRegister_AdminPromotion(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	u, err := e.users.Register(ctx, RegisterInput{
		Name:     "Root",
		Email:    "Admin@Example.COM",
		Phone:    "000111222",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Equal(t, "admin@example.com", u.Email)
}

func TestAuthenticate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	reg, err := e.users.Register(ctx, RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Phone:    "111222333",
		Password: "correct horse",
	})
	require.NoError(t, err)

	u, err := e.users.Authenticate(ctx, "alice@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, reg.ID, u.ID)

	_, err = e.users.Authenticate(ctx, "alice@example.com", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = e.users.Authenticate(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateAccount(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	alice, err := e.users.Register(ctx, RegisterInput{
		Name:     "Alice",
		Email:    "alice@example.com",
		Phone:    "111222333",
		Password: "correct horse",
	})
	require.NoError(t, err)
	_, err = e.users.Register(ctx, RegisterInput{
		Name:     "Bob",
		Email:    "bob@example.com",
		Phone:    "444555666",
		Password: "correct horse",
	})
	require.NoError(t, err)
	actor := Principal{ID: alice.ID, Role: alice.Role}

	got, err := e.users.UpdateAccount(ctx, actor, UpdateAccountInput{
		Name:  str("Alice B."),
		Email: str("  Alice.B@Example.COM "),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice B.", got.Name)
	assert.Equal(t, "alice.b@example.com", got.Email)
	assert.Equal(t, "111222333", got.Phone)

	// No fields is a no-op read-back.
	got, err = e.users.UpdateAccount(ctx, actor, UpdateAccountInput{})
	require.NoError(t, err)
	assert.Equal(t, "Alice B.", got.Name)

	_, err = e.users.UpdateAccount(ctx, actor, UpdateAccountInput{Name: str("  ")})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = e.users.UpdateAccount(ctx, actor, UpdateAccountInput{Email: str("")})
	assert.ErrorIs(t, err, ErrValidation)

	// Taking another user's email or phone is rejected.
	_, err = e.users.UpdateAccount(ctx, actor, UpdateAccountInput{Email: str("bob@example.com")})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = e.users.UpdateAccount(ctx, actor, UpdateAccountInput{Phone: str("444555666")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateAvatar(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	alice, err := e.users.Register(ctx, RegisterInput{
		Name:       "Alice",
		Email:      "alice@example.com",
		Phone:      "111222333",
		Password:   "correct horse",
		Avatar:     []byte("img"),
		AvatarName: "old.png",
	})
	require.NoError(t, err)
	require.Equal(t, "https://blobs.test/old.png", alice.AvatarURL)
	actor := Principal{ID: alice.ID, Role: alice.Role}

	_, err = e.users.UpdateAvatar(ctx, actor, nil, "")
	assert.ErrorIs(t, err, ErrValidation)

	got, err := e.users.UpdateAvatar(ctx, actor, []byte("img2"), "new.png")
	require.NoError(t, err)
	assert.Equal(t, "https://blobs.test/new.png", got.AvatarURL)
	assert.Contains(t, e.blobs.removed, "https://blobs.test/old.png")

	// Upload failure leaves the stored URL alone.
	e.blobs.fail = true
	_, err = e.users.UpdateAvatar(ctx, actor, []byte("img3"), "newer.png")
	assert.ErrorIs(t, err, ErrUpload)
	cur, err := e.users.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://blobs.test/new.png", cur.AvatarURL)
}

func TestGetUser_PublicProfile(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	p := e.seedUser(t, models.RoleUser)
	u, err := e.users.GetUser(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, u.ID)
	assert.Equal(t, "Test User", u.Name)

	_, err = e.users.GetUser(ctx, "no-such-user")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUser_Rules(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	admin := e.seedUser(t, models.RoleAdmin)
	otherAdmin := e.seedUser(t, models.RoleAdmin)
	user := e.seedUser(t, models.RoleUser)

	assert.ErrorIs(t, e.users.DeleteUser(ctx, user, admin.ID), ErrForbidden)
	assert.ErrorIs(t, e.users.DeleteUser(ctx, admin, admin.ID), ErrValidation)
	assert.ErrorIs(t, e.users.DeleteUser(ctx, admin, otherAdmin.ID), ErrForbidden)

	assert.NoError(t, e.users.DeleteUser(ctx, admin, user.ID))
	assert.ErrorIs(t, e.users.DeleteUser(ctx, admin, user.ID), ErrNotFound)
}

func TestListUsers_AdminGate(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	admin := e.seedUser(t, models.RoleAdmin)
	user := e.seedUser(t, models.RoleUser)

	_, err := e.users.ListUsers(ctx, user, "", 1, 20)
	assert.ErrorIs(t, err, ErrForbidden)

	res, err := e.users.ListUsers(ctx, admin, "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
}
