package db

import (
	"context"
	"fmt"
	"testing"

	"lost_and_found_tool/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// newTestRepo opens a fresh in-memory SQLite DB (modernc.org/sqlite) and
// runs the real migration, compound unique index included. A unique DSN per
// test keeps shared-cache databases from leaking state between tests.
func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	conn, err := gorm.Open(dial, &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, Migrate(conn), "migrate")
	return NewRepo(conn)
}

func mkUser(t *testing.T, r *Repo, role string) *models.User {
	t.Helper()
	u := &models.User{
		ID:           uuid.NewString(),
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		Phone:        uuid.NewString(),
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func mkItem(t *testing.T, r *Repo, ownerID, status string) *models.Item {
	t.Helper()
	it := &models.Item{
		ID:               uuid.NewString(),
		Title:            "Black wallet",
		Description:      "Leather wallet with initials",
		Category:         "Wallet",
		UniqueIdentifier: uuid.NewString(),
		ImageURL:         "https://blobs.test/img.jpg",
		Status:           status,
		Latitude:         46.05,
		Longitude:        14.51,
		UserID:           ownerID,
	}
	require.NoError(t, r.CreateItem(context.Background(), it))
	return it
}

func mkClaim(t *testing.T, r *Repo, itemID, claimantID string) *models.Claim {
	t.Helper()
	c := &models.Claim{
		ID:          uuid.NewString(),
		ItemID:      itemID,
		ClaimantID:  claimantID,
		ClaimStatus: models.ClaimStatusPending,
		ProofURL:    "https://blobs.test/proof.jpg",
	}
	require.NoError(t, r.CreateClaim(context.Background(), c))
	return c
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := mkUser(t, r, models.RoleUser)
	dup := &models.User{
		ID:           uuid.NewString(),
		Name:         "Other",
		Email:        u.Email,
		Phone:        uuid.NewString(),
		PasswordHash: "x",
		Role:         models.RoleUser,
	}
	assert.ErrorIs(t, r.CreateUser(ctx, dup), ErrDuplicateUser)
}

func TestListUsers_FilterAndPaging(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	alice := &models.User{
		ID: uuid.NewString(), Name: "Alice", Email: "alice@example.com",
		Phone: "111", PasswordHash: "x", Role: models.RoleUser,
	}
	require.NoError(t, r.CreateUser(ctx, alice))
	bob := &models.User{
		ID: uuid.NewString(), Name: "Bob", Email: "bob@example.com",
		Phone: "222", PasswordHash: "x", Role: models.RoleUser,
	}
	require.NoError(t, r.CreateUser(ctx, bob))

	res, err := r.ListUsers(ctx, "alice", 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	if assert.Len(t, res.Users, 1) {
		assert.Equal(t, alice.ID, res.Users[0].ID)
	}

	res, err = r.ListUsers(ctx, "", 1, 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	assert.Len(t, res.Users, 1)
}

func TestFindUserByEmail_Normalizes(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := mkUser(t, r, models.RoleUser)
	got, err := r.FindUserByEmail(ctx, u.Email)
	assert.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = r.FindUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
