package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"lost_and_found_tool/db"
	"lost_and_found_tool/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// fakeBlob is an in-memory blob.Store. Set fail to make every Put error,
// which is how upload-failure paths are exercised.
type fakeBlob struct {
	fail    bool
	puts    int
	removed []string
}

func (f *fakeBlob) Put(_ context.Context, name string, _ []byte) (string, error) {
	if f.fail {
		return "", errors.New("blob store down")
	}
	f.puts++
	return "https://blobs.test/" + name, nil
}

func (f *fakeBlob) Remove(_ context.Context, url string) error {
	f.removed = append(f.removed, url)
	return nil
}

type testEnv struct {
	repo   *db.Repo
	blobs  *fakeBlob
	claims *Coordinator
	items  *ItemService
	users  *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	conn, err := gorm.Open(dial, &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	require.NoError(t, db.Migrate(conn), "migrate")

	repo := db.NewRepo(conn)
	blobs := &fakeBlob{}
	log := zap.NewNop().Sugar()
	return &testEnv{
		repo:   repo,
		blobs:  blobs,
		claims: NewCoordinator(repo, blobs, log),
		items:  NewItemService(repo, blobs, log),
		users:  NewUserService(repo, blobs, log, []string{"admin@example.com"}),
	}
}

func (e *testEnv) seedUser(t *testing.T, role string) Principal {
	t.Helper()
	u := &models.User{
		ID:           uuid.NewString(),
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		Phone:        uuid.NewString(),
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, e.repo.CreateUser(context.Background(), u))
	return Principal{ID: u.ID, Role: u.Role}
}

func (e *testEnv) seedItem(t *testing.T, owner Principal, status string) *models.Item {
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
		UserID:           owner.ID,
	}
	require.NoError(t, e.repo.CreateItem(context.Background(), it))
	return it
}

// checkClaimLinkage asserts that every item with a set claimedBy has a
// backing claim record by that user.
func (e *testEnv) checkClaimLinkage(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	items, err := e.repo.ListItems(ctx)
	require.NoError(t, err)
	for _, it := range items {
		if it.ClaimedBy == nil {
			continue
		}
		has, err := e.repo.HasClaim(ctx, it.ID, *it.ClaimedBy)
		require.NoError(t, err)
		require.True(t, has, "item %s has claimedBy=%s but no claim record", it.ID, *it.ClaimedBy)
	}
}

func (e *testEnv) countClaims(t *testing.T) int {
	t.Helper()
	cs, err := e.repo.ListClaims(context.Background())
	require.NoError(t, err)
	return len(cs)
}
