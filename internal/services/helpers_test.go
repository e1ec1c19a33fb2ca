package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/bookshelf-backend/internal/data/repos"
	"github.com/yungbote/bookshelf-backend/internal/data/repos/testutil"
	types "github.com/yungbote/bookshelf-backend/internal/domain"
	"github.com/yungbote/bookshelf-backend/internal/domain/auth"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
	"github.com/yungbote/bookshelf-backend/internal/realtime"
)

const testSecret = "secret"

// countingAuthorRepo and countingBookRepo record every store access.
type countingAuthorRepo struct {
	repos.AuthorRepo
	calls *atomic.Int64
}

func (r countingAuthorRepo) Create(dbc dbctx.Context, a *types.Author) (*types.Author, error) {
	r.calls.Add(1)
	return r.AuthorRepo.Create(dbc, a)
}

func (r countingAuthorRepo) GetByName(dbc dbctx.Context, name string) (*types.Author, error) {
	r.calls.Add(1)
	return r.AuthorRepo.GetByName(dbc, name)
}

func (r countingAuthorRepo) UpdateBorn(dbc dbctx.Context, a *types.Author, born int) error {
	r.calls.Add(1)
	return r.AuthorRepo.UpdateBorn(dbc, a, born)
}

type countingBookRepo struct {
	repos.BookRepo
	calls *atomic.Int64
}

func (r countingBookRepo) Create(dbc dbctx.Context, b *types.Book) (*types.Book, error) {
	r.calls.Add(1)
	return r.BookRepo.Create(dbc, b)
}

// staleFirstLookupAuthorRepo misses on its first lookup, the way a reader
// does when another writer commits the author just after it looked.
type staleFirstLookupAuthorRepo struct {
	repos.AuthorRepo
	lookups atomic.Int64
}

func (r *staleFirstLookupAuthorRepo) GetByName(dbc dbctx.Context, name string) (*types.Author, error) {
	if r.lookups.Add(1) == 1 {
		return nil, nil
	}
	return r.AuthorRepo.GetByName(dbc, name)
}

type fixture struct {
	ctx      context.Context
	db       *gorm.DB
	log      *logger.Logger
	hub      *realtime.Hub
	users    repos.UserRepo
	authors  repos.AuthorRepo
	books    repos.BookRepo
	calls    *atomic.Int64
	catalog  CatalogService
	auth     AuthService
	accounts UserService
	signer   TokenSigner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	calls := &atomic.Int64{}

	f := &fixture{
		ctx:   context.Background(),
		db:    db,
		log:   log,
		hub:   realtime.NewHub(log, realtime.DefaultBufferSize),
		users: repos.NewUserRepo(db, log),
		calls: calls,
	}
	f.authors = countingAuthorRepo{AuthorRepo: repos.NewAuthorRepo(db, log), calls: calls}
	f.books = countingBookRepo{BookRepo: repos.NewBookRepo(db, log), calls: calls}

	verifier, err := NewBcryptVerifier(testSecret, bcrypt.MinCost)
	require.NoError(t, err)
	f.signer = NewJWTSigner("test-signing-key", time.Hour)

	f.catalog = NewCatalogService(db, log, f.authors, f.books, NewCatalogNotifier(log, f.hub, nil))
	f.auth = NewAuthService(log, f.users, f.signer, verifier)
	f.accounts = NewUserService(log, f.users, verifier)
	return f
}

func (f *fixture) principal(t *testing.T, username string) types.Principal {
	t.Helper()
	return auth.Authenticated(testutil.SeedUser(t, f.ctx, f.db, username))
}

func (f *fixture) countAuthors(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&types.Author{}).Count(&n).Error)
	return n
}

func (f *fixture) countBooks(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&types.Book{}).Count(&n).Error)
	return n
}
