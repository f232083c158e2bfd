package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/dbx"
	"github.com/dmitrijs2005/storefront/internal/server/events"
	"github.com/dmitrijs2005/storefront/internal/server/lockout"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	catalogrepo "github.com/dmitrijs2005/storefront/internal/server/repositories/catalog"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/resettickets"
	usersrepo "github.com/dmitrijs2005/storefront/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// plainHasher keeps tests fast; bcrypt itself is covered in package passwords.
type plainHasher struct {
	hashErr error
}

func (h plainHasher) Hash(p string) (string, error) {
	if h.hashErr != nil {
		return "", h.hashErr
	}
	return "h:" + p, nil
}

func (h plainHasher) Compare(p, hashed string) bool {
	return hashed == "h:"+p
}

// slowHasher widens the window between the lockout read and the count so
// concurrent logins overlap the way bcrypt makes them overlap.
type slowHasher struct {
	plainHasher
	delay time.Duration
}

func (h slowHasher) Compare(p, hashed string) bool {
	time.Sleep(h.delay)
	return h.plainHasher.Compare(p, hashed)
}

type fakeUsersRepo struct {
	mu sync.Mutex

	users map[string]*models.User

	findErr   error
	createErr error
	updateErr error
	touchErr  error

	findCalls   int
	createCalls int
	updates     map[string]string
	touched     map[string]time.Time
}

func newFakeUsersRepo(users ...*models.User) *fakeUsersRepo {
	r := &fakeUsersRepo{
		users:   map[string]*models.User{},
		updates: map[string]string{},
		touched: map[string]time.Time{},
	}
	for _, u := range users {
		r.users[u.Username] = u
	}
	return r
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.users[u.Username]; ok {
		return nil, common.ErrorAlreadyExists
	}
	cp := *u
	cp.ID = "id-" + u.Username
	f.users[u.Username] = &cp
	return &cp, nil
}

func (f *fakeUsersRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.users[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, username string, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.users[username]
	if !ok {
		return common.ErrorNotFound
	}
	u.Password = hash
	f.updates[username] = hash
	return nil
}

func (f *fakeUsersRepo) TouchLastLogin(ctx context.Context, username string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.touchErr != nil {
		return f.touchErr
	}
	if u, ok := f.users[username]; ok {
		t := at
		u.LastLogin = &t
	}
	f.touched[username] = at
	return nil
}

func (f *fakeUsersRepo) finds() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findCalls
}

type fakeTicketsRepo struct {
	redeemed map[string]string
	err      error
}

func (f *fakeTicketsRepo) Redeem(ctx context.Context, jti, username string) error {
	if f.err != nil {
		return f.err
	}
	if f.redeemed == nil {
		f.redeemed = map[string]string{}
	}
	if _, ok := f.redeemed[jti]; ok {
		return common.ErrTokenRedeemed
	}
	f.redeemed[jti] = username
	return nil
}

type fakeCatalogRepo struct {
	categories []models.Category
	products   []models.Product
	sellers    map[string]*models.Seller

	listErr   error
	sellerErr error

	lastCategory string
}

func (f *fakeCatalogRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.categories, nil
}

func (f *fakeCatalogRepo) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	f.lastCategory = category
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Product
	for _, p := range f.products {
		if category == "" || p.Category == category {
			cp := p
			cp.Images = append([]string(nil), p.Images...)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	for _, p := range f.products {
		if p.ID == id {
			cp := p
			cp.Images = append([]string(nil), p.Images...)
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCatalogRepo) GetSeller(ctx context.Context, id string) (*models.Seller, error) {
	if f.sellerErr != nil {
		return nil, f.sellerErr
	}
	s, ok := f.sellers[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *s
	return &cp, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTicketsRepo
	c *fakeCatalogRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository           { return m.u }
func (m *fakeRepoManager) ResetTickets(db dbx.DBTX) resettickets.Repository { return m.t }
func (m *fakeRepoManager) Catalog(db dbx.DBTX) catalogrepo.Repository       { return m.c }

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// fakeSigner prefixes keys and fails for refs containing "bad".
type fakeSigner struct{}

func (fakeSigner) SignURL(ctx context.Context, ref string) (string, error) {
	if strings.Contains(ref, "bad") {
		return "", errors.New("cannot sign")
	}
	return "signed:" + ref, nil
}

type failingLockoutStore struct{}

func (failingLockoutStore) Load(context.Context, lockout.Key) (lockout.State, error) {
	return lockout.State{}, errors.New("redis down")
}
func (failingLockoutStore) Fail(context.Context, lockout.Key, time.Time) (lockout.State, error) {
	return lockout.State{}, errors.New("redis down")
}
func (failingLockoutStore) Clear(context.Context, lockout.Key) error { return nil }
