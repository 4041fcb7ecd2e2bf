package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"receitas/internal/adapters/api"
	"receitas/internal/domain/account"
	"receitas/internal/domain/admin"
	"receitas/internal/domain/announcement"
	"receitas/internal/domain/recipe"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

// tokenSeq returns tokens tok-1, tok-2, ...
func tokenSeq() func() (string, error) {
	n := 0
	return func() (string, error) {
		n++
		return fmt.Sprintf("tok-%d", n), nil
	}
}

// --- Session store ---

type fakeSessions struct {
	mu      sync.Mutex
	records map[string]account.Session
	saveErr error
	getErr  map[string]error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{records: map[string]account.Session{}}
}

func (f *fakeSessions) Get(_ context.Context, token string) (account.Session, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.getErr[token]; err != nil {
		return account.Session{}, false, err
	}
	s, ok := f.records[token]
	return s, ok, nil
}

func (f *fakeSessions) Save(_ context.Context, token string, s account.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records[token] = s
	return nil
}

func (f *fakeSessions) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, token)
	return nil
}

func (f *fakeSessions) Update(_ context.Context, token string, fn func(*account.Session) bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.records[token]
	if !ok {
		return false, nil
	}
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	if !fn(&s) {
		return false, nil
	}
	if f.saveErr != nil {
		return false, f.saveErr
	}
	if s.IsEmpty() {
		delete(f.records, token)
	} else {
		f.records[token] = s
	}
	return true, nil
}

// --- Login API ---

type loginCall struct{ email, password string }

type fakeLoginAPI struct {
	mu      sync.Mutex
	calls   []loginCall
	hasPaid bool
	err     error
}

func (f *fakeLoginAPI) Login(_ context.Context, email, password string) (api.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, loginCall{email, password})
	if f.err != nil {
		return api.LoginResponse{}, f.err
	}
	return api.LoginResponse{Email: email, HasPaid: f.hasPaid, Message: "Login realizado"}, nil
}

// gatedLoginAPI parks every Login until release is closed.
type gatedLoginAPI struct {
	started chan struct{}
	release chan struct{}
	hasPaid bool
}

func (g *gatedLoginAPI) Login(_ context.Context, email, _ string) (api.LoginResponse, error) {
	g.started <- struct{}{}
	<-g.release
	return api.LoginResponse{Email: email, HasPaid: g.hasPaid}, nil
}

// --- Register API ---

type fakeRegisterAPI struct {
	status int
	err    error
}

func (f fakeRegisterAPI) Register(context.Context, string, string) (int, error) {
	return f.status, f.err
}

// --- Admin read API ---

type fakeAdminReads struct {
	failOn string
}

func (f fakeAdminReads) fail(name string) error {
	if f.failOn == name {
		return &api.Error{Status: 401, Message: "Nao autorizado"}
	}
	return nil
}

func (f fakeAdminReads) ListAdminRecipes(context.Context, string, api.AdminRecipeFilter) (api.List[recipe.Recipe], error) {
	return api.List[recipe.Recipe]{Items: []recipe.Recipe{{ID: 1, Title: "Bolo"}}}, f.fail("recipes")
}

func (f fakeAdminReads) GetAdminStats(context.Context, string) (admin.Stats, error) {
	return admin.Stats{}, f.fail("stats")
}

func (f fakeAdminReads) ListAdminUsers(context.Context, string) (api.List[admin.User], error) {
	return api.List[admin.User]{Items: []admin.User{}}, f.fail("users")
}

func (f fakeAdminReads) ListAdminPayments(context.Context, string) (api.List[admin.Payment], error) {
	return api.List[admin.Payment]{Items: []admin.Payment{}}, f.fail("payments")
}

// --- Checkout API ---

// blockingCheckout holds every call until release is closed.
type blockingCheckout struct {
	started chan struct{}
	release chan struct{}
	url     string
	err     error

	mu    sync.Mutex
	calls int
}

func (b *blockingCheckout) CreateCheckoutSession(context.Context) (api.CheckoutSession, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	if b.started != nil {
		b.started <- struct{}{}
	}
	if b.release != nil {
		<-b.release
	}
	return api.CheckoutSession{CheckoutURL: b.url}, b.err
}

func (b *blockingCheckout) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

// --- Announcement store ---

type fakeBoard struct {
	items map[string]announcement.Announcement
}

func newFakeBoard() *fakeBoard {
	return &fakeBoard{items: map[string]announcement.Announcement{}}
}

func (f *fakeBoard) Save(_ context.Context, a announcement.Announcement) error {
	f.items[a.ID] = a
	return nil
}

func (f *fakeBoard) Delete(_ context.Context, id string) error {
	delete(f.items, id)
	return nil
}

func (f *fakeBoard) Count(context.Context) (int, error) {
	return len(f.items), nil
}

// --- Admin write API ---

type fakeAdminWrites struct {
	created  []recipe.Payload
	updated  map[int64]recipe.Payload
	deleted  []int64
	users    map[string]admin.UserUpdate
	uploaded []string
	err      error
}

func newFakeAdminWrites() *fakeAdminWrites {
	return &fakeAdminWrites{updated: map[int64]recipe.Payload{}, users: map[string]admin.UserUpdate{}}
}

func (f *fakeAdminWrites) CreateAdminRecipe(_ context.Context, _ string, p recipe.Payload) (recipe.Recipe, error) {
	if f.err != nil {
		return recipe.Recipe{}, f.err
	}
	f.created = append(f.created, p)
	cat := p.Category
	return recipe.Recipe{ID: 99, Title: p.Title, Content: p.Content, Category: &cat, IsPublic: p.IsPublic, ImageURL: p.ImageURL}, nil
}

func (f *fakeAdminWrites) UpdateAdminRecipe(_ context.Context, _ string, id int64, p recipe.Payload) (recipe.Recipe, error) {
	if f.err != nil {
		return recipe.Recipe{}, f.err
	}
	f.updated[id] = p
	cat := p.Category
	return recipe.Recipe{ID: id, Title: p.Title, Content: p.Content, Category: &cat, IsPublic: p.IsPublic}, nil
}

func (f *fakeAdminWrites) DeleteAdminRecipe(_ context.Context, _ string, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeAdminWrites) UpdateAdminUser(_ context.Context, _, id string, u admin.UserUpdate) (admin.User, error) {
	if f.err != nil {
		return admin.User{}, f.err
	}
	f.users[id] = u
	return admin.User{ID: admin.ID(id), HasPaid: u.HasPaid != nil && *u.HasPaid}, nil
}

func (f *fakeAdminWrites) UploadAdminImage(_ context.Context, _, filename string, file io.Reader) (api.ImageUpload, error) {
	if f.err != nil {
		return api.ImageUpload{}, f.err
	}
	data, _ := io.ReadAll(file)
	f.uploaded = append(f.uploaded, filename+":"+string(data))
	return api.ImageUpload{URL: "https://cdn.example.com/" + filename}, nil
}

var errTransport = errors.New("dial tcp: connection refused")
