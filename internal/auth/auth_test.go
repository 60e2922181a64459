package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Ampere/internal/logger"
)

type fakeRepo struct {
	users   map[string]int
	hashes  map[string]string
	premium map[int]time.Time
	fail    bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]int{}, hashes: map[string]string{}, premium: map[int]time.Time{}}
}

func (f *fakeRepo) CreateUser(_ context.Context, login, _, password string) (int, error) {
	if _, ok := f.users[login]; ok {
		return 0, errors.New("duplicate login")
	}
	id := len(f.users) + 1
	f.users[login] = id
	f.hashes[login] = password
	return id, nil
}

func (f *fakeRepo) GetByLogin(_ context.Context, login string) (int, string, error) {
	if f.fail {
		return 0, "", errors.New("db down")
	}
	return f.users[login], f.hashes[login], nil
}

func (f *fakeRepo) PremiumUntil(_ context.Context, userID int) (*time.Time, error) {
	if f.fail {
		return nil, errors.New("db down")
	}
	until, ok := f.premium[userID]
	if !ok {
		return nil, nil
	}
	return &until, nil
}

func (f *fakeRepo) SetPremiumUntil(_ context.Context, userID int, until time.Time) error {
	f.premium[userID] = until
	return nil
}

func newEnv() (*Authenv, *fakeRepo) {
	r := newFakeRepo()
	return &Authenv{JWTkey: []byte("test-key"), Repo: r, Log: logger.Nop()}, r
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rec
}

func TestRegisterThenLogin(t *testing.T) {
	env, _ := newEnv()

	rec := post(env.RegisterHandler, `{"login":"sparky","email":"s@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)

	rec = post(env.RegisterHandler, `{"login":"sparky","email":"s@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = post(env.AuthHandler, `{"login":"sparky","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := rec.Result().Cookies()[0]
	assert.Equal(t, cookieName, cookie.Name)
	assert.True(t, cookie.HttpOnly)

	rec = post(env.AuthHandler, `{"login":"sparky","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = post(env.AuthHandler, `{"login":"nobody","password":"secret1"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	env, _ := newEnv()
	assert.Equal(t, http.StatusBadRequest, post(env.RegisterHandler, `{`).Code)
	assert.Equal(t, http.StatusBadRequest, post(env.RegisterHandler, `{"login":" ","email":"a@b","password":"secret1"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(env.RegisterHandler, `{"login":"a","email":"a@b","password":"123"}`).Code)
}

func TestAuthMiddleware(t *testing.T) {
	env, _ := newEnv()
	login := post(env.RegisterHandler, `{"login":"sparky","email":"s@example.com","password":"secret1"}`)
	cookie := login.Result().Cookies()[0]

	var gotID int
	var gotLogin string
	h := env.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserID(r.Context())
		gotLogin = Login(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, gotID)
	assert.Equal(t, "sparky", gotLogin)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "not-a-jwt"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPremiumMiddleware(t *testing.T) {
	env, repo := newEnv()
	h := env.PremiumMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	serve := func(userID int) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithUser(req.Context(), userID, "u"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	repo.premium[1] = time.Now().Add(time.Hour)
	repo.premium[2] = time.Now().Add(-time.Hour)

	assert.Equal(t, http.StatusTeapot, serve(1))
	assert.Equal(t, http.StatusPaymentRequired, serve(2))
	assert.Equal(t, http.StatusPaymentRequired, serve(3))
	assert.Equal(t, http.StatusUnauthorized, serve(0))

	repo.fail = true
	assert.Equal(t, http.StatusInternalServerError, serve(1))
}

func TestLimitMiddleware(t *testing.T) {
	l := NewIPRateLimiter(0, 2)
	h := l.LimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
