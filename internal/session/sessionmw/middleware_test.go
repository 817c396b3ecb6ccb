package sessionmw_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/linemk/tour-booking/internal/session"
	"github.com/linemk/tour-booking/internal/session/sessionmw"
	"github.com/stretchr/testify/assert"
)

const testSecret = "testsecret"

// fakeStore — хранилище сессий в памяти для тестов.
type fakeStore struct {
	sessions map[string]*session.Session
}

var _ session.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: make(map[string]*session.Session)}
}

func (f *fakeStore) Get(ctx context.Context, id string) (*session.Session, error) {
	sess, ok := f.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return sess, nil
}

func (f *fakeStore) Save(ctx context.Context, sess *session.Session) error {
	f.sessions[sess.ID] = sess
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func TestToken_RoundTrip(t *testing.T) {
	token, err := sessionmw.NewToken("sid-123", testSecret, time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	sid, err := sessionmw.ParseToken(token, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, "sid-123", sid)
}

func TestToken_WrongSecret(t *testing.T) {
	token, err := sessionmw.NewToken("sid-123", testSecret, time.Hour)
	assert.NoError(t, err)

	_, err = sessionmw.ParseToken(token, "othersecret")
	assert.Error(t, err, "token signed with a different secret must be rejected")
}

func TestMiddleware_NewSession(t *testing.T) {
	store := newFakeStore()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	mw := sessionmw.New(logger, store, testSecret, "session", time.Hour, false)

	var got *session.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = sessionmw.FromContext(r.Context())
	})

	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	// без куки заводится свежая сессия, и кука выставляется в ответе
	assert.NotNil(t, got, "handler should see a session in the context")
	assert.False(t, got.IsAuthenticated())

	cookies := rr.Result().Cookies()
	assert.Len(t, cookies, 1, "a session cookie should be set")
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	sid, err := sessionmw.ParseToken(cookies[0].Value, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, got.ID, sid, "cookie should carry the id of the created session")
}

func TestMiddleware_ExistingSession(t *testing.T) {
	store := newFakeStore()
	existing := session.New("sid-42")
	existing.UserID = 7
	existing.AddToCart(5)
	assert.NoError(t, store.Save(context.Background(), existing))

	token, err := sessionmw.NewToken("sid-42", testSecret, time.Hour)
	assert.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	mw := sessionmw.New(logger, store, testSecret, "session", time.Hour, false)

	var got *session.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = sessionmw.FromContext(r.Context())
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	assert.NotNil(t, got)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, []int64{5}, got.Cart)
	assert.Empty(t, rr.Result().Cookies(), "existing session should not reissue the cookie")
}

func TestMiddleware_BadToken(t *testing.T) {
	store := newFakeStore()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	mw := sessionmw.New(logger, store, testSecret, "session", time.Hour, false)

	var got *session.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = sessionmw.FromContext(r.Context())
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "garbage"})
	rr := httptest.NewRecorder()
	mw(next).ServeHTTP(rr, req)

	// битая кука эквивалентна её отсутствию
	assert.NotNil(t, got)
	assert.False(t, got.IsAuthenticated())
	assert.Len(t, rr.Result().Cookies(), 1)
}

func withSession(req *http.Request, sess *session.Session) *http.Request {
	ctx := context.WithValue(req.Context(), sessionmw.SessionKey, sess)
	return req.WithContext(ctx)
}

func TestRequireAuth_RedirectStyle(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	handler := sessionmw.RequireAuth(sessionmw.RejectRedirect)(next)

	req := httptest.NewRequest("GET", "/", nil)
	req = withSession(req, session.New("sid"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.False(t, called, "handler must not run for an anonymous session")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
}

func TestRequireAuth_EmptyBadRequestStyle(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	handler := sessionmw.RequireAuth(sessionmw.RejectEmptyBadRequest)(next)

	req := httptest.NewRequest("POST", "/add_to_cart/5", nil)
	req = withSession(req, session.New("sid"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, rr.Body.String(), "rejection body must be empty")
}

func TestRequireAuth_Authenticated(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	handler := sessionmw.RequireAuth(sessionmw.RejectRedirect)(next)

	sess := session.New("sid")
	sess.UserID = 1

	req := httptest.NewRequest("GET", "/", nil)
	req = withSession(req, sess)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.True(t, called)
}

func TestRequireAdmin_NonAdmin(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	handler := sessionmw.RequireAdmin(sessionmw.RejectEmptyBadRequest)(next)

	sess := session.New("sid")
	sess.UserID = 1 // вошёл, но не администратор

	req := httptest.NewRequest("POST", "/delete_tour/1", nil)
	req = withSession(req, sess)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, rr.Body.String())
}

func TestRequireAdmin_Admin(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })
	handler := sessionmw.RequireAdmin(sessionmw.RejectRedirect)(next)

	sess := session.New("sid")
	sess.UserID = 1
	sess.Admin = true

	req := httptest.NewRequest("GET", "/new_tour", nil)
	req = withSession(req, sess)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.True(t, called)
}
