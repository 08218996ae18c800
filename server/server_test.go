package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"user-registry/confs"
	"user-registry/entities"
	"user-registry/handlers"
	"user-registry/services"
	"user-registry/usecases"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]entities.User
	err    error
}

func (r *fakeUserRepo) Create(_ context.Context, user *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.nextID++
	user.ID = r.nextID
	r.rows[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) ([]entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	users := []entities.User{}
	if u, ok := r.rows[id]; ok {
		users = append(users, u)
	}
	return users, nil
}

func (r *fakeUserRepo) Latest(_ context.Context) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[r.nextID]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	delete(r.rows, id)
	return nil
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func newTestRouter(t *testing.T, pingErr error) (*gin.Engine, *fakeUserRepo) {
	t.Helper()
	repo := &fakeUserRepo{rows: map[int64]entities.User{}}
	uc := usecases.NewUserUseCase(repo, services.NewPasswordHasher(bcrypt.MinCost))

	log := logrus.New()
	log.SetOutput(io.Discard)

	router, err := NewRouter(uc, fakePinger{err: pingErr}, log)
	require.NoError(t, err)
	return router, repo
}

func do(router http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func annForm() url.Values {
	return url.Values{
		"name":        {"Ann"},
		"email":       {"a@x.com"},
		"address":     {"1 Rd"},
		"phonenumber": {"555"},
		"password":    {"pw1"},
	}
}

func TestForms(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := do(router, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/submit"`)

	w = do(router, http.MethodGet, "/get-data", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="input_id"`)
}

func TestSubmitLookupDelete(t *testing.T) {
	router, repo := newTestRouter(t, nil)

	w := do(router, http.MethodPost, "/submit", annForm())
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<td>1</td>")
	assert.Contains(t, body, "a@x.com")
	assert.NotContains(t, body, "$2a$")

	stored := repo.rows[1]
	assert.NotEqual(t, "pw1", stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordHash)

	w = do(router, http.MethodPost, "/get-data", url.Values{"input_id": {"1"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ann")
	assert.Contains(t, w.Body.String(), `href="/delete/1"`)

	w = do(router, http.MethodGet, "/delete/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/delete/1"`)

	w = do(router, http.MethodPost, "/delete/1", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/get-data", w.Header().Get("Location"))

	w = do(router, http.MethodPost, "/get-data", url.Values{"input_id": {"1"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No user found with ID 1")
}

func TestSubmit_MissingField(t *testing.T) {
	router, repo := newTestRouter(t, nil)

	form := annForm()
	form.Del("phonenumber")

	w := do(router, http.MethodPost, "/submit", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing required field: phonenumber")
	assert.Contains(t, w.Body.String(), `value="Ann"`)
	assert.Empty(t, repo.rows)
}

func TestSubmit_StoreFailureIsGeneric(t *testing.T) {
	router, repo := newTestRouter(t, nil)
	repo.err = errors.New("pq: password authentication failed for user app")

	w := do(router, http.MethodPost, "/submit", annForm())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password authentication")
	assert.Contains(t, w.Body.String(), "Something went wrong")
}

func TestLookup_InvalidID(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := do(router, http.MethodPost, "/get-data", url.Values{"input_id": {"abc"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPost, "/get-data", url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLookup_NeverCreated(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := do(router, http.MethodPost, "/get-data", url.Values{"input_id": {"42"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No user found with ID 42")
}

func TestDelete_NonIntegerID(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := do(router, http.MethodGet, "/delete/abc", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(router, http.MethodPost, "/delete/abc", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDelete_MissingIDRedirects(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := do(router, http.MethodPost, "/delete/77", nil)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	w := do(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK"}`, w.Body.String())

	router, _ = newTestRouter(t, errors.New("connection refused"))
	w = do(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := do(router, http.MethodGet, "/", nil)
	assert.NotEmpty(t, w.Header().Get(handlers.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(handlers.RequestIDHeader, "6f1c2a4e-9c1b-4a55-8e43-0d1f3c0b7a21")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "6f1c2a4e-9c1b-4a55-8e43-0d1f3c0b7a21", w.Header().Get(handlers.RequestIDHeader))
}

func TestSubmit_PasswordTooLong(t *testing.T) {
	router, repo := newTestRouter(t, nil)

	long := strings.Repeat("p", 80)
	form := annForm()
	form.Set("password", long)

	w := do(router, http.MethodPost, "/submit", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "password must be at most 72 bytes")
	assert.Contains(t, body, `value="Ann"`)
	assert.Contains(t, body, `<input type="password" name="password" required>`)
	assert.NotContains(t, body, long)
	assert.Empty(t, repo.rows)
}

func TestSubmit_WhitespacePasswordIsAccepted(t *testing.T) {
	router, repo := newTestRouter(t, nil)

	form := annForm()
	form.Set("password", "   ")

	w := do(router, http.MethodPost, "/submit", form)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, repo.rows, 1)
}

func TestDelete_SignedIDIsNotFound(t *testing.T) {
	router, repo := newTestRouter(t, nil)

	w := do(router, http.MethodPost, "/submit", annForm())
	require.Equal(t, http.StatusOK, w.Code)

	for _, path := range []string{"/delete/-1", "/delete/+1"} {
		w = do(router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)

		w = do(router, http.MethodPost, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
	assert.Len(t, repo.rows, 1)

	w = do(router, http.MethodGet, "/delete/0", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

type fakeDatabase struct {
	closed int
}

func (d *fakeDatabase) GetDB() *gorm.DB { return nil }
func (d *fakeDatabase) Ping(context.Context) error { return nil }
func (d *fakeDatabase) Close() error {
	d.closed++
	return nil
}

func newTestServer(addr string) (*Server, *fakeDatabase) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	database := &fakeDatabase{}
	return &Server{
		app: gin.New(),
		db:  database,
		cfg: &confs.Config{HTTPAddr: addr, ShutdownTimeout: time.Second},
		log: log,
	}, database
}

func TestStart_ListenFailureClosesDatabase(t *testing.T) {
	srv, database := newTestServer("127.0.0.1:-1")

	err := srv.Start(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, database.closed)
}

func TestStart_ShutdownClosesDatabase(t *testing.T) {
	srv, database := newTestServer("127.0.0.1:0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, srv.Start(ctx))
	assert.Equal(t, 1, database.closed)
}
