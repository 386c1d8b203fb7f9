package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-ddd-auth-service/internal/application"
	"github.com/oksasatya/go-ddd-auth-service/internal/domain/entity"
	"github.com/oksasatya/go-ddd-auth-service/internal/domain/repository"
	"github.com/oksasatya/go-ddd-auth-service/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-auth-service/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-auth-service/pkg/helpers"
)

type envelope struct {
	Status  int               `json:"status"`
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

type authData struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

// brokenRepo fails every call the way an unreachable database would.
type brokenRepo struct{ err error }

func (r brokenRepo) Create(context.Context, *entity.Account) error { return r.err }
func (r brokenRepo) GetByID(context.Context, string) (*entity.Account, error) {
	return nil, r.err
}
func (r brokenRepo) GetByEmail(context.Context, string) (*entity.Account, error) {
	return nil, r.err
}

func newTestServer(t *testing.T) (*gin.Engine, *helpers.TokenIssuer) {
	t.Helper()
	return newTestServerWithRepo(t, memory.NewAccountRepository())
}

func newTestServerWithRepo(t *testing.T, repo repository.AccountRepository) (*gin.Engine, *helpers.TokenIssuer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hasher, err := helpers.NewPasswordHasher(bcrypt.MinCost, 2)
	require.NoError(t, err)
	tokens, err := helpers.NewTokenIssuer("handler-secret")
	require.NoError(t, err)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := application.NewService(repo, hasher, tokens, nil, logger)
	h := NewAuthHandler(svc, logger)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.POST("/api/auth/signup", h.Signup)
	r.POST("/api/auth/signin", h.Signin)
	r.GET("/api/auth/me", middleware.BearerAuth(svc), h.Me)
	return r, tokens
}

func do(t *testing.T, r http.Handler, method, path, body string, header ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w, env
}

func TestAuthHandler_Scenarios(t *testing.T) {
	r, tokens := newTestServer(t)
	const annSignup = `{"name":"Ann","email":"ann@x.com","password":"secret1"}`

	// 1. fresh signup
	w, env := do(t, r, http.MethodPost, "/api/auth/signup", annSignup)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	var created authData
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Ann", created.User.Name)
	assert.Equal(t, "ann@x.com", created.User.Email)
	claims, err := tokens.Verify(created.Token, time.Now())
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, claims.Subject)

	// 2. repeat
	w, env = do(t, r, http.MethodPost, "/api/auth/signup", annSignup)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists.", env.Message)

	// 3. wrong password
	w3, env3 := do(t, r, http.MethodPost, "/api/auth/signin", `{"email":"ann@x.com","password":"wrong"}`)
	assert.Equal(t, http.StatusBadRequest, w3.Code)
	assert.Equal(t, "Invalid credentials.", env3.Message)

	// 4. correct password
	w, env = do(t, r, http.MethodPost, "/api/auth/signin", `{"email":"ann@x.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var signedIn authData
	require.NoError(t, json.Unmarshal(env.Data, &signedIn))
	claims, err = tokens.Verify(signedIn.Token, time.Now())
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, claims.Subject)

	// 5. unknown email: same status and message as 3
	w5, env5 := do(t, r, http.MethodPost, "/api/auth/signin", `{"email":"nobody@x.com","password":"anything"}`)
	assert.Equal(t, w3.Code, w5.Code)
	assert.Equal(t, env3.Message, env5.Message)
	assert.Equal(t, env3.Error, env5.Error)

	// me
	w, env = do(t, r, http.MethodGet, "/api/auth/me", "", "Authorization", "Bearer "+signedIn.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, string(env.Data), created.User.ID)
}

func TestAuthHandler_SignupValidation(t *testing.T) {
	r, _ := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		fields []string
	}{
		{name: "missing name", body: `{"email":"ann@x.com","password":"secret1"}`, fields: []string{"name"}},
		{name: "bad email", body: `{"name":"Ann","email":"ann","password":"secret1"}`, fields: []string{"email"}},
		{name: "short password", body: `{"name":"Ann","email":"ann@x.com","password":"123"}`, fields: []string{"password"}},
		{name: "broken json", body: `{"name":`, fields: []string{"payload"}},
		{name: "wrong types", body: `{"name":1,"email":"ann@x.com","password":"secret1"}`, fields: []string{"payload"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, r, http.MethodPost, "/api/auth/signup", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, env.Success)
			for _, f := range tt.fields {
				assert.Contains(t, env.Error, f)
			}
		})
	}
}

func TestAuthHandler_SigninValidation(t *testing.T) {
	r, _ := newTestServer(t)
	w, env := do(t, r, http.MethodPost, "/api/auth/signin", `{"email":"ann@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "password")
}

func TestAuthHandler_MeRequiresToken(t *testing.T) {
	r, _ := newTestServer(t)
	w, env := do(t, r, http.MethodGet, "/api/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)

	w, _ = do(t, r, http.MethodGet, "/api/auth/me", "", "Authorization", "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_InternalFailuresStayGeneric(t *testing.T) {
	r, _ := newTestServerWithRepo(t, brokenRepo{err: errors.New("db down: dial tcp 10.0.0.3:5432")})

	tests := []struct {
		name string
		path string
		body string
		want string
	}{
		{name: "signup", path: "/api/auth/signup", body: `{"name":"Ann","email":"ann@x.com","password":"secret1"}`, want: "Server error during signup."},
		{name: "signin", path: "/api/auth/signin", body: `{"email":"ann@x.com","password":"secret1"}`, want: "Server error during signin."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, r, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.want, env.Message)
			assert.Empty(t, env.Error)
			assert.NotContains(t, w.Body.String(), "db down")
			assert.NotContains(t, w.Body.String(), "5432")
		})
	}
}
