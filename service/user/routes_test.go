package user

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KAsare1/fintrack-server/cmd/models"
	"github.com/KAsare1/fintrack-server/cmd/utils"
	"github.com/KAsare1/fintrack-server/db/dbtest"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingMailer struct {
	sent chan string
}

func (m *recordingMailer) SendWelcome(email, name string) error {
	m.sent <- email
	return nil
}

type testEnv struct {
	router *mux.Router
	db     *gorm.DB
	tokens *utils.TokenService
	mailer *recordingMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn := dbtest.New(t)
	tokens := utils.NewTokenService("test-secret", time.Hour)
	mailer := &recordingMailer{sent: make(chan string, 8)}

	router := mux.NewRouter()
	NewHandler(NewStore(conn), tokens, mailer).
		RegisterRoutes(router.PathPrefix("/api/v1").Subrouter(), utils.AuthMiddleware(tokens))

	return &testEnv{router: router, db: conn, tokens: tokens, mailer: mailer}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

var ada = map[string]string{
	"email":        "ada@example.com",
	"password":     "s3cret",
	"name":         "Ada",
	"profileImage": "https://example.com/ada.png",
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/user/signup", ada, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "User created successfully", decode(t, rec)["message"])

	var stored models.User
	require.NoError(t, env.db.Where("email = ?", "ada@example.com").First(&stored).Error)
	assert.NotEqual(t, "s3cret", stored.PasswordHash)
	assert.True(t, stored.CheckPassword("s3cret"))

	select {
	case email := <-env.mailer.sent:
		assert.Equal(t, "ada@example.com", email)
	case <-time.After(time.Second):
		t.Fatal("welcome email was not sent")
	}
}

func TestSignup_DuplicateEmailIsRejected(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/v1/user/signup", ada, "").Code)

	dup := map[string]string{"email": "ADA@example.com", "password": "other", "name": "Imposter", "profileImage": ""}
	rec := env.do(t, http.MethodPost, "/api/v1/user/signup", dup, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "User already exists", decode(t, rec)["error"])

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestStore_CreateDuplicateReturnsErrEmailTaken(t *testing.T) {
	env := newTestEnv(t)
	store := NewStore(env.db)

	first := &models.User{Email: "dup@example.com", Name: "One", PasswordHash: "x"}
	require.NoError(t, store.Create(context.Background(), first))

	second := &models.User{Email: "dup@example.com", Name: "Two", PasswordHash: "y"}
	assert.ErrorIs(t, store.Create(context.Background(), second), ErrEmailTaken)
}

func TestSignup_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		body  map[string]string
		field string
	}{
		{"missing email", map[string]string{"password": "x", "name": "A"}, "email"},
		{"missing profileImage", map[string]string{"email": "a@example.com", "password": "x", "name": "A"}, "profileImage"},
		{"malformed email", map[string]string{"email": "nope", "password": "x", "name": "A"}, "email"},
		{"missing password", map[string]string{"email": "a@example.com", "name": "A"}, "password"},
		{"empty name", map[string]string{"email": "a@example.com", "password": "x", "name": " "}, "name"},
		{"name too long", map[string]string{"email": "a@example.com", "password": "x", "name": string(bytes.Repeat([]byte("n"), 101))}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/user/signup", tt.body, "")
			require.Equal(t, http.StatusBadRequest, rec.Code)
			fields, ok := decode(t, rec)["fields"].(map[string]interface{})
			require.True(t, ok)
			assert.Contains(t, fields, tt.field)
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSignup_MalformedBody(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/signup", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSigninThenMe(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/v1/user/signup", ada, "").Code)

	rec := env.do(t, http.MethodPost, "/api/v1/user/signin", map[string]string{
		"email":    "ada@example.com",
		"password": "s3cret",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var signin signinResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&signin))
	assert.Equal(t, "User signed in successfully", signin.Message)
	assert.Equal(t, "ada@example.com", signin.User.Email)
	require.NotEmpty(t, signin.Token)

	rec = env.do(t, http.MethodGet, "/api/v1/user/me", nil, signin.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		User map[string]interface{} `json:"user"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&me))
	assert.Equal(t, signin.User.ID.String(), me.User["id"])
	assert.Equal(t, "Ada", me.User["name"])
	assert.Equal(t, "https://example.com/ada.png", me.User["profileImage"])
	assert.NotContains(t, me.User, "password")
	assert.NotContains(t, me.User, "passwordHash")
}

func TestSignin_WrongCredentials(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/v1/user/signup", ada, "").Code)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "ada@example.com", "guess"},
		{"unknown email", "nobody@example.com", "s3cret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/user/signin", map[string]string{
				"email":    tt.email,
				"password": tt.password,
			}, "")
			require.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, "Incorrect email or password", decode(t, rec)["error"])
		})
	}
}

func TestSignup_EmptyProfileImageIsAccepted(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/user/signup", map[string]string{
		"email": "grace@example.com", "password": "x", "name": "Grace", "profileImage": "",
	}, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestSignin_Validation(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/v1/user/signup", ada, "").Code)

	tests := []struct {
		name  string
		body  map[string]string
		field string
	}{
		{"malformed email", map[string]string{"email": "nope", "password": "x"}, "email"},
		{"missing email", map[string]string{"password": "x"}, "email"},
		{"missing password", map[string]string{"email": "ada@example.com"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/user/signin", tt.body, "")
			require.Equal(t, http.StatusBadRequest, rec.Code)
			fields, ok := decode(t, rec)["fields"].(map[string]interface{})
			require.True(t, ok)
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestMe(t *testing.T) {
	env := newTestEnv(t)

	ghost, err := env.tokens.Issue(uuid.New())
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"bad token", "garbage", http.StatusForbidden},
		{"unknown user", ghost, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodGet, "/api/v1/user/me", nil, tt.token)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
