package summary

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KAsare1/fintrack-server/cmd/models"
	"github.com/KAsare1/fintrack-server/cmd/utils"
	"github.com/KAsare1/fintrack-server/db/dbtest"
	"github.com/KAsare1/fintrack-server/service/transactions"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

type testEnv struct {
	router *mux.Router
	store  *transactions.Store
	owner  uuid.UUID
	token  string
}

func newTestEnv(t *testing.T, gen Generator) *testEnv {
	t.Helper()
	conn := dbtest.New(t)
	store := transactions.NewStore(conn)
	tokens := utils.NewTokenService("test-secret", time.Hour)

	u := &models.User{Email: "ada@example.com", Name: "Ada", PasswordHash: "x"}
	require.NoError(t, conn.Create(u).Error)
	token, err := tokens.Issue(u.ID)
	require.NoError(t, err)

	h := NewHandler(store, gen, "₹")
	h.now = func() time.Time { return time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC) }

	router := mux.NewRouter()
	h.RegisterRoutes(router.PathPrefix("/api/v1").Subrouter(), utils.AuthMiddleware(tokens))
	return &testEnv{router: router, store: store, owner: u.ID, token: token}
}

func (e *testEnv) add(t *testing.T, title string, amount int64, category models.Category, date string) {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	require.NoError(t, e.store.Create(context.Background(), &models.Transaction{
		Title: title, Amount: decimal.NewFromInt(amount), Category: category, Icon: "💰", Date: d, UserID: e.owner,
	}))
}

func (e *testEnv) get(t *testing.T, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/ai-summary", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestGetSummary(t *testing.T) {
	gen := &fakeGenerator{reply: sampleReply}
	env := newTestEnv(t, gen)
	env.add(t, "Coffee", 150, models.CategoryExpense, "2024-03-01")
	env.add(t, "Salary", 2000, models.CategoryIncome, "2024-03-10")

	rec := env.get(t, env.token)
	require.Equal(t, http.StatusOK, rec.Code)

	var body summaryResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, sampleReply, body.Result)
	assert.Equal(t, "Savings rate: 52.5%", body.Sections.SavingsRate)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "(March):\n- ₹2000 for Salary\n- ₹150 for Coffee\n")
}

func TestGetSummary_NoTransactions(t *testing.T) {
	gen := &fakeGenerator{reply: "unused"}
	env := newTestEnv(t, gen)

	rec := env.get(t, env.token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "No transactions found.", body["error"])
	assert.Empty(t, gen.prompts)
}

func TestGetSummary_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{err: errors.New("provider unavailable")})
	env.add(t, "Coffee", 150, models.CategoryExpense, "2024-03-01")

	rec := env.get(t, env.token)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "provider unavailable", body["error"])
}

func TestGetSummary_RequiresAuth(t *testing.T) {
	env := newTestEnv(t, &fakeGenerator{})

	assert.Equal(t, http.StatusUnauthorized, env.get(t, "").Code)
	assert.Equal(t, http.StatusForbidden, env.get(t, "bad").Code)
}
