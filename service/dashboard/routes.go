package dashboard

import (
	"net/http"

	"github.com/KAsare1/fintrack-server/cmd/models"
	"github.com/KAsare1/fintrack-server/cmd/utils"
	"github.com/KAsare1/fintrack-server/service/transactions"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const recentLimit = 5

type DashboardHandler struct {
	store *transactions.Store
}

func NewDashboardHandler(store *transactions.Store) *DashboardHandler {
	return &DashboardHandler{store: store}
}

type DashboardStats struct {
	Balance          decimal.Decimal      `json:"balance"`
	TotalIncome      decimal.Decimal      `json:"totalIncome"`
	TotalExpenses    decimal.Decimal      `json:"totalExpenses"`
	TransactionCount int64                `json:"transactionCount"`
	IncomeCount      int64                `json:"incomeCount"`
	ExpenseCount     int64                `json:"expenseCount"`
	Recent           []models.Transaction `json:"recent"`
}

// RegisterRoutes registers dashboard-related routes with Gorilla Mux
func (h *DashboardHandler) RegisterRoutes(router *mux.Router, auth mux.MiddlewareFunc) {
	dashboardRouter := router.PathPrefix("/dashboard").Subrouter()
	dashboardRouter.Use(auth)
	dashboardRouter.HandleFunc("/stats", h.GetDashboardStats).Methods("GET")
}

func (h *DashboardHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	ctx := r.Context()

	totals, err := h.store.Balance(ctx, userID)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	stats := DashboardStats{
		Balance:       totals.Balance,
		TotalIncome:   totals.TotalIncome,
		TotalExpenses: totals.TotalExpenses,
	}

	if stats.IncomeCount, err = h.store.Count(ctx, transactions.Filter{OwnerID: userID, Category: models.CategoryIncome}); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if stats.ExpenseCount, err = h.store.Count(ctx, transactions.Filter{OwnerID: userID, Category: models.CategoryExpense}); err != nil {
		utils.WriteError(w, r, err)
		return
	}
	stats.TransactionCount = stats.IncomeCount + stats.ExpenseCount

	if stats.Recent, err = h.store.Recent(ctx, transactions.Filter{OwnerID: userID}, recentLimit); err != nil {
		utils.WriteError(w, r, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}
