// Package category serves the per-category views mounted at /expenses and
// /incomes.
package category

import (
	"net/http"

	"github.com/KAsare1/fintrack-server/cmd/models"
	"github.com/KAsare1/fintrack-server/cmd/utils"
	"github.com/KAsare1/fintrack-server/service/transactions"
	"github.com/gorilla/mux"
)

type Handler struct {
	store    *transactions.Store
	category models.Category
	prefix   string
	key      string
	sheet    string
}

func NewExpenseHandler(store *transactions.Store) *Handler {
	return &Handler{
		store:    store,
		category: models.CategoryExpense,
		prefix:   "/expenses",
		key:      "expenses",
		sheet:    "Expense Data",
	}
}

func NewIncomeHandler(store *transactions.Store) *Handler {
	return &Handler{
		store:    store,
		category: models.CategoryIncome,
		prefix:   "/incomes",
		key:      "incomes",
		sheet:    "Income Data",
	}
}

func (h *Handler) RegisterRoutes(router *mux.Router, auth mux.MiddlewareFunc) {
	categoryRouter := router.PathPrefix(h.prefix).Subrouter()
	categoryRouter.Use(auth)

	categoryRouter.HandleFunc("", h.List).Methods("GET")
	categoryRouter.HandleFunc("/count", h.Count).Methods("GET")
	categoryRouter.HandleFunc("/sum", h.Sum).Methods("GET")
	categoryRouter.HandleFunc("/export", h.Export).Methods("GET")
}

func (h *Handler) filter(r *http.Request) (transactions.Filter, error) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		return transactions.Filter{}, err
	}
	return transactions.Filter{OwnerID: userID, Category: h.category}, nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f, err := h.filter(r)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	txs, err := h.store.List(r.Context(), f, transactions.OldestFirst)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{h.key: txs})
}

func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	f, err := h.filter(r)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	n, err := h.store.Count(r.Context(), f)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]int64{"count": n})
}

func (h *Handler) Sum(w http.ResponseWriter, r *http.Request) {
	f, err := h.filter(r)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	total, err := h.store.Sum(r.Context(), f)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"totalAmount": total})
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	f, err := h.filter(r)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	txs, err := h.store.List(r.Context(), f, transactions.OldestFirst)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	transactions.ServeWorkbook(w, r, h.key+".xlsx", h.sheet, txs)
}
