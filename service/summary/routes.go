package summary

import (
	"context"
	"net/http"
	"time"

	"github.com/KAsare1/fintrack-server/cmd/models"
	"github.com/KAsare1/fintrack-server/cmd/utils"
	"github.com/KAsare1/fintrack-server/service/transactions"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/hlog"
)

type TransactionLister interface {
	List(ctx context.Context, f transactions.Filter, order transactions.SortOrder) ([]models.Transaction, error)
}

type Handler struct {
	transactions TransactionLister
	generator    Generator
	currency     string
	now          func() time.Time
}

func NewHandler(lister TransactionLister, generator Generator, currency string) *Handler {
	return &Handler{
		transactions: lister,
		generator:    generator,
		currency:     currency,
		now:          time.Now,
	}
}

type summaryResponse struct {
	Result   string   `json:"result"`
	Sections Sections `json:"sections"`
}

func (h *Handler) RegisterRoutes(router *mux.Router, auth mux.MiddlewareFunc) {
	router.Handle("/ai-summary", auth(http.HandlerFunc(h.GetSummary))).Methods("GET")
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}

	txs, err := h.transactions.List(r.Context(), transactions.Filter{OwnerID: userID}, transactions.NewestFirst)
	if err != nil {
		utils.WriteError(w, r, err)
		return
	}
	if len(txs) == 0 {
		utils.WriteError(w, r, utils.NoData("No transactions found."))
		return
	}

	prompt := BuildPrompt(txs, h.now().Month(), h.currency)
	reply, err := h.generator.Generate(r.Context(), prompt)
	if err != nil {
		utils.WriteError(w, r, utils.Upstream(err))
		return
	}

	hlog.FromRequest(r).Info().
		Int("transactions", len(txs)).
		Int("reply_len", len(reply)).
		Msg("summary generated")
	utils.RespondWithJSON(w, http.StatusOK, summaryResponse{Result: reply, Sections: ParseSections(reply)})
}
