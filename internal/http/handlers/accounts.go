package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/apiseclab/backend/internal/auth"
	"github.com/apiseclab/backend/internal/http/respond"
	"github.com/apiseclab/backend/internal/models/dto"
	"github.com/apiseclab/backend/internal/service"
)

// AccountHandler owns the account endpoints. All routes sit behind the
// auth middleware, so a principal is always present.
type AccountHandler struct {
	accounts *service.AccountService
}

// NewAccountHandler constructs the handler.
func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Register attaches the account routes to the protected router.
func (h *AccountHandler) Register(r *mux.Router) {
	r.HandleFunc("/accounts/mine", h.handleMine).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{id:[0-9]+}/balance", h.handleBalance).Methods(http.MethodGet)
	r.HandleFunc("/accounts/{id:[0-9]+}/transfer", h.handleTransfer).Methods(http.MethodPost)
}

func (h *AccountHandler) handleBalance(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}
	resp, err := h.accounts.Balance(r.Context(), id, p)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, resp)
}

func (h *AccountHandler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, err := pathID(r)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid account id")
		return
	}
	var req dto.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	resp, err := h.accounts.Transfer(r.Context(), id, req.Amount, p)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, resp)
}

func (h *AccountHandler) handleMine(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	summaries, err := h.accounts.Mine(r.Context(), p)
	if err != nil {
		respond.FromError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, summaries)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
