package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/JustoCornelioBello/socialpro/internal/economy"
	"github.com/JustoCornelioBello/socialpro/internal/middleware"
)

type EconomyHandler struct {
	economy *economy.Service
}

func NewEconomyHandler(e *economy.Service) *EconomyHandler {
	return &EconomyHandler{economy: e}
}

func (h *EconomyHandler) State(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.economy.State())
}

func (h *EconomyHandler) AddCoins(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Amount int `json:"amount"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	st, err := h.economy.AddCoins(in.Amount)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, st)
}

// SpendCoins answers ok=false with the untouched balance when the wallet
// is short; callers decide how to surface that.
func (h *EconomyHandler) SpendCoins(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Amount int `json:"amount"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	ok, err := h.economy.SpendCoins(in.Amount)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"ok": ok, "coins": h.economy.State().Coins})
}

func (h *EconomyHandler) SpendHearts(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Count int `json:"count"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	st, err := h.economy.SpendHearts(in.Count)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (h *EconomyHandler) RefillHearts(w http.ResponseWriter, r *http.Request) {
	st, err := h.economy.RefillHearts()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (h *EconomyHandler) AddScore(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Amount int `json:"amount"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	st, err := h.economy.AddScore(in.Amount)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, st)
}

func (h *EconomyHandler) CompleteLevel(w http.ResponseWriter, r *http.Request) {
	progress, err := h.economy.CompleteLevel(mux.Vars(r)["gameID"])
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, progress)
}

func (h *EconomyHandler) SyncLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.economy.SyncLeaderboard(middleware.UserHandle(r))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, board)
}
