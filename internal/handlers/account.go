package handlers

import (
	"errors"
	"net/http"

	"github.com/JustoCornelioBello/socialpro/internal/account"
	"github.com/JustoCornelioBello/socialpro/internal/models"
)

type AccountHandler struct {
	account *account.Service
}

func NewAccountHandler(a *account.Service) *AccountHandler {
	return &AccountHandler{account: a}
}

// Get exposes the account email only; the hash never leaves the server.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	acc, err := h.account.Get()
	if err != nil {
		respondError(w, http.StatusNotFound, "no account")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"email": acc.Email})
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Old     string `json:"old"`
		New     string `json:"new"`
		Confirm string `json:"confirm"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.account.ChangePassword(in.Old, in.New, in.Confirm); err != nil {
		respondError(w, accountStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// RequestReset returns the code directly; a real deployment would mail it.
func (h *AccountHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	code, err := h.account.RequestReset()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"code": code})
}

func (h *AccountHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Code string `json:"code"`
		New  string `json:"new"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.account.ResetPassword(in.Code, in.New); err != nil {
		respondError(w, accountStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Delete gates on the typed confirmation phrase plus the password.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Confirm  string `json:"confirm"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.account.Delete(in.Confirm, in.Password); err != nil {
		respondError(w, accountStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *AccountHandler) Settings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.account.Settings())
}

func (h *AccountHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var in models.Settings
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := h.account.SaveSettings(in); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, in)
}

func (h *AccountHandler) Legal(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{"accepted": h.account.LegalAccepted()})
}

func (h *AccountHandler) AcceptLegal(w http.ResponseWriter, r *http.Request) {
	if err := h.account.AcceptLegal(); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"accepted": true})
}

func accountStatus(err error) int {
	switch {
	case errors.Is(err, account.ErrWrongPassword), errors.Is(err, account.ErrWrongPhrase), errors.Is(err, account.ErrBadResetCode):
		return http.StatusForbidden
	case errors.Is(err, account.ErrPasswordMismatch), errors.Is(err, account.ErrPasswordTooShort):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
