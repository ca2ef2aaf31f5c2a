package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/JustoCornelioBello/socialpro/internal/market"
	"github.com/JustoCornelioBello/socialpro/internal/middleware"
	"github.com/JustoCornelioBello/socialpro/internal/models"
)

type MarketHandler struct {
	market *market.Service
}

func NewMarketHandler(m *market.Service) *MarketHandler {
	return &MarketHandler{market: m}
}

func (h *MarketHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, market.Catalog)
}

func (h *MarketHandler) Packs(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, market.Packs)
}

func (h *MarketHandler) Inventory(w http.ResponseWriter, r *http.Request) {
	items := h.market.Inventory(middleware.UserHandle(r))
	if items == nil {
		items = []models.InventoryItem{}
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *MarketHandler) Buy(w http.ResponseWriter, r *http.Request) {
	res, err := h.market.Buy(middleware.UserHandle(r), mux.Vars(r)["itemID"])
	if err != nil {
		respondError(w, marketStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// BuyPack simulates a real-money purchase; no payment happens.
func (h *MarketHandler) BuyPack(w http.ResponseWriter, r *http.Request) {
	pack, err := h.market.BuyPack(mux.Vars(r)["packID"])
	if err != nil {
		respondError(w, marketStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, pack)
}

func (h *MarketHandler) Trades(w http.ResponseWriter, r *http.Request) {
	trades := h.market.Trades()
	if trades == nil {
		trades = []models.TradeOffer{}
	}
	respondJSON(w, http.StatusOK, trades)
}

func (h *MarketHandler) CreateTrade(w http.ResponseWriter, r *http.Request) {
	var in struct {
		To   string           `json:"to"`
		Give models.TradeSide `json:"give"`
		Want models.TradeSide `json:"want"`
	}
	if !decodeJSON(w, r, &in) {
		return
	}
	if in.To == "" || in.Give.ItemID == "" {
		respondError(w, http.StatusBadRequest, "to and give.itemId are required")
		return
	}
	offer, err := h.market.CreateOffer(middleware.UserHandle(r), in.To, in.Give, in.Want)
	if err != nil {
		respondError(w, marketStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, offer)
}

func (h *MarketHandler) AcceptTrade(w http.ResponseWriter, r *http.Request) {
	offer, err := h.market.AcceptOffer(mux.Vars(r)["id"], middleware.UserHandle(r))
	if err != nil {
		respondError(w, marketStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, offer)
}

func (h *MarketHandler) RejectTrade(w http.ResponseWriter, r *http.Request) {
	offer, err := h.market.RejectOffer(mux.Vars(r)["id"], middleware.UserHandle(r))
	if err != nil {
		respondError(w, marketStatus(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, offer)
}

func marketStatus(err error) int {
	switch {
	case errors.Is(err, market.ErrUnknownItem), errors.Is(err, market.ErrUnknownPack), errors.Is(err, market.ErrOfferNotFound):
		return http.StatusNotFound
	case errors.Is(err, market.ErrInsufficientCoins), errors.Is(err, market.ErrInsufficientItems):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
