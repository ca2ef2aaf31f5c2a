// Package market sells catalog items for the virtual currency, tracks
// per-user inventories and brokers item trades. Money never moves for
// real: coin packs just credit the wallet.
package market

import (
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/JustoCornelioBello/socialpro/internal/economy"
	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/store"
)

var (
	ErrUnknownItem       = errors.New("market: unknown item")
	ErrUnknownPack       = errors.New("market: unknown coin pack")
	ErrInsufficientCoins = errors.New("market: insufficient coins")
	ErrInsufficientItems = errors.New("market: insufficient items")
	ErrOfferNotFound     = errors.New("market: offer not found or already decided")
)

type inventories map[string][]models.InventoryItem

type Service struct {
	store   *store.Store
	economy *economy.Service
	roll    func() float64
}

func NewService(s *store.Store, eco *economy.Service) *Service {
	return &Service{store: s, economy: eco, roll: rand.Float64}
}

// Inventory returns handle's owned items.
func (s *Service) Inventory(handle string) []models.InventoryItem {
	inv := store.Read(s.store, store.KeyInventory, inventories{})
	return inv[handle]
}

// BuyResult reports what a purchase produced.
type BuyResult struct {
	Item      Item   `json:"item"`
	LootItem  string `json:"lootItem,omitempty"`
	LootCoins int    `json:"lootCoins,omitempty"`
	Effect    string `json:"effect,omitempty"`
}

// Buy charges the wallet for a catalog item and applies it: frames and
// avatars land in the inventory, a hearts boost refills hearts, a loot
// chest rolls one of its drops. The charge fails without side effects when
// the balance is short.
func (s *Service) Buy(handle, itemID string) (BuyResult, error) {
	item, ok := ItemByID(itemID)
	if !ok {
		return BuyResult{}, ErrUnknownItem
	}
	paid, err := s.economy.SpendCoins(item.Price)
	if err != nil {
		return BuyResult{}, err
	}
	if !paid {
		return BuyResult{}, ErrInsufficientCoins
	}

	res := BuyResult{Item: item}
	switch item.Kind {
	case KindBoost:
		res.Effect = item.Effect
		if item.Effect == EffectRefillHearts {
			if _, err := s.economy.RefillHearts(); err != nil {
				return res, err
			}
		}
	case KindLoot:
		drop := pickDrop(item.Gives, s.roll())
		if drop.Coins > 0 {
			res.LootCoins = drop.Coins
			if _, err := s.economy.AddCoins(drop.Coins); err != nil {
				return res, err
			}
		} else if drop.ItemID != "" {
			res.LootItem = drop.ItemID
			if err := s.grant(handle, drop.ItemID, 1); err != nil {
				return res, err
			}
		}
	default:
		if err := s.grant(handle, item.ID, 1); err != nil {
			return res, err
		}
	}
	return res, nil
}

// BuyPack simulates a real-money coin purchase and credits the wallet.
func (s *Service) BuyPack(packID string) (CoinPack, error) {
	pack, ok := PackByID(packID)
	if !ok {
		return CoinPack{}, ErrUnknownPack
	}
	_, err := s.economy.AddCoins(pack.Coins)
	return pack, err
}

// Trades returns every offer, newest first.
func (s *Service) Trades() []models.TradeOffer {
	return store.Read(s.store, store.KeyTrades, []models.TradeOffer{})
}

// CreateOffer proposes giving one of from's item stacks for coins or
// another item. The give stack must exist in from's inventory; nothing is
// escrowed, so the stack is checked again on acceptance.
func (s *Service) CreateOffer(from, to string, give models.TradeSide, want models.TradeSide) (models.TradeOffer, error) {
	give.Qty = clamp(give.Qty, 1, 99)
	if want.ItemID != "" {
		want.Qty = clamp(want.Qty, 1, 99)
	} else {
		want.Coins = clamp(want.Coins, 0, 999999)
	}
	if !s.owns(from, give.ItemID, give.Qty) {
		return models.TradeOffer{}, ErrInsufficientItems
	}
	offer := models.TradeOffer{
		ID:        "offer_" + uuid.NewString(),
		From:      from,
		To:        to,
		Give:      give,
		Want:      want,
		Status:    models.TradePending,
		CreatedAt: time.Now().UTC(),
	}
	_, err := store.Update(s.store, store.KeyTrades, []models.TradeOffer{}, func(all []models.TradeOffer) []models.TradeOffer {
		return append([]models.TradeOffer{offer}, all...)
	})
	return offer, err
}

// AcceptOffer settles a pending offer addressed to handle. The receiver
// pays the want side (coins from the wallet, or items from inventory) and
// receives the give side; the sender's stack moves out. Both stacks are
// re-checked and moved under the inventory key's lock so a concurrent
// change cannot leave a half-settled trade, and coins already charged are
// refunded when the items fall through.
func (s *Service) AcceptOffer(offerID, handle string) (models.TradeOffer, error) {
	offer, err := s.findPending(offerID, handle)
	if err != nil {
		return models.TradeOffer{}, err
	}

	paidCoins := 0
	if offer.Want.ItemID == "" && offer.Want.Coins > 0 {
		paid, err := s.economy.SpendCoins(offer.Want.Coins)
		if err != nil {
			return models.TradeOffer{}, err
		}
		if !paid {
			return models.TradeOffer{}, ErrInsufficientCoins
		}
		paidCoins = offer.Want.Coins
	}

	short := false
	_, err = store.Update(s.store, store.KeyInventory, inventories{}, func(inv inventories) inventories {
		if !invHas(inv, offer.From, offer.Give.ItemID, offer.Give.Qty) {
			short = true
			return inv
		}
		if offer.Want.ItemID != "" && !invHas(inv, handle, offer.Want.ItemID, offer.Want.Qty) {
			short = true
			return inv
		}
		invTake(inv, offer.From, offer.Give.ItemID, offer.Give.Qty)
		invGrant(inv, handle, offer.Give.ItemID, offer.Give.Qty)
		if offer.Want.ItemID != "" {
			invTake(inv, handle, offer.Want.ItemID, offer.Want.Qty)
			invGrant(inv, offer.From, offer.Want.ItemID, offer.Want.Qty)
		}
		return inv
	})
	if err != nil || short {
		if paidCoins > 0 {
			if _, refundErr := s.economy.AddCoins(paidCoins); refundErr != nil && err == nil {
				err = refundErr
			}
		}
		if err != nil {
			return models.TradeOffer{}, err
		}
		return models.TradeOffer{}, ErrInsufficientItems
	}

	return s.decide(offerID, models.TradeAccepted)
}

// RejectOffer declines a pending offer addressed to handle.
func (s *Service) RejectOffer(offerID, handle string) (models.TradeOffer, error) {
	if _, err := s.findPending(offerID, handle); err != nil {
		return models.TradeOffer{}, err
	}
	return s.decide(offerID, models.TradeRejected)
}

func (s *Service) findPending(offerID, handle string) (models.TradeOffer, error) {
	for _, t := range s.Trades() {
		if t.ID == offerID && t.To == handle && t.Status == models.TradePending {
			return t, nil
		}
	}
	return models.TradeOffer{}, ErrOfferNotFound
}

func (s *Service) decide(offerID, status string) (models.TradeOffer, error) {
	var out models.TradeOffer
	now := time.Now().UTC()
	_, err := store.Update(s.store, store.KeyTrades, []models.TradeOffer{}, func(all []models.TradeOffer) []models.TradeOffer {
		for i := range all {
			if all[i].ID == offerID {
				all[i].Status = status
				all[i].DecidedAt = &now
				out = all[i]
				break
			}
		}
		return all
	})
	return out, err
}

func (s *Service) owns(handle, itemID string, qty int) bool {
	for _, it := range s.Inventory(handle) {
		if it.ItemID == itemID && it.Qty >= qty {
			return true
		}
	}
	return false
}

func (s *Service) grant(handle, itemID string, qty int) error {
	_, err := store.Update(s.store, store.KeyInventory, inventories{}, func(inv inventories) inventories {
		invGrant(inv, handle, itemID, qty)
		return inv
	})
	return err
}

func invHas(inv inventories, handle, itemID string, qty int) bool {
	for _, it := range inv[handle] {
		if it.ItemID == itemID && it.Qty >= qty {
			return true
		}
	}
	return false
}

func invGrant(inv inventories, handle, itemID string, qty int) {
	items := inv[handle]
	for i := range items {
		if items[i].ItemID == itemID {
			items[i].Qty += qty
			inv[handle] = items
			return
		}
	}
	inv[handle] = append(items, models.InventoryItem{ItemID: itemID, Qty: qty})
}

// invTake assumes the caller verified the stack with invHas.
func invTake(inv inventories, handle, itemID string, qty int) {
	items := inv[handle]
	for i := range items {
		if items[i].ItemID == itemID {
			items[i].Qty -= qty
			if items[i].Qty <= 0 {
				items = append(items[:i], items[i+1:]...)
			}
			inv[handle] = items
			return
		}
	}
}

func pickDrop(drops []LootDrop, r float64) LootDrop {
	acc := 0.0
	for _, d := range drops {
		acc += d.Chance
		if r < acc {
			return d
		}
	}
	if len(drops) > 0 {
		return drops[len(drops)-1]
	}
	return LootDrop{}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
