package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustoCornelioBello/socialpro/internal/economy"
	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/store"
)

func setupTestService(t *testing.T) (*Service, *economy.Service) {
	t.Helper()
	backend, err := store.NewSQLiteBackend(":memory:")
	require.NoError(t, err)
	s := store.New(backend)
	t.Cleanup(func() { s.Close() })
	eco := economy.NewService(s)
	return NewService(s, eco), eco
}

func TestBuyAvatarLandsInInventory(t *testing.T) {
	svc, eco := setupTestService(t)
	eco.AddCoins(1000)

	res, err := svc.Buy("justo", "avatar_panda")
	require.NoError(t, err)
	assert.Equal(t, "avatar_panda", res.Item.ID)

	inv := svc.Inventory("justo")
	require.Len(t, inv, 1)
	assert.Equal(t, "avatar_panda", inv[0].ItemID)
	assert.Equal(t, 1, inv[0].Qty)
	assert.Equal(t, 400, eco.State().Coins)
}

func TestBuyInsufficientCoinsHasNoSideEffects(t *testing.T) {
	svc, eco := setupTestService(t)
	eco.AddCoins(100)

	_, err := svc.Buy("justo", "frame_gold")
	assert.ErrorIs(t, err, ErrInsufficientCoins)
	assert.Empty(t, svc.Inventory("justo"))
	assert.Equal(t, 100, eco.State().Coins)
}

func TestBuyUnknownItem(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.Buy("justo", "nonexistent")
	assert.ErrorIs(t, err, ErrUnknownItem)
}

func TestBuyHeartsBoostRefills(t *testing.T) {
	svc, eco := setupTestService(t)
	eco.AddCoins(500)
	eco.SpendHearts(3)

	res, err := svc.Buy("justo", "boost_hearts")
	require.NoError(t, err)
	assert.Equal(t, EffectRefillHearts, res.Effect)

	st := eco.State()
	assert.Equal(t, economy.MaxHearts, st.Hearts)
	assert.Nil(t, st.NextHeartAt)
	assert.Empty(t, svc.Inventory("justo"), "boosts are consumed, not stored")
}

func TestBuyLootRollsDrop(t *testing.T) {
	svc, eco := setupTestService(t)
	eco.AddCoins(2000)

	// Force the coin drop (chances: panda 0.5, fox 0.2, coins 0.3).
	svc.roll = func() float64 { return 0.9 }
	res, err := svc.Buy("justo", "loot_small")
	require.NoError(t, err)
	assert.Equal(t, 300, res.LootCoins)
	assert.Equal(t, 2000-500+300, eco.State().Coins)

	// Force the first item drop.
	svc.roll = func() float64 { return 0.1 }
	res, err = svc.Buy("justo", "loot_small")
	require.NoError(t, err)
	assert.Equal(t, "avatar_panda", res.LootItem)
	inv := svc.Inventory("justo")
	require.Len(t, inv, 1)
	assert.Equal(t, "avatar_panda", inv[0].ItemID)
}

func TestBuyPackCreditsWallet(t *testing.T) {
	svc, eco := setupTestService(t)

	pack, err := svc.BuyPack("p_small")
	require.NoError(t, err)
	assert.Equal(t, 1000, pack.Coins)
	assert.Equal(t, 1000, eco.State().Coins)

	_, err = svc.BuyPack("nope")
	assert.ErrorIs(t, err, ErrUnknownPack)
}

func TestCreateOfferRequiresOwnership(t *testing.T) {
	svc, _ := setupTestService(t)

	_, err := svc.CreateOffer("justo", "maria",
		models.TradeSide{ItemID: "avatar_fox", Qty: 1},
		models.TradeSide{Coins: 100})
	assert.ErrorIs(t, err, ErrInsufficientItems)
}

func TestCreateOfferClampsQuantities(t *testing.T) {
	svc, _ := setupTestService(t)
	require.NoError(t, svc.grant("justo", "avatar_fox", 5))

	offer, err := svc.CreateOffer("justo", "maria",
		models.TradeSide{ItemID: "avatar_fox", Qty: -3},
		models.TradeSide{Coins: 5000000})
	require.NoError(t, err)
	assert.Equal(t, 1, offer.Give.Qty)
	assert.Equal(t, 999999, offer.Want.Coins)
	assert.Equal(t, models.TradePending, offer.Status)
}

func TestAcceptOfferForCoins(t *testing.T) {
	svc, eco := setupTestService(t)
	require.NoError(t, svc.grant("justo", "avatar_fox", 2))
	eco.AddCoins(500)

	offer, err := svc.CreateOffer("justo", "maria",
		models.TradeSide{ItemID: "avatar_fox", Qty: 1},
		models.TradeSide{Coins: 200})
	require.NoError(t, err)

	settled, err := svc.AcceptOffer(offer.ID, "maria")
	require.NoError(t, err)
	assert.Equal(t, models.TradeAccepted, settled.Status)
	require.NotNil(t, settled.DecidedAt)

	maria := svc.Inventory("maria")
	require.Len(t, maria, 1)
	assert.Equal(t, "avatar_fox", maria[0].ItemID)

	justo := svc.Inventory("justo")
	require.Len(t, justo, 1)
	assert.Equal(t, 1, justo[0].Qty)
	assert.Equal(t, 300, eco.State().Coins)
}

func TestAcceptOfferForItems(t *testing.T) {
	svc, _ := setupTestService(t)
	require.NoError(t, svc.grant("justo", "avatar_fox", 1))
	require.NoError(t, svc.grant("maria", "avatar_panda", 1))

	offer, err := svc.CreateOffer("justo", "maria",
		models.TradeSide{ItemID: "avatar_fox", Qty: 1},
		models.TradeSide{ItemID: "avatar_panda", Qty: 1})
	require.NoError(t, err)

	_, err = svc.AcceptOffer(offer.ID, "maria")
	require.NoError(t, err)

	justo := svc.Inventory("justo")
	require.Len(t, justo, 1)
	assert.Equal(t, "avatar_panda", justo[0].ItemID)

	maria := svc.Inventory("maria")
	require.Len(t, maria, 1)
	assert.Equal(t, "avatar_fox", maria[0].ItemID)
}

func TestAcceptOfferRefundsCoinsWhenStackVanished(t *testing.T) {
	svc, eco := setupTestService(t)
	require.NoError(t, svc.grant("justo", "avatar_fox", 1))
	eco.AddCoins(500)

	offer, err := svc.CreateOffer("justo", "maria",
		models.TradeSide{ItemID: "avatar_fox", Qty: 1},
		models.TradeSide{Coins: 200})
	require.NoError(t, err)

	// Nothing is escrowed, so the giver's stack can be gone by the time
	// the offer is accepted.
	_, err = store.Update(svc.store, store.KeyInventory, inventories{}, func(inv inventories) inventories {
		invTake(inv, "justo", "avatar_fox", 1)
		return inv
	})
	require.NoError(t, err)

	_, err = svc.AcceptOffer(offer.ID, "maria")
	assert.ErrorIs(t, err, ErrInsufficientItems)
	assert.Equal(t, 500, eco.State().Coins, "charged coins must be refunded")
	assert.Empty(t, svc.Inventory("maria"))

	// The offer stays pending, not accepted.
	trades := svc.Trades()
	require.Len(t, trades, 1)
	assert.Equal(t, models.TradePending, trades[0].Status)
}

func TestAcceptOfferWrongRecipient(t *testing.T) {
	svc, _ := setupTestService(t)
	require.NoError(t, svc.grant("justo", "avatar_fox", 1))

	offer, err := svc.CreateOffer("justo", "maria",
		models.TradeSide{ItemID: "avatar_fox", Qty: 1},
		models.TradeSide{Coins: 0})
	require.NoError(t, err)

	_, err = svc.AcceptOffer(offer.ID, "carlos")
	assert.ErrorIs(t, err, ErrOfferNotFound)
}

func TestRejectOfferLeavesInventoriesAlone(t *testing.T) {
	svc, _ := setupTestService(t)
	require.NoError(t, svc.grant("justo", "avatar_fox", 1))

	offer, err := svc.CreateOffer("justo", "maria",
		models.TradeSide{ItemID: "avatar_fox", Qty: 1},
		models.TradeSide{Coins: 100})
	require.NoError(t, err)

	rejected, err := svc.RejectOffer(offer.ID, "maria")
	require.NoError(t, err)
	assert.Equal(t, models.TradeRejected, rejected.Status)
	require.Len(t, svc.Inventory("justo"), 1)

	// A decided offer cannot be accepted afterwards.
	_, err = svc.AcceptOffer(offer.ID, "maria")
	assert.ErrorIs(t, err, ErrOfferNotFound)
}
