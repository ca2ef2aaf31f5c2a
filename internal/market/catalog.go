package market

// Item kinds.
const (
	KindFrame  = "frame"
	KindAvatar = "avatar"
	KindBoost  = "boost"
	KindLoot   = "loot"
)

// Boost effects.
const (
	EffectRefillHearts = "refill_hearts"
	EffectDoubleScore  = "double_score_10m"
)

// Item is a purchasable catalog entry.
type Item struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Kind   string     `json:"type"`
	Price  int        `json:"price"`
	Rarity string     `json:"rarity"`
	Icon   string     `json:"icon"`
	Effect string     `json:"effect,omitempty"`
	Gives  []LootDrop `json:"gives,omitempty"`
}

// LootDrop is one possible outcome of opening a loot chest. Either ItemID
// or Coins is set. Chances across a chest sum to 1.
type LootDrop struct {
	ItemID string  `json:"id,omitempty"`
	Coins  int     `json:"coins,omitempty"`
	Chance float64 `json:"chance"`
}

// CoinPack is a simulated real-money purchase.
type CoinPack struct {
	ID       string  `json:"id"`
	Coins    int     `json:"coins"`
	PriceUSD float64 `json:"priceUSD"`
}

// Catalog is the fixed item list the store page sells.
var Catalog = []Item{
	{ID: "frame_gold", Name: "Marco Dorado", Kind: KindFrame, Price: 1200, Rarity: "épico", Icon: "🟡"},
	{ID: "frame_neon", Name: "Marco Neón", Kind: KindFrame, Price: 900, Rarity: "raro", Icon: "🟣"},
	{ID: "frame_rainbow", Name: "Marco Arcoíris", Kind: KindFrame, Price: 1500, Rarity: "legend", Icon: "🌈"},
	{ID: "avatar_fox", Name: "Avatar Zorro", Kind: KindAvatar, Price: 700, Rarity: "raro", Icon: "🦊"},
	{ID: "avatar_panda", Name: "Avatar Panda", Kind: KindAvatar, Price: 600, Rarity: "común", Icon: "🐼"},
	{ID: "avatar_bot", Name: "Avatar Bot", Kind: KindAvatar, Price: 800, Rarity: "raro", Icon: "🤖"},
	{ID: "boost_hearts", Name: "Recargar Corazones", Kind: KindBoost, Price: 400, Rarity: "común", Icon: "❤️", Effect: EffectRefillHearts},
	{ID: "boost_score", Name: "Doble Puntos (10m)", Kind: KindBoost, Price: 1000, Rarity: "épico", Icon: "⚡", Effect: EffectDoubleScore},
	{ID: "loot_small", Name: "Cofre Pequeño", Kind: KindLoot, Price: 500, Rarity: "común", Icon: "📦", Gives: []LootDrop{
		{ItemID: "avatar_panda", Chance: 0.5},
		{ItemID: "avatar_fox", Chance: 0.2},
		{Coins: 300, Chance: 0.3},
	}},
}

// Packs are the coin bundles offered for simulated purchase.
var Packs = []CoinPack{
	{ID: "p_small", Coins: 1000, PriceUSD: 1.99},
	{ID: "p_med", Coins: 5500, PriceUSD: 8.49},
	{ID: "p_big", Coins: 12000, PriceUSD: 17.99},
	{ID: "p_mega", Coins: 26000, PriceUSD: 34.99},
}

// ItemByID finds a catalog item.
func ItemByID(id string) (Item, bool) {
	for _, it := range Catalog {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// PackByID finds a coin pack.
func PackByID(id string) (CoinPack, bool) {
	for _, p := range Packs {
		if p.ID == id {
			return p, true
		}
	}
	return CoinPack{}, false
}
