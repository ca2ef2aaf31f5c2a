package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/JustoCornelioBello/socialpro/internal/account"
	"github.com/JustoCornelioBello/socialpro/internal/analytics"
	"github.com/JustoCornelioBello/socialpro/internal/chat"
	"github.com/JustoCornelioBello/socialpro/internal/config"
	"github.com/JustoCornelioBello/socialpro/internal/economy"
	"github.com/JustoCornelioBello/socialpro/internal/feed"
	"github.com/JustoCornelioBello/socialpro/internal/groups"
	"github.com/JustoCornelioBello/socialpro/internal/handlers"
	"github.com/JustoCornelioBello/socialpro/internal/logger"
	"github.com/JustoCornelioBello/socialpro/internal/market"
	"github.com/JustoCornelioBello/socialpro/internal/messages"
	"github.com/JustoCornelioBello/socialpro/internal/middleware"
	"github.com/JustoCornelioBello/socialpro/internal/models"
	"github.com/JustoCornelioBello/socialpro/internal/notify"
	"github.com/JustoCornelioBello/socialpro/internal/profile"
	"github.com/JustoCornelioBello/socialpro/internal/store"
	"github.com/JustoCornelioBello/socialpro/internal/stories"
)

func openBackend(cfg *config.Config) (store.Backend, error) {
	switch cfg.StoreDriver {
	case "sqlite":
		return store.NewSQLiteBackend(cfg.DBPath)
	case "file":
		return store.NewFileBackend(cfg.DataDir)
	case "redis":
		return store.NewRedisBackend(cfg.RedisAddr, cfg.RedisPrefix)
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize storage
	backend, err := openBackend(cfg)
	if err != nil {
		logger.Error.Fatalf("Store initialization error: %v", err)
	}
	st := store.New(backend)
	defer st.Close()

	events, err := analytics.NewLogger(cfg.DataDir)
	if err != nil {
		logger.Error.Fatalf("Analytics initialization error: %v", err)
	}

	// Create services
	feedSvc := feed.NewService(st)
	groupSvc := groups.NewService(st)
	notifySvc := notify.NewService(st, groupSvc)
	profileSvc := profile.NewService(st)
	economySvc := economy.NewService(st)
	marketSvc := market.NewService(st, economySvc)
	storySvc := stories.NewService(st, feedSvc)
	accountSvc := account.NewService(st)
	chatSvc := chat.NewService(st)
	messagesSvc := messages.NewService(st)

	if err := accountSvc.Seed(cfg.DefaultUser+"@example.com", "12345678"); err != nil {
		logger.Error.Fatalf("Account seed error: %v", err)
	}
	if _, err := profileSvc.Get(cfg.DefaultUser); err != nil {
		if err := profileSvc.Save(models.Profile{Handle: cfg.DefaultUser, Name: cfg.DefaultName, Avatar: "🙂"}); err != nil {
			logger.Error.Fatalf("Profile seed error: %v", err)
		}
	}

	// Start periodic heart regeneration. Tick is a no-op until the
	// cooldown elapses, so a coarse interval is enough.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := economySvc.Tick(); err != nil {
				logger.Warn.Printf("Heart regeneration error: %v", err)
			}
		}
	}()

	// Create handlers
	feedHandler := handlers.NewFeedHandler(feedSvc, notifySvc, profileSvc)
	groupHandler := handlers.NewGroupHandler(groupSvc, notifySvc, profileSvc)
	notifHandler := handlers.NewNotificationsHandler(notifySvc)
	profileHandler := handlers.NewProfileHandler(profileSvc)
	economyHandler := handlers.NewEconomyHandler(economySvc)
	marketHandler := handlers.NewMarketHandler(marketSvc)
	storiesHandler := handlers.NewStoriesHandler(storySvc, profileSvc)
	accountHandler := handlers.NewAccountHandler(accountSvc)
	chatHandler := handlers.NewChatHandler(chatSvc, events)
	messagesHandler := handlers.NewMessagesHandler(messagesSvc)
	analyticsHandler := handlers.NewAnalyticsHandler(events)

	// Set up routes
	r := mux.NewRouter()
	r.Use(middleware.Identity(cfg.DefaultUser))
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/posts", feedHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/posts", feedHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}", feedHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/posts/{id}/reaction", feedHandler.React).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}/hide", feedHandler.Hide).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}/save", feedHandler.ToggleSave).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}/share", feedHandler.Share).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}/comments", feedHandler.AddComment).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}/comments/{commentID}", feedHandler.DeleteComment).Methods(http.MethodDelete)
	api.HandleFunc("/posts/{id}/comments/{commentID}/reaction", feedHandler.ReactComment).Methods(http.MethodPost)
	api.HandleFunc("/posts/{id}/comments/{commentID}/hide", feedHandler.HideComment).Methods(http.MethodPost)

	api.HandleFunc("/groups", groupHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/groups", groupHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/groups/{slug}", groupHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/groups/{slug}/join", groupHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/groups/{slug}/leave", groupHandler.Leave).Methods(http.MethodPost)
	api.HandleFunc("/groups/{slug}/invite", groupHandler.Invite).Methods(http.MethodPost)

	api.HandleFunc("/notifications", notifHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications", notifHandler.Clear).Methods(http.MethodDelete)
	api.HandleFunc("/notifications/read-all", notifHandler.MarkAllRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{id}", notifHandler.Remove).Methods(http.MethodDelete)
	api.HandleFunc("/notifications/{id}/read", notifHandler.SetRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{id}/accept", notifHandler.AcceptInvite).Methods(http.MethodPost)

	api.HandleFunc("/me", profileHandler.Me).Methods(http.MethodGet)
	api.HandleFunc("/profiles/{handle}", profileHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/profiles/{handle}", profileHandler.Save).Methods(http.MethodPut)

	api.HandleFunc("/games/state", economyHandler.State).Methods(http.MethodGet)
	api.HandleFunc("/games/coins/add", economyHandler.AddCoins).Methods(http.MethodPost)
	api.HandleFunc("/games/coins/spend", economyHandler.SpendCoins).Methods(http.MethodPost)
	api.HandleFunc("/games/hearts/spend", economyHandler.SpendHearts).Methods(http.MethodPost)
	api.HandleFunc("/games/hearts/refill", economyHandler.RefillHearts).Methods(http.MethodPost)
	api.HandleFunc("/games/score/add", economyHandler.AddScore).Methods(http.MethodPost)
	api.HandleFunc("/games/leaderboard/sync", economyHandler.SyncLeaderboard).Methods(http.MethodPost)
	api.HandleFunc("/games/{gameID}/complete", economyHandler.CompleteLevel).Methods(http.MethodPost)

	api.HandleFunc("/market/catalog", marketHandler.Catalog).Methods(http.MethodGet)
	api.HandleFunc("/market/packs", marketHandler.Packs).Methods(http.MethodGet)
	api.HandleFunc("/market/packs/{packID}/buy", marketHandler.BuyPack).Methods(http.MethodPost)
	api.HandleFunc("/market/inventory", marketHandler.Inventory).Methods(http.MethodGet)
	api.HandleFunc("/market/items/{itemID}/buy", marketHandler.Buy).Methods(http.MethodPost)
	api.HandleFunc("/market/trades", marketHandler.Trades).Methods(http.MethodGet)
	api.HandleFunc("/market/trades", marketHandler.CreateTrade).Methods(http.MethodPost)
	api.HandleFunc("/market/trades/{id}/accept", marketHandler.AcceptTrade).Methods(http.MethodPost)
	api.HandleFunc("/market/trades/{id}/reject", marketHandler.RejectTrade).Methods(http.MethodPost)

	api.HandleFunc("/stories", storiesHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/stories", storiesHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/stories/trash", storiesHandler.Trash).Methods(http.MethodGet)
	api.HandleFunc("/stories/trash", storiesHandler.EmptyTrash).Methods(http.MethodDelete)
	api.HandleFunc("/stories/history", storiesHandler.History).Methods(http.MethodGet)
	api.HandleFunc("/stories/{id}", storiesHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/stories/{id}", storiesHandler.Save).Methods(http.MethodPut)
	api.HandleFunc("/stories/{id}", storiesHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/stories/{id}/publish", storiesHandler.Publish).Methods(http.MethodPost)
	api.HandleFunc("/stories/{id}/unpublish", storiesHandler.Unpublish).Methods(http.MethodPost)
	api.HandleFunc("/stories/{id}/view", storiesHandler.View).Methods(http.MethodPost)
	api.HandleFunc("/stories/{id}/share", storiesHandler.RecordShare).Methods(http.MethodPost)
	api.HandleFunc("/stories/{id}/restore", storiesHandler.Restore).Methods(http.MethodPost)
	api.HandleFunc("/stories/{id}/export", storiesHandler.Export).Methods(http.MethodGet)

	api.HandleFunc("/account", accountHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/account", accountHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/account/password", accountHandler.ChangePassword).Methods(http.MethodPost)
	api.HandleFunc("/account/reset", accountHandler.RequestReset).Methods(http.MethodPost)
	api.HandleFunc("/account/reset/confirm", accountHandler.ResetPassword).Methods(http.MethodPost)
	api.HandleFunc("/account/settings", accountHandler.Settings).Methods(http.MethodGet)
	api.HandleFunc("/account/settings", accountHandler.SaveSettings).Methods(http.MethodPut)
	api.HandleFunc("/account/legal", accountHandler.Legal).Methods(http.MethodGet)
	api.HandleFunc("/account/legal", accountHandler.AcceptLegal).Methods(http.MethodPost)

	api.HandleFunc("/chats", chatHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/chats", chatHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/chats/{id}", chatHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/chats/{id}", chatHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/chats/{id}/export", chatHandler.Export).Methods(http.MethodGet)
	api.HandleFunc("/chat/{id}", chatHandler.Send).Methods(http.MethodPost)
	api.HandleFunc("/memory/{id}", chatHandler.Memory).Methods(http.MethodGet)

	api.HandleFunc("/messages", messagesHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/messages/{id}", messagesHandler.Open).Methods(http.MethodGet)
	api.HandleFunc("/messages/{id}", messagesHandler.Send).Methods(http.MethodPost)
	api.HandleFunc("/messages/{id}", messagesHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/messages/{id}/pin", messagesHandler.TogglePin).Methods(http.MethodPost)
	api.HandleFunc("/messages/{id}/mute", messagesHandler.SetMuted).Methods(http.MethodPost)

	api.HandleFunc("/analytics/event", analyticsHandler.Record).Methods(http.MethodPost)
	api.HandleFunc("/analytics/events", analyticsHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/analytics/events", analyticsHandler.Reset).Methods(http.MethodDelete)

	// Start server
	logger.Info.Printf("Server started at http://localhost:%s (store driver %s)", cfg.Port, cfg.StoreDriver)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Error.Fatalf("Server start error: %v", err)
	}
}
