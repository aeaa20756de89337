package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/keikodev/keiko-economy/internal/api/handlers"
	"github.com/keikodev/keiko-economy/internal/api/middleware"
	"github.com/keikodev/keiko-economy/internal/config"
	"github.com/keikodev/keiko-economy/internal/events"
	"github.com/keikodev/keiko-economy/internal/service"
)

func NewRouter(services *service.Services, hub *events.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	guildHandler := handlers.NewGuildHandler(services.Guild)
	economyHandler := handlers.NewEconomyHandler(services.Economy, services.Guild, hub)
	itemHandler := handlers.NewItemHandler(services.Item, services.Guild)
	heroHandler := handlers.NewHeroHandler(services.Hero)
	monsterHandler := handlers.NewMonsterHandler(services.Monster, services.Guild)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Post("/auth/login", authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))

			r.Route("/guilds/{gid}", func(r chi.Router) {
				// Guild settings
				r.Get("/", guildHandler.Get)
				r.Patch("/", guildHandler.Update)

				// Accounts and transactions
				r.Get("/accounts/{uid}", economyHandler.GetAccounts)
				r.Post("/accounts", economyHandler.CreateHeroAccount)
				r.Post("/accounts/delete", economyHandler.DeleteHeroAccount)
				r.Post("/buy", economyHandler.Buy)
				r.Post("/sell", economyHandler.Sell)
				r.Post("/use", economyHandler.Use)
				r.Post("/give", economyHandler.Give)
				r.Post("/take", economyHandler.Take)
				r.Post("/craft", economyHandler.Craft)
				r.Post("/money/add", economyHandler.AddMoney)
				r.Post("/money/remove", economyHandler.RemoveMoney)
				r.Post("/money/reset", economyHandler.ResetMoney)
				r.Post("/money/transfer", economyHandler.Transfer)

				// Item shop
				r.Route("/items", func(r chi.Router) {
					r.Get("/", itemHandler.List)
					r.Get("/tags", itemHandler.Tags)
					r.Get("/autocomplete", itemHandler.Autocomplete)
					r.Post("/", itemHandler.Create)
					r.Get("/{ref}", itemHandler.Get)
					r.Put("/{ref}", itemHandler.Update)
					r.Delete("/{ref}", itemHandler.Delete)
				})

				// Heroes
				r.Route("/heroes", func(r chi.Router) {
					r.Get("/", heroHandler.List)
					r.Get("/autocomplete", heroHandler.Autocomplete)
					r.Post("/", heroHandler.Create)
					r.Get("/{ref}", heroHandler.Get)
					r.Put("/{ref}", heroHandler.Update)
					r.Delete("/{ref}", heroHandler.Delete)
				})

				// Monsters
				r.Route("/monsters", func(r chi.Router) {
					r.Get("/", monsterHandler.List)
					r.Get("/autocomplete", monsterHandler.Autocomplete)
					r.Post("/", monsterHandler.Create)
					r.Get("/{ref}", monsterHandler.Get)
					r.Put("/{ref}", monsterHandler.Update)
					r.Delete("/{ref}", monsterHandler.Delete)
				})
			})
		})

		// WebSocket transaction feed
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
