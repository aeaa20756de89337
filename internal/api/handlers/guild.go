package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/service"
)

type GuildHandler struct {
	guildService *service.GuildService
}

func NewGuildHandler(guildService *service.GuildService) *GuildHandler {
	return &GuildHandler{guildService: guildService}
}

type GuildResponse struct {
	GID       string            `json:"gid"`
	MaxHeroes int               `json:"maxHeroes"`
	Money     domain.GuildMoney `json:"money"`
	Webhooks  map[string]string `json:"webhooks"`
	ModRole   string            `json:"modrole"`
	XP        domain.GuildXP    `json:"xp"`
	Currency  string            `json:"currency"`
}

func guildResponse(guild *domain.Guild) GuildResponse {
	return GuildResponse{
		GID:       guild.GID,
		MaxHeroes: guild.MaxHeroes,
		Money:     guild.Money,
		Webhooks:  guild.Webhooks,
		ModRole:   guild.ModRole,
		XP:        guild.XP,
		Currency:  guild.Currency(),
	}
}

func (h *GuildHandler) Get(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")

	guild, err := h.guildService.GetOrCreate(r.Context(), gid)
	if err != nil {
		log.Printf("ERROR [GuildHandler.Get] %v", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, guildResponse(guild))
}

type UpdateGuildRequest struct {
	MaxHeroes     *int              `json:"maxHeroes"`
	Currency      *string           `json:"currency"`
	StartingMoney *int64            `json:"startingMoney"`
	ModRole       *string           `json:"modrole"`
	XPPerLevel    *int64            `json:"xpPerLevel"`
	XPStarting    *int64            `json:"xpStarting"`
	Webhooks      map[string]string `json:"webhooks"`
}

func (h *GuildHandler) Update(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")

	var req UpdateGuildRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	guild, err := h.guildService.UpdateSettings(r.Context(), gid, service.UpdateSettingsInput{
		MaxHeroes:     req.MaxHeroes,
		Currency:      req.Currency,
		StartingMoney: req.StartingMoney,
		ModRole:       req.ModRole,
		XPPerLevel:    req.XPPerLevel,
		XPStarting:    req.XPStarting,
		Webhooks:      req.Webhooks,
	})
	if err != nil {
		log.Printf("ERROR [GuildHandler.Update] %v", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, guildResponse(guild))
}
