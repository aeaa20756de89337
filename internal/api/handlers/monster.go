package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/service"
)

type MonsterHandler struct {
	monsterService *service.MonsterService
	guildService   *service.GuildService
}

func NewMonsterHandler(monsterService *service.MonsterService, guildService *service.GuildService) *MonsterHandler {
	return &MonsterHandler{monsterService: monsterService, guildService: guildService}
}

type MonsterResponse struct {
	ID   string             `json:"id"`
	GID  string             `json:"gid"`
	Name string             `json:"name"`
	Data domain.MonsterData `json:"data"`
}

func monsterResponse(monster *domain.Monster) MonsterResponse {
	return MonsterResponse{ID: monster.ID, GID: monster.GID, Name: monster.Name, Data: monster.Data}
}

type MonsterPageResponse struct {
	Total    int64             `json:"total"`
	Monsters []MonsterResponse `json:"monsters"`
}

func (h *MonsterHandler) requireModPerms(w http.ResponseWriter, r *http.Request, gid string, caller CallerInfo) bool {
	guild, err := h.guildService.GetOrCreate(r.Context(), gid)
	if err != nil {
		log.Printf("ERROR [MonsterHandler.requireModPerms] %v", err)
		writeDomainError(w, err)
		return false
	}
	if !h.guildService.HasModPerms(guild, caller.toCaller()) {
		writeDomainError(w, domain.ErrMissingPermission)
		return false
	}
	return true
}

// List returns one page of the bestiary, ordered by name. page=-1
// returns everything.
func (h *MonsterHandler) List(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")

	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid page", http.StatusBadRequest)
			return
		}
		page = parsed
	}

	total, monsters, err := h.monsterService.GetPage(r.Context(), gid, page)
	if err != nil {
		log.Printf("ERROR [MonsterHandler.List] %v", err)
		writeDomainError(w, err)
		return
	}

	resp := MonsterPageResponse{Total: total, Monsters: make([]MonsterResponse, 0, len(monsters))}
	for _, monster := range monsters {
		resp.Monsters = append(resp.Monsters, monsterResponse(monster))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *MonsterHandler) Get(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")
	ref := chi.URLParam(r, "ref")

	monster, err := h.monsterService.Get(r.Context(), gid, ref)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, monsterResponse(monster))
}

func (h *MonsterHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")
	prefix := r.URL.Query().Get("prefix")

	monsters, err := h.monsterService.Autocomplete(r.Context(), gid, prefix)
	if err != nil {
		log.Printf("ERROR [MonsterHandler.Autocomplete] %v", err)
		writeDomainError(w, err)
		return
	}

	names := make([]string, 0, len(monsters))
	for _, monster := range monsters {
		names = append(names, monster.Name)
	}
	writeJSON(w, http.StatusOK, names)
}

type CreateMonsterRequest struct {
	Caller CallerInfo         `json:"caller"`
	Name   string             `json:"name"`
	Data   domain.MonsterData `json:"data"`
}

func (h *MonsterHandler) Create(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")

	var req CreateMonsterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !h.requireModPerms(w, r, gid, req.Caller) {
		return
	}

	monster := &domain.Monster{GID: gid, Name: req.Name, Data: req.Data}
	if err := h.monsterService.Create(r.Context(), monster); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, monsterResponse(monster))
}

type UpdateMonsterRequest struct {
	Caller CallerInfo         `json:"caller"`
	Data   domain.MonsterData `json:"data"`
}

func (h *MonsterHandler) Update(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")
	ref := chi.URLParam(r, "ref")

	var req UpdateMonsterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !h.requireModPerms(w, r, gid, req.Caller) {
		return
	}

	monster, err := h.monsterService.Update(r.Context(), gid, ref, req.Data)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, monsterResponse(monster))
}

type DeleteMonsterRequest struct {
	Caller CallerInfo `json:"caller"`
}

func (h *MonsterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")
	ref := chi.URLParam(r, "ref")

	var req DeleteMonsterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !h.requireModPerms(w, r, gid, req.Caller) {
		return
	}

	if err := h.monsterService.Delete(r.Context(), gid, ref); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
