package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/service"
)

type HeroHandler struct {
	heroService *service.HeroService
}

func NewHeroHandler(heroService *service.HeroService) *HeroHandler {
	return &HeroHandler{heroService: heroService}
}

type HeroResponse struct {
	ID   string          `json:"id"`
	UID  string          `json:"uid"`
	GID  string          `json:"gid"`
	Name string          `json:"name"`
	Data domain.HeroData `json:"data"`
}

func heroResponse(hero *domain.Hero) HeroResponse {
	return HeroResponse{ID: hero.ID, UID: hero.UID, GID: hero.GID, Name: hero.Name, Data: hero.Data}
}

// List returns the heroes owned by a user within the guild.
func (h *HeroHandler) List(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")
	uid := r.URL.Query().Get("uid")
	if uid == "" {
		http.Error(w, "uid query parameter required", http.StatusBadRequest)
		return
	}

	heroes, err := h.heroService.GetAll(r.Context(), gid, uid)
	if err != nil {
		log.Printf("ERROR [HeroHandler.List] %v", err)
		writeDomainError(w, err)
		return
	}

	resp := make([]HeroResponse, 0, len(heroes))
	for _, hero := range heroes {
		resp = append(resp, heroResponse(hero))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *HeroHandler) Get(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")
	ref := chi.URLParam(r, "ref")

	hero, err := h.heroService.Get(r.Context(), gid, ref)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, heroResponse(hero))
}

func (h *HeroHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")
	prefix := r.URL.Query().Get("prefix")

	heroes, err := h.heroService.Autocomplete(r.Context(), gid, prefix)
	if err != nil {
		log.Printf("ERROR [HeroHandler.Autocomplete] %v", err)
		writeDomainError(w, err)
		return
	}

	names := make([]string, 0, len(heroes))
	for _, hero := range heroes {
		names = append(names, hero.Name)
	}
	writeJSON(w, http.StatusOK, names)
}

type CreateHeroRequest struct {
	UID  string          `json:"uid"`
	Name string          `json:"name"`
	Data domain.HeroData `json:"data"`
}

func (h *HeroHandler) Create(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")

	var req CreateHeroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	hero := &domain.Hero{UID: req.UID, GID: gid, Name: req.Name, Data: req.Data}
	if err := h.heroService.Create(r.Context(), hero); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, heroResponse(hero))
}

type UpdateHeroRequest struct {
	Data domain.HeroData `json:"data"`
}

func (h *HeroHandler) Update(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")
	ref := chi.URLParam(r, "ref")

	var req UpdateHeroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	hero, err := h.heroService.Update(r.Context(), gid, ref, req.Data)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, heroResponse(hero))
}

func (h *HeroHandler) Delete(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")
	ref := chi.URLParam(r, "ref")

	if err := h.heroService.Delete(r.Context(), gid, ref); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
