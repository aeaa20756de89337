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

type ItemHandler struct {
	itemService  *service.ItemService
	guildService *service.GuildService
}

func NewItemHandler(itemService *service.ItemService, guildService *service.GuildService) *ItemHandler {
	return &ItemHandler{itemService: itemService, guildService: guildService}
}

type ItemResponse struct {
	ID   string          `json:"id"`
	GID  string          `json:"gid"`
	Name string          `json:"name"`
	Data domain.ItemData `json:"data"`
}

func itemResponse(item *domain.Item) ItemResponse {
	return ItemResponse{ID: item.ID, GID: item.GID, Name: item.Name, Data: item.Data}
}

type ItemPageResponse struct {
	Total int64          `json:"total"`
	Items []ItemResponse `json:"items"`
}

func (h *ItemHandler) requireModPerms(w http.ResponseWriter, r *http.Request, gid string, caller CallerInfo) bool {
	guild, err := h.guildService.GetOrCreate(r.Context(), gid)
	if err != nil {
		log.Printf("ERROR [ItemHandler.requireModPerms] %v", err)
		writeDomainError(w, err)
		return false
	}
	if !h.guildService.HasModPerms(guild, caller.toCaller()) {
		writeDomainError(w, domain.ErrMissingPermission)
		return false
	}
	return true
}

// List returns one page of the shop, ordered by price. page=-1 returns
// everything.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
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

	total, items, err := h.itemService.GetPage(r.Context(), gid, page)
	if err != nil {
		log.Printf("ERROR [ItemHandler.List] %v", err)
		writeDomainError(w, err)
		return
	}

	resp := ItemPageResponse{Total: total, Items: make([]ItemResponse, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, itemResponse(item))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")
	ref := chi.URLParam(r, "ref")

	item, err := h.itemService.Get(r.Context(), gid, ref)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, itemResponse(item))
}

func (h *ItemHandler) Tags(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")

	tags, err := h.itemService.GetTags(r.Context(), gid)
	if err != nil {
		log.Printf("ERROR [ItemHandler.Tags] %v", err)
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tags)
}

func (h *ItemHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")
	prefix := r.URL.Query().Get("prefix")

	items, err := h.itemService.Autocomplete(r.Context(), gid, prefix)
	if err != nil {
		log.Printf("ERROR [ItemHandler.Autocomplete] %v", err)
		writeDomainError(w, err)
		return
	}

	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	writeJSON(w, http.StatusOK, names)
}

type CreateItemRequest struct {
	Caller CallerInfo      `json:"caller"`
	Name   string          `json:"name"`
	Data   json.RawMessage `json:"data"`
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !h.requireModPerms(w, r, gid, req.Caller) {
		return
	}

	// Unset fields in a partial data block keep their defaults.
	data := domain.DefaultItemData()
	if len(req.Data) > 0 {
		if err := json.Unmarshal(req.Data, &data); err != nil {
			http.Error(w, "Invalid item data", http.StatusBadRequest)
			return
		}
	}

	item := &domain.Item{GID: gid, Name: req.Name, Data: data}
	if err := h.itemService.Create(r.Context(), item); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, itemResponse(item))
}

type UpdateItemRequest struct {
	Caller CallerInfo      `json:"caller"`
	Data   domain.ItemData `json:"data"`
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")
	ref := chi.URLParam(r, "ref")

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !h.requireModPerms(w, r, gid, req.Caller) {
		return
	}

	item, err := h.itemService.Update(r.Context(), gid, ref, req.Data)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, itemResponse(item))
}

type DeleteItemRequest struct {
	Caller CallerInfo `json:"caller"`
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")
	ref := chi.URLParam(r, "ref")

	var req DeleteItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !h.requireModPerms(w, r, gid, req.Caller) {
		return
	}

	if err := h.itemService.Delete(r.Context(), gid, ref); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
