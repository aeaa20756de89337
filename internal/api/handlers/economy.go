package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keikodev/keiko-economy/internal/domain"
	"github.com/keikodev/keiko-economy/internal/events"
	"github.com/keikodev/keiko-economy/internal/service"
)

type EconomyHandler struct {
	economyService *service.EconomyService
	guildService   *service.GuildService
	hub            *events.Hub
}

func NewEconomyHandler(economyService *service.EconomyService, guildService *service.GuildService, hub *events.Hub) *EconomyHandler {
	return &EconomyHandler{
		economyService: economyService,
		guildService:   guildService,
		hub:            hub,
	}
}

// CallerInfo is the pre-resolved invoker identity supplied by the
// transport on privileged requests.
type CallerInfo struct {
	ID      string   `json:"id"`
	IsOwner bool     `json:"isOwner"`
	IsAdmin bool     `json:"isAdmin"`
	Roles   []string `json:"roles"`
}

func (c CallerInfo) toCaller() service.Caller {
	return service.Caller{ID: c.ID, IsOwner: c.IsOwner, IsAdmin: c.IsAdmin, Roles: c.Roles}
}

type AccountResponse struct {
	ID     string             `json:"id"`
	GID    string             `json:"gid"`
	UID    string             `json:"uid"`
	Value  int64              `json:"value"`
	HeroID string             `json:"heroID"`
	Items  []domain.ItemStack `json:"items"`
}

func accountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:     account.ID,
		GID:    account.GID,
		UID:    account.UID,
		Value:  account.Value,
		HeroID: account.HeroID,
		Items:  account.Items,
	}
}

// requireModPerms loads the guild and checks the caller's mod
// permissions, writing the failure response itself.
func (h *EconomyHandler) requireModPerms(w http.ResponseWriter, r *http.Request, gid string, caller CallerInfo) bool {
	guild, err := h.guildService.GetOrCreate(r.Context(), gid)
	if err != nil {
		log.Printf("ERROR [EconomyHandler.requireModPerms] %v", err)
		writeDomainError(w, err)
		return false
	}
	if !h.guildService.HasModPerms(guild, caller.toCaller()) {
		writeDomainError(w, domain.ErrMissingPermission)
		return false
	}
	return true
}

func (h *EconomyHandler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")
	uid := chi.URLParam(r, "uid")

	accounts, err := h.economyService.GetAccounts(r.Context(), gid, uid)
	if err != nil {
		log.Printf("ERROR [EconomyHandler.GetAccounts] %v", err)
		writeDomainError(w, err)
		return
	}

	resp := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		resp = append(resp, accountResponse(a))
	}
	writeJSON(w, http.StatusOK, resp)
}

type BuyRequest struct {
	UID   string   `json:"uid"`
	Hero  string   `json:"hero"`
	Roles []string `json:"roles"`
	Item  string   `json:"item"`
	Count int64    `json:"count"`
}

type BuyResponse struct {
	Account   AccountResponse `json:"account"`
	Item      string          `json:"item"`
	Count     int64           `json:"count"`
	UnitPrice int64           `json:"unitPrice"`
	Total     int64           `json:"total"`
}

func (h *EconomyHandler) Buy(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")

	var req BuyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.economyService.Buy(r.Context(), gid, req.UID, req.Hero, req.Roles, req.Item, req.Count)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.hub.Publish(events.Transaction{
		GID: gid, Type: events.TxBuy, UID: req.UID, Hero: req.Hero,
		Item: result.Item.Name, Count: result.Count, Amount: result.Total,
	})

	writeJSON(w, http.StatusOK, BuyResponse{
		Account:   accountResponse(result.Account),
		Item:      result.Item.Name,
		Count:     result.Count,
		UnitPrice: result.UnitPrice,
		Total:     result.Total,
	})
}

type SellRequest struct {
	UID   string   `json:"uid"`
	Hero  string   `json:"hero"`
	Roles []string `json:"roles"`
	Item  string   `json:"item"`
	Count int64    `json:"count"`
}

type SellResponse struct {
	Account   AccountResponse `json:"account"`
	Item      string          `json:"item"`
	Removed   int64           `json:"removed"`
	UnitValue int64           `json:"unitValue"`
	Total     int64           `json:"total"`
}

func (h *EconomyHandler) Sell(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")

	var req SellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.economyService.Sell(r.Context(), gid, req.UID, req.Hero, req.Roles, req.Item, req.Count)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.hub.Publish(events.Transaction{
		GID: gid, Type: events.TxSell, UID: req.UID, Hero: req.Hero,
		Item: result.Item.Name, Count: result.Removed, Amount: result.Total,
	})

	writeJSON(w, http.StatusOK, SellResponse{
		Account:   accountResponse(result.Account),
		Item:      result.Item.Name,
		Removed:   result.Removed,
		UnitValue: result.UnitValue,
		Total:     result.Total,
	})
}

type UseRequest struct {
	UID   string `json:"uid"`
	Hero  string `json:"hero"`
	Item  string `json:"item"`
	Count int64  `json:"count"`
}

type UseResponse struct {
	Account AccountResponse `json:"account"`
	Item    string          `json:"item"`
	Removed int64           `json:"removed"`
}

func (h *EconomyHandler) Use(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")

	var req UseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.economyService.Use(r.Context(), gid, req.UID, req.Hero, req.Item, req.Count)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.hub.Publish(events.Transaction{
		GID: gid, Type: events.TxUse, UID: req.UID, Hero: req.Hero,
		Item: result.Item.Name, Count: result.Removed,
	})

	writeJSON(w, http.StatusOK, UseResponse{
		Account: accountResponse(result.Account),
		Item:    result.Item.Name,
		Removed: result.Removed,
	})
}

type GiveRequest struct {
	Caller CallerInfo `json:"caller"`
	UID    string     `json:"uid"`
	Hero   string     `json:"hero"`
	Item   string     `json:"item"`
	Count  int64      `json:"count"`
}

func (h *EconomyHandler) Give(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")

	var req GiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !h.requireModPerms(w, r, gid, req.Caller) {
		return
	}

	account, err := h.economyService.Give(r.Context(), gid, req.UID, req.Hero, req.Item, req.Count)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.hub.Publish(events.Transaction{
		GID: gid, Type: events.TxGive, UID: req.UID, Hero: req.Hero,
		Item: req.Item, Count: req.Count,
	})

	writeJSON(w, http.StatusOK, accountResponse(account))
}

type TakeRequest struct {
	Caller CallerInfo `json:"caller"`
	UID    string     `json:"uid"`
	Hero   string     `json:"hero"`
	Item   string     `json:"item"`
	Count  int64      `json:"count"`
}

type TakeResponse struct {
	Removed int64 `json:"removed"`
}

func (h *EconomyHandler) Take(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")

	var req TakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !h.requireModPerms(w, r, gid, req.Caller) {
		return
	}

	removed, err := h.economyService.Take(r.Context(), gid, req.UID, req.Hero, req.Item, req.Count)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.hub.Publish(events.Transaction{
		GID: gid, Type: events.TxTake, UID: req.UID, Hero: req.Hero,
		Item: req.Item, Count: removed,
	})

	writeJSON(w, http.StatusOK, TakeResponse{Removed: removed})
}

type CraftRequest struct {
	UID  string `json:"uid"`
	Hero string `json:"hero"`
	Item string `json:"item"`
}

type CraftResponse struct {
	Account AccountResponse `json:"account"`
	Item    string          `json:"item"`
	Crafted int64           `json:"crafted"`
	Recipe  domain.Recipe   `json:"recipe"`
}

func (h *EconomyHandler) Craft(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")

	var req CraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.economyService.Craft(r.Context(), gid, req.UID, req.Hero, req.Item)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.hub.Publish(events.Transaction{
		GID: gid, Type: events.TxCraft, UID: req.UID, Hero: req.Hero,
		Item: result.Item.Name, Count: result.Crafted, Amount: result.Recipe.AdditionalCost,
	})

	writeJSON(w, http.StatusOK, CraftResponse{
		Account: accountResponse(result.Account),
		Item:    result.Item.Name,
		Crafted: result.Crafted,
		Recipe:  result.Recipe,
	})
}

type MoneyRequest struct {
	Caller CallerInfo `json:"caller"`
	UID    string     `json:"uid"`
	Hero   string     `json:"hero"`
	Amount int64      `json:"amount"`
}

func (h *EconomyHandler) AddMoney(w http.ResponseWriter, r *http.Request) {
	h.adjustMoney(w, r, "add")
}

func (h *EconomyHandler) RemoveMoney(w http.ResponseWriter, r *http.Request) {
	h.adjustMoney(w, r, "remove")
}

func (h *EconomyHandler) ResetMoney(w http.ResponseWriter, r *http.Request) {
	h.adjustMoney(w, r, "reset")
}

func (h *EconomyHandler) adjustMoney(w http.ResponseWriter, r *http.Request, op string) {
	gid := chi.URLParam(r, "gid")

	var req MoneyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !h.requireModPerms(w, r, gid, req.Caller) {
		return
	}

	var account *domain.Account
	var err error
	switch op {
	case "add":
		account, err = h.economyService.AddMoney(r.Context(), gid, req.UID, req.Hero, req.Amount)
	case "remove":
		account, err = h.economyService.RemoveMoney(r.Context(), gid, req.UID, req.Hero, req.Amount)
	case "reset":
		account, err = h.economyService.ResetMoney(r.Context(), gid, req.UID, req.Hero)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.hub.Publish(events.Transaction{
		GID: gid, Type: events.TxAdmin, UID: req.UID, Hero: req.Hero, Amount: req.Amount,
	})

	writeJSON(w, http.StatusOK, accountResponse(account))
}

type TransferRequest struct {
	FromUID  string `json:"fromUid"`
	FromHero string `json:"fromHero"`
	ToUID    string `json:"toUid"`
	ToHero   string `json:"toHero"`
	Amount   int64  `json:"amount"`
}

func (h *EconomyHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")

	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	err := h.economyService.Transfer(r.Context(), gid, req.FromUID, req.FromHero, req.ToUID, req.ToHero, req.Amount)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.hub.Publish(events.Transaction{
		GID: gid, Type: events.TxTransfer, UID: req.FromUID, Hero: req.FromHero, Amount: req.Amount,
	})

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type HeroAccountRequest struct {
	UID  string `json:"uid"`
	Hero string `json:"hero"`
}

func (h *EconomyHandler) CreateHeroAccount(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")

	var req HeroAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.economyService.CreateHeroAccount(r.Context(), gid, req.UID, req.Hero)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, accountResponse(account))
}

func (h *EconomyHandler) DeleteHeroAccount(w http.ResponseWriter, r *http.Request) {
	gid := chi.URLParam(r, "gid")

	var req HeroAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.economyService.DeleteHeroAccount(r.Context(), gid, req.UID, req.Hero); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
