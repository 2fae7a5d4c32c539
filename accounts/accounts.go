package accounts

import (
	"context"
	"log"
	"net/http"
	"sync"

	"bend/models"
	"bend/repo"
	"bend/utils"

	"github.com/julienschmidt/httprouter"
)

// Resolver turns a bare UUID into the account living behind it. The three
// kinds share one UUID space across disjoint collections, so the lookups
// run against all three at once and at most one can hit.
type Resolver struct {
	accounts repo.Accounts
}

func NewResolver(accounts repo.Accounts) *Resolver {
	return &Resolver{accounts: accounts}
}

// Resolve looks the ID up in users, artists, and founders concurrently.
// A failed branch is logged and treated as a miss; a nil Account means
// no collection knows the ID.
func (r *Resolver) Resolve(ctx context.Context, id string) *models.Account {
	var (
		wg      sync.WaitGroup
		user    *models.User
		artist  *models.Artist
		founder *models.Founder
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		var err error
		if user, err = r.accounts.UserByID(ctx, id); err != nil {
			log.Printf("accounts: user lookup for %s failed: %v", id, err)
			user = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if artist, err = r.accounts.ArtistByID(ctx, id); err != nil {
			log.Printf("accounts: artist lookup for %s failed: %v", id, err)
			artist = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		if founder, err = r.accounts.FounderByID(ctx, id); err != nil {
			log.Printf("accounts: founder lookup for %s failed: %v", id, err)
			founder = nil
		}
	}()
	wg.Wait()

	switch {
	case user != nil:
		return &models.Account{ID: id, Kind: models.KindUser, User: user}
	case artist != nil:
		return &models.Account{ID: id, Kind: models.KindArtist, Artist: artist}
	case founder != nil:
		return &models.Account{ID: id, Kind: models.KindFounder, Founder: founder}
	default:
		return nil
	}
}

type Handler struct {
	resolver *Resolver
}

func NewHandler(resolver *Resolver) *Handler {
	return &Handler{resolver: resolver}
}

// GET /api/accounts/:id
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	account := h.resolver.Resolve(r.Context(), ps.ByName("id"))
	if account == nil {
		utils.RespondWithError(w, http.StatusNotFound, "Account not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "account": account})
}
