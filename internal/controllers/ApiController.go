package controllers

import (
	json "github.com/goccy/go-json"
	"invitebot/internal/models"
	"invitebot/internal/providers"
	"net/http"
)

type ApiController struct {
	logger  providers.Logger
	store   *models.SnapshotStore
	history *models.AttributionLog
	cache   providers.CacheProviderInterface
}

type guildSummary struct {
	GuildID string `json:"guild_id"`
	Invites int    `json:"invites"`
}

func NewApiController(logger providers.Logger, store *models.SnapshotStore, history *models.AttributionLog, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		store:   store,
		history: history,
		cache:   cache,
	}
}

func getGuild(w http.ResponseWriter, r *http.Request) (string, bool) {
	guild := r.URL.Query().Get("guild")
	if guild == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return "", false
	}
	return guild, true
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, error)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result, err := compute()
	if err != nil {
		ac.logger.Errorf(providers.TypeHttp, "Compute %s: %v", cacheKey, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		ac.logger.Errorf(providers.TypeHttp, "Marshal %s: %v", cacheKey, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

// GetGuilds lists the guilds that currently have a baseline.
func (ac *ApiController) GetGuilds(w http.ResponseWriter, r *http.Request) {
	ac.serveFromCacheOrCompute(w, "guilds", func() (any, error) {
		ids := ac.store.Guilds()
		out := make([]guildSummary, 0, len(ids))
		for _, id := range ids {
			snap, _ := ac.store.Get(id)
			out = append(out, guildSummary{GuildID: id, Invites: snap.Len()})
		}
		return out, nil
	})
}

func (ac *ApiController) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	guild, ok := getGuild(w, r)
	if !ok {
		return
	}
	snap, found := ac.store.Get(guild)
	if !found {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	ac.serveFromCacheOrCompute(w, "snapshot:"+guild, func() (any, error) {
		return snap, nil
	})
}

// GetAttributions returns the recent join attributions of a guild, newest first.
func (ac *ApiController) GetAttributions(w http.ResponseWriter, r *http.Request) {
	guild, ok := getGuild(w, r)
	if !ok {
		return
	}
	ac.serveFromCacheOrCompute(w, "attributions:"+guild, func() (any, error) {
		list := ac.history.List(guild)
		if list == nil {
			list = []models.Attribution{}
		}
		return list, nil
	})
}
