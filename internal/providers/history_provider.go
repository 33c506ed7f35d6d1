package providers

import (
	"invitebot/internal/models"
	"invitebot/internal/structures"
)

// NewAttributionHistory sizes the per-guild attribution log from config.
func NewAttributionHistory(conf *structures.Config) *models.AttributionLog {
	return models.NewAttributionLog(conf.Attribution.HistorySize)
}
