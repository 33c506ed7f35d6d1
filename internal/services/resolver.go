package services

import (
	"invitebot/internal/models"
	"sort"
)

// Resolve finds the invite whose use count grew between previous and current.
// Only codes present in both snapshots are compared. When several invites grew
// the lowest code wins and all of them are listed in Candidates.
func Resolve(previous, current models.Snapshot) models.Attribution {
	var candidates []models.InviteRecord
	for _, cur := range current.Records() {
		prev, ok := previous.Lookup(cur.Code)
		if !ok || cur.Uses <= prev.Uses {
			continue
		}
		candidates = append(candidates, cur)
	}
	if len(candidates) == 0 {
		return models.Attribution{}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Code < candidates[j].Code
	})
	codes := make([]string, len(candidates))
	for i, c := range candidates {
		codes[i] = c.Code
	}

	winner := candidates[0]
	return models.Attribution{
		InviterID:   winner.InviterID,
		InviterName: winner.InviterName,
		Code:        winner.Code,
		Uses:        winner.Uses,
		Candidates:  codes,
	}
}
