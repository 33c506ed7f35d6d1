package models

import (
	"time"

	json "github.com/goccy/go-json"
)

// Snapshot is an immutable capture of a guild's active invites.
// Codes are unique; records keep the order the platform returned them in.
type Snapshot struct {
	GuildID string
	TakenAt time.Time
	records []InviteRecord
	byCode  map[string]int
}

// NewSnapshot copies records into a new snapshot. When a code appears more
// than once the first record wins.
func NewSnapshot(guildID string, takenAt time.Time, records []InviteRecord) Snapshot {
	s := Snapshot{
		GuildID: guildID,
		TakenAt: takenAt,
		records: make([]InviteRecord, 0, len(records)),
		byCode:  make(map[string]int, len(records)),
	}
	for _, r := range records {
		if _, dup := s.byCode[r.Code]; dup {
			continue
		}
		s.byCode[r.Code] = len(s.records)
		s.records = append(s.records, r)
	}
	return s
}

func (s Snapshot) Len() int {
	return len(s.records)
}

func (s Snapshot) IsEmpty() bool {
	return len(s.records) == 0
}

// Records returns a copy of the snapshot's records.
func (s Snapshot) Records() []InviteRecord {
	out := make([]InviteRecord, len(s.records))
	copy(out, s.records)
	return out
}

func (s Snapshot) Lookup(code string) (InviteRecord, bool) {
	i, ok := s.byCode[code]
	if !ok {
		return InviteRecord{}, false
	}
	return s.records[i], true
}

// FindByInviter returns the first record, in enumeration order, created by
// the given user. Later invites by the same user are not considered.
func (s Snapshot) FindByInviter(userID string) (InviteRecord, bool) {
	for _, r := range s.records {
		if r.InviterID == userID {
			return r, true
		}
	}
	return InviteRecord{}, false
}

// With returns a new snapshot where rec replaces the record with the same
// code, or is appended when the code is new.
func (s Snapshot) With(rec InviteRecord) Snapshot {
	records := s.Records()
	if i, ok := s.byCode[rec.Code]; ok {
		records[i] = rec
	} else {
		records = append(records, rec)
	}
	return NewSnapshot(s.GuildID, s.TakenAt, records)
}

type snapshotJSON struct {
	GuildID string         `json:"guild_id"`
	TakenAt time.Time      `json:"taken_at"`
	Invites []InviteRecord `json:"invites"`
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotJSON{
		GuildID: s.GuildID,
		TakenAt: s.TakenAt,
		Invites: s.Records(),
	})
}
