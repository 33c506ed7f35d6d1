package models

import "time"

// Attribution is the outcome of matching one member join to an invite.
// InviterID is empty when no invite showed an increase.
type Attribution struct {
	ID          string    `json:"id"`
	GuildID     string    `json:"guild_id"`
	MemberID    string    `json:"member_id"`
	MemberName  string    `json:"member_name"`
	InviterID   string    `json:"inviter_id,omitempty"`
	InviterName string    `json:"inviter_name,omitempty"`
	Code        string    `json:"code,omitempty"`
	Uses        int       `json:"uses,omitempty"`
	Candidates  []string  `json:"candidates,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
}

func (a Attribution) Known() bool {
	return a.InviterID != ""
}

// Ambiguous reports whether more than one invite increased between snapshots.
func (a Attribution) Ambiguous() bool {
	return len(a.Candidates) > 1
}
