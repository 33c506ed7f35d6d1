package models

// InviteRecord is the state of one invite link at the moment it was captured.
type InviteRecord struct {
	Code        string `json:"code"`
	Uses        int    `json:"uses"`
	InviterID   string `json:"inviter_id"`
	InviterName string `json:"inviter_name"`
}
