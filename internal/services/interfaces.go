package services

import (
	"context"
	"invitebot/internal/models"
)

// InviteDirectory lists the active invites of a guild.
type InviteDirectory interface {
	ListInvites(ctx context.Context, guildID string) ([]models.InviteRecord, error)
}

type RoleManager interface {
	GuildRoles(ctx context.Context, guildID string) ([]models.Role, error)
	AddRole(ctx context.Context, guildID, userID, roleID string) error
}

type Messenger interface {
	Send(ctx context.Context, channelID, text string) error
}
