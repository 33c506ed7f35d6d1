package providers

import (
	"context"
	"errors"
	"fmt"
	"invitebot/internal/models"
	"invitebot/internal/structures"
	"net/http"

	"github.com/bwmarrin/discordgo"
)

const discordIntents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildInvites |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsMessageContent

// DiscordSessionInterface is the gateway part of *discordgo.Session used by the app.
type DiscordSessionInterface interface {
	AddHandler(handler interface{}) func()
	Open() error
	Close() error
}

func NewDiscordSession(conf *structures.Config) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + conf.Discord.Token)
	if err != nil {
		return nil, fmt.Errorf("unable to create discord session: %w", err)
	}
	session.Identify.Intents = discordIntents
	session.StateEnabled = true
	return session, nil
}

func ProvideDiscordGateway(session *discordgo.Session) DiscordSessionInterface {
	return session
}

type discordREST interface {
	GuildInvites(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Invite, error)
	GuildRoles(guildID string, options ...discordgo.RequestOption) ([]*discordgo.Role, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordPlatform adapts the discord REST API to the invite directory, role
// and messaging operations the services need.
type DiscordPlatform struct {
	rest discordREST
}

func NewDiscordPlatform(session *discordgo.Session) *DiscordPlatform {
	return &DiscordPlatform{rest: session}
}

func (p *DiscordPlatform) ListInvites(ctx context.Context, guildID string) ([]models.InviteRecord, error) {
	invites, err := p.rest.GuildInvites(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, classifyDiscordError("list invites of guild "+guildID, err)
	}
	records := make([]models.InviteRecord, 0, len(invites))
	for _, inv := range invites {
		if inv == nil {
			continue
		}
		records = append(records, InviteRecordFromDiscord(inv.Code, inv.Uses, inv.Inviter))
	}
	return records, nil
}

func (p *DiscordPlatform) GuildRoles(ctx context.Context, guildID string) ([]models.Role, error) {
	roles, err := p.rest.GuildRoles(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, classifyDiscordError("list roles of guild "+guildID, err)
	}
	out := make([]models.Role, 0, len(roles))
	for _, r := range roles {
		if r == nil {
			continue
		}
		out = append(out, models.Role{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

func (p *DiscordPlatform) AddRole(ctx context.Context, guildID, userID, roleID string) error {
	err := p.rest.GuildMemberRoleAdd(guildID, userID, roleID, discordgo.WithContext(ctx))
	if err != nil {
		return classifyDiscordError("add role "+roleID+" to "+userID, err)
	}
	return nil
}

func (p *DiscordPlatform) Send(ctx context.Context, channelID, text string) error {
	_, err := p.rest.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return classifyDiscordError("send message to channel "+channelID, err)
	}
	return nil
}

// InviteRecordFromDiscord builds a record from invite fields; inviter is nil
// for vanity and widget invites.
func InviteRecordFromDiscord(code string, uses int, inviter *discordgo.User) models.InviteRecord {
	rec := models.InviteRecord{Code: code, Uses: uses}
	if inviter != nil {
		rec.InviterID = inviter.ID
		rec.InviterName = inviter.Username
	}
	return rec
}

func classifyDiscordError(op string, err error) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w: %v", op, models.ErrAccessDenied, err)
		}
	}
	return fmt.Errorf("%s: %w: %v", op, models.ErrUnavailable, err)
}
