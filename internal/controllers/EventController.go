package controllers

import (
	"context"
	"invitebot/internal/providers"
	"invitebot/internal/services"
	"invitebot/internal/structures"
	"runtime/debug"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/atomic"
)

// EventController turns gateway events into service calls. Every event runs
// with its own timeout and a failure never escapes the handler.
type EventController struct {
	logger      providers.Logger
	attribution services.AttributionServiceInterface
	commands    services.CommandServiceInterface
	timeout     time.Duration

	botUserID atomic.String
	ready     atomic.Bool
	joins     atomic.Int64
}

func NewEventController(conf *structures.Config, logger providers.Logger, attribution services.AttributionServiceInterface, commands services.CommandServiceInterface) *EventController {
	return &EventController{
		logger:      logger,
		attribution: attribution,
		commands:    commands,
		timeout:     conf.Discord.RequestTimeout,
	}
}

func (ec *EventController) Register(session providers.DiscordSessionInterface) {
	session.AddHandler(ec.OnReady)
	session.AddHandler(ec.OnGuildCreate)
	session.AddHandler(ec.OnMemberAdd)
	session.AddHandler(ec.OnInviteCreate)
	session.AddHandler(ec.OnMessageCreate)
}

func (ec *EventController) Ready() bool {
	return ec.ready.Load()
}

// JoinsHandled counts join events that reached the attribution service.
func (ec *EventController) JoinsHandled() int64 {
	return ec.joins.Load()
}

func (ec *EventController) OnReady(_ *discordgo.Session, e *discordgo.Ready) {
	if e == nil || e.User == nil {
		return
	}
	ec.botUserID.Store(e.User.ID)
	ec.ready.Store(true)
	ec.logger.Infof(providers.TypeApp, "Logged in as %s, %d guilds pending", e.User.Username, len(e.Guilds))
}

// OnGuildCreate captures the baseline when a guild becomes available.
func (ec *EventController) OnGuildCreate(_ *discordgo.Session, e *discordgo.GuildCreate) {
	if e == nil || e.Guild == nil || e.Unavailable {
		return
	}
	guildID := e.ID
	ec.run(providers.TypeJoin, "guild create "+guildID, func(ctx context.Context) {
		_ = ec.attribution.Seed(ctx, guildID)
	})
}

func (ec *EventController) OnMemberAdd(_ *discordgo.Session, e *discordgo.GuildMemberAdd) {
	if e == nil || e.Member == nil || e.User == nil {
		return
	}
	join := services.MemberJoin{
		GuildID:    e.GuildID,
		MemberID:   e.User.ID,
		MemberName: e.User.Username,
		JoinedAt:   e.JoinedAt,
	}
	ec.joins.Inc()
	ec.run(providers.TypeJoin, "member join "+join.MemberID, func(ctx context.Context) {
		_, _ = ec.attribution.HandleJoin(ctx, join)
	})
}

func (ec *EventController) OnInviteCreate(_ *discordgo.Session, e *discordgo.InviteCreate) {
	if e == nil || e.Invite == nil || e.GuildID == "" {
		return
	}
	rec := providers.InviteRecordFromDiscord(e.Code, e.Uses, e.Inviter)
	ec.run(providers.TypeJoin, "invite create "+rec.Code, func(context.Context) {
		ec.attribution.TrackInvite(e.GuildID, rec)
	})
}

func (ec *EventController) OnMessageCreate(_ *discordgo.Session, e *discordgo.MessageCreate) {
	if e == nil || e.Message == nil || e.Author == nil || e.GuildID == "" {
		return
	}
	// only the bot's own messages are dropped; other bots may issue commands
	if e.Author.ID == ec.botUserID.Load() {
		return
	}
	cmd := services.Command{
		GuildID:    e.GuildID,
		ChannelID:  e.ChannelID,
		AuthorID:   e.Author.ID,
		AuthorName: e.Author.Username,
		Content:    e.Content,
	}
	if e.Member != nil {
		cmd.AuthorRoleIDs = e.Member.Roles
	}
	ec.run(providers.TypeCommand, "message "+e.ID, func(ctx context.Context) {
		_, _ = ec.commands.Dispatch(ctx, cmd)
	})
}

func (ec *EventController) run(t providers.TypeEnum, what string, fn func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			ec.logger.Errorf(t, "Recovered from panic while handling %s: %v\n%s", what, r, debug.Stack())
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), ec.timeout)
	defer cancel()
	fn(ctx)
}
