package services

import (
	"context"
	"errors"
	"fmt"
	"invitebot/internal/models"
	"invitebot/internal/providers"
	"invitebot/internal/structures"
	"strings"
	"time"
)

// Command is a chat message addressed to the bot.
type Command struct {
	GuildID       string
	ChannelID     string
	AuthorID      string
	AuthorName    string
	AuthorRoleIDs []string
	Content       string
}

type CommandServiceInterface interface {
	// Dispatch runs the command the message starts with. It reports false
	// when the message is not a command.
	Dispatch(ctx context.Context, cmd Command) (bool, error)
	CheckInvites(ctx context.Context, cmd Command) error
}

type CommandService struct {
	directory InviteDirectory
	roles     RoleManager
	messenger Messenger
	policy    TierPolicy
	prefixes  map[string]string
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	now       func() time.Time
}

func NewCommandService(conf *structures.Config, directory InviteDirectory, roles RoleManager, messenger Messenger, logger providers.Logger, metrics providers.MetricsProviderInterface) CommandServiceInterface {
	return &CommandService{
		directory: directory,
		roles:     roles,
		messenger: messenger,
		policy:    NewTierPolicy(conf),
		prefixes:  conf.CommandPrefixes(),
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

func (cs *CommandService) Dispatch(ctx context.Context, cmd Command) (bool, error) {
	switch {
	case strings.HasPrefix(cmd.Content, cs.prefixes[structures.CommandCheckInvites]):
		return true, cs.CheckInvites(ctx, cmd)
	case strings.HasPrefix(cmd.Content, cs.prefixes[structures.CommandGrantPermission]):
		return true, cs.refuseGrantPermission(ctx, cmd)
	}
	return false, nil
}

// CheckInvites reports the author's invite count and grants tier roles.
func (cs *CommandService) CheckInvites(ctx context.Context, cmd Command) error {
	const name = structures.CommandCheckInvites

	invites, err := cs.directory.ListInvites(ctx, cmd.GuildID)
	if err != nil {
		cs.metrics.IncCommands(name, providers.OutcomeFailed)
		cs.logger.Errorf(providers.TypeCommand, "Unable to list invites of guild %s for %s: %s", cmd.GuildID, cmd.AuthorID, err)
		return errors.Join(err, cs.reply(ctx, cmd, "Could not read invites right now."))
	}

	snap := models.NewSnapshot(cmd.GuildID, cs.now(), invites)
	invite, ok := snap.FindByInviter(cmd.AuthorID)
	if !ok {
		cs.metrics.IncCommands(name, providers.OutcomeNotFound)
		return cs.reply(ctx, cmd, fmt.Sprintf("%s has no invites.", cmd.AuthorName))
	}

	guildRoles, err := cs.roles.GuildRoles(ctx, cmd.GuildID)
	if err != nil {
		cs.metrics.IncCommands(name, providers.OutcomeFailed)
		cs.logger.Errorf(providers.TypeCommand, "Unable to list roles of guild %s: %s", cmd.GuildID, err)
		return errors.Join(err, cs.reply(ctx, cmd, "Could not read roles right now."))
	}
	held := models.HeldLabels(cmd.AuthorRoleIDs, guildRoles, cs.policy.Labels()...)

	var b strings.Builder
	fmt.Fprintf(&b, "%s has %d invite(s).\n", cmd.AuthorName, invite.Uses)
	for _, label := range cs.policy.Held(held) {
		fmt.Fprintf(&b, "%s has the '%s' role!\n", cmd.AuthorName, label)
	}

	var grantErrs []error
	for _, label := range cs.policy.Decide(invite.Uses, held) {
		roleID, ok := models.RoleIDByName(guildRoles, label)
		if !ok {
			cs.logger.Warnf(providers.TypeCommand, "Guild %s has no '%s' role, skipping grant for %s", cmd.GuildID, label, cmd.AuthorID)
			continue
		}
		if err := cs.roles.AddRole(ctx, cmd.GuildID, cmd.AuthorID, roleID); err != nil {
			cs.metrics.IncRoleGrants(label, providers.OutcomeFailed)
			cs.logger.Errorf(providers.TypeCommand, "Unable to grant '%s' to %s in guild %s: %s", label, cmd.AuthorID, cmd.GuildID, err)
			fmt.Fprintf(&b, "Could not assign the '%s' role.\n", label)
			grantErrs = append(grantErrs, err)
			continue
		}
		cs.metrics.IncRoleGrants(label, providers.OutcomeOK)
		cs.logger.Infof(providers.TypeCommand, "Granted '%s' to %s in guild %s", label, cmd.AuthorID, cmd.GuildID)
		fmt.Fprintf(&b, "%s has been assigned the '%s' role!\n", cmd.AuthorName, label)
	}

	if len(grantErrs) > 0 {
		cs.metrics.IncCommands(name, providers.OutcomeFailed)
	} else {
		cs.metrics.IncCommands(name, providers.OutcomeOK)
	}
	grantErrs = append(grantErrs, cs.reply(ctx, cmd, b.String()))
	return errors.Join(grantErrs...)
}

// Escalating the bot's own permissions is not something it does on request.
func (cs *CommandService) refuseGrantPermission(ctx context.Context, cmd Command) error {
	cs.metrics.IncCommands(structures.CommandGrantPermission, providers.OutcomeRefused)
	cs.logger.Warnf(providers.TypeCommand, "Refused permission escalation requested by %s in guild %s", cmd.AuthorID, cmd.GuildID)
	return cs.reply(ctx, cmd, "Permission changes are not handled by this bot.")
}

func (cs *CommandService) reply(ctx context.Context, cmd Command, text string) error {
	if err := cs.messenger.Send(ctx, cmd.ChannelID, text); err != nil {
		cs.logger.Errorf(providers.TypeCommand, "Unable to reply in channel %s: %s", cmd.ChannelID, err)
		return err
	}
	return nil
}
