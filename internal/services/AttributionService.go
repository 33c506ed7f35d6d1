package services

import (
	"context"
	"errors"
	"invitebot/internal/models"
	"invitebot/internal/providers"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
)

// MemberJoin describes a member arriving in a guild.
type MemberJoin struct {
	GuildID    string
	MemberID   string
	MemberName string
	JoinedAt   time.Time
}

type AttributionServiceInterface interface {
	Seed(ctx context.Context, guildID string) error
	HandleJoin(ctx context.Context, join MemberJoin) (models.Attribution, error)
	TrackInvite(guildID string, rec models.InviteRecord) bool
	RefreshAll(ctx context.Context) error
}

type AttributionService struct {
	directory InviteDirectory
	store     *models.SnapshotStore
	history   *models.AttributionLog
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	locks     sync.Map
	pending   sync.Map
	now       func() time.Time
}

func NewAttributionService(directory InviteDirectory, store *models.SnapshotStore, history *models.AttributionLog, logger providers.Logger, metrics providers.MetricsProviderInterface) AttributionServiceInterface {
	return &AttributionService{
		directory: directory,
		store:     store,
		history:   history,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// lockGuild serialises fetch, diff and baseline update per guild.
func (as *AttributionService) lockGuild(guildID string) func() {
	mu, _ := as.locks.LoadOrStore(guildID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

// pendingJoins counts joins of a guild that are waiting for or holding the
// guild lock.
func (as *AttributionService) pendingJoins(guildID string) *atomic.Int64 {
	n, _ := as.pending.LoadOrStore(guildID, atomic.NewInt64(0))
	return n.(*atomic.Int64)
}

func (as *AttributionService) fetch(ctx context.Context, guildID string) (models.Snapshot, error) {
	start := as.now()
	records, err := as.directory.ListInvites(ctx, guildID)
	as.metrics.ObserveInviteFetchDuration(as.now().Sub(start))
	if err != nil {
		return models.Snapshot{}, err
	}
	return models.NewSnapshot(guildID, as.now(), records), nil
}

// Seed captures the guild's current invites as its baseline.
func (as *AttributionService) Seed(ctx context.Context, guildID string) error {
	unlock := as.lockGuild(guildID)
	defer unlock()
	return as.capture(ctx, guildID)
}

// capture replaces the baseline; the caller holds the guild lock.
func (as *AttributionService) capture(ctx context.Context, guildID string) error {
	snap, err := as.fetch(ctx, guildID)
	if err != nil {
		as.logger.Errorf(providers.TypeJoin, "Unable to capture invite baseline for guild %s: %s", guildID, err)
		return err
	}
	as.store.Put(guildID, snap)
	as.logger.Infof(providers.TypeJoin, "Captured baseline of %d invites for guild %s", snap.Len(), guildID)
	return nil
}

// HandleJoin attributes a join and replaces the guild baseline with the
// invites fetched for it. On fetch failure nothing is recorded.
func (as *AttributionService) HandleJoin(ctx context.Context, join MemberJoin) (models.Attribution, error) {
	pending := as.pendingJoins(join.GuildID)
	pending.Inc()
	defer pending.Dec()

	unlock := as.lockGuild(join.GuildID)
	defer unlock()

	current, err := as.fetch(ctx, join.GuildID)
	if err != nil {
		as.metrics.IncJoins(providers.JoinFailed)
		as.logger.Errorf(providers.TypeJoin, "Unable to attribute join of %s (%s) in guild %s: %s", join.MemberName, join.MemberID, join.GuildID, err)
		return models.Attribution{}, err
	}

	previous, hadBaseline := as.store.Get(join.GuildID)
	a := Resolve(previous, current)
	a.ID = uuid.NewString()
	a.GuildID = join.GuildID
	a.MemberID = join.MemberID
	a.MemberName = join.MemberName
	a.JoinedAt = join.JoinedAt
	if a.JoinedAt.IsZero() {
		a.JoinedAt = current.TakenAt
	}

	as.store.Put(join.GuildID, current)
	as.history.Add(a)

	switch {
	case a.Ambiguous():
		as.metrics.IncJoins(providers.JoinAmbiguous)
		as.logger.Warnf(providers.TypeJoin, "%s joined guild %s while invites %s increased, attributing to %s from %s", a.MemberName, a.GuildID, strings.Join(a.Candidates, ","), a.Code, inviterLabel(a))
	case a.Known():
		as.metrics.IncJoins(providers.JoinAttributed)
		as.logger.Infof(providers.TypeJoin, "%s joined guild %s using invite %s from %s", a.MemberName, a.GuildID, a.Code, inviterLabel(a))
	case a.Code != "":
		as.metrics.IncJoins(providers.JoinUnknown)
		as.logger.Infof(providers.TypeJoin, "%s joined guild %s using invite %s which has no inviter", a.MemberName, a.GuildID, a.Code)
	case !hadBaseline:
		as.metrics.IncJoins(providers.JoinUnknown)
		as.logger.Warnf(providers.TypeJoin, "%s joined guild %s before an invite baseline existed", a.MemberName, a.GuildID)
	default:
		as.metrics.IncJoins(providers.JoinUnknown)
		as.logger.Infof(providers.TypeJoin, "%s joined guild %s through an untracked invite", a.MemberName, a.GuildID)
	}
	return a, nil
}

// TrackInvite adds an invite created after the baseline was taken. It is a
// no-op when the guild has no baseline yet.
func (as *AttributionService) TrackInvite(guildID string, rec models.InviteRecord) bool {
	unlock := as.lockGuild(guildID)
	defer unlock()

	if !as.store.Merge(guildID, rec) {
		as.logger.Debugf(providers.TypeJoin, "Ignoring invite %s for guild %s without baseline", rec.Code, guildID)
		return false
	}
	as.logger.Debugf(providers.TypeJoin, "Tracking new invite %s by %s in guild %s", rec.Code, rec.InviterName, guildID)
	return true
}

// RefreshAll re-captures the baseline of every tracked guild. A guild with a
// join in flight is skipped: a baseline taken now would already contain that
// join's use and leave it unattributed.
func (as *AttributionService) RefreshAll(ctx context.Context) error {
	var errs []error
	for _, guildID := range as.store.Guilds() {
		if err := as.refresh(ctx, guildID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (as *AttributionService) refresh(ctx context.Context, guildID string) error {
	unlock := as.lockGuild(guildID)
	defer unlock()

	if n := as.pendingJoins(guildID).Load(); n > 0 {
		as.logger.Debugf(providers.TypeJoin, "Skipping baseline refresh of guild %s, %d joins pending", guildID, n)
		return nil
	}
	return as.capture(ctx, guildID)
}

func inviterLabel(a models.Attribution) string {
	if a.InviterName != "" {
		return a.InviterName
	}
	if a.InviterID != "" {
		return a.InviterID
	}
	return "an unknown inviter"
}
