package services

import (
	"context"
	"errors"
	"fmt"
	"invitebot/internal/models"
	"invitebot/internal/providers"
	"invitebot/internal/testutil"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type attributionFixture struct {
	platform *testutil.FakePlatform
	store    *models.SnapshotStore
	history  *models.AttributionLog
	logger   *testutil.MockLogger
	metrics  *testutil.MockMetrics
	service  *AttributionService
}

func newAttributionFixture() *attributionFixture {
	f := &attributionFixture{
		platform: testutil.NewFakePlatform(),
		store:    models.NewSnapshotStore(),
		history:  models.NewAttributionLog(10),
		logger:   &testutil.MockLogger{},
		metrics:  testutil.NewMockMetrics(),
	}
	f.service = NewAttributionService(f.platform, f.store, f.history, f.logger, f.metrics).(*AttributionService)
	return f
}

func join(member string) MemberJoin {
	return MemberJoin{GuildID: "g1", MemberID: member, MemberName: member + "-name", JoinedAt: t0}
}

func TestSeed_StoresBaseline(t *testing.T) {
	f := newAttributionFixture()
	f.platform.SetInvites("g1", inv("abc", 3, "U1"))

	require.NoError(t, f.service.Seed(context.Background(), "g1"))

	baseline, ok := f.store.Get("g1")
	require.True(t, ok)
	rec, _ := baseline.Lookup("abc")
	assert.Equal(t, 3, rec.Uses)
	assert.Equal(t, 1, f.metrics.Fetches)
}

func TestSeed_FailureLeavesStoreEmpty(t *testing.T) {
	f := newAttributionFixture()
	f.platform.ListErr = fmt.Errorf("list: %w", models.ErrAccessDenied)

	err := f.service.Seed(context.Background(), "g1")
	assert.ErrorIs(t, err, models.ErrAccessDenied)
	assert.Equal(t, 0, f.store.Len())
	assert.Equal(t, 1, f.logger.Count("error"))
}

func TestHandleJoin_AttributesInviter(t *testing.T) {
	f := newAttributionFixture()
	f.platform.SetInvites("g1", inv("abc", 3, "U1"))
	require.NoError(t, f.service.Seed(context.Background(), "g1"))

	f.platform.Use("g1", "abc")
	a, err := f.service.HandleJoin(context.Background(), join("M1"))
	require.NoError(t, err)

	assert.Equal(t, "U1", a.InviterID)
	assert.Equal(t, "abc", a.Code)
	assert.Equal(t, "M1", a.MemberID)
	assert.Equal(t, "g1", a.GuildID)
	assert.Equal(t, t0, a.JoinedAt)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, 1, f.metrics.Joins[providers.JoinAttributed])

	list := f.history.List("g1")
	require.Len(t, list, 1)
	assert.Equal(t, a, list[0])
}

func TestHandleJoin_UpdatesBaselineForNextJoin(t *testing.T) {
	f := newAttributionFixture()
	f.platform.SetInvites("g1", inv("a", 0, "U1"), inv("b", 0, "U2"))
	require.NoError(t, f.service.Seed(context.Background(), "g1"))

	f.platform.Use("g1", "a")
	first, err := f.service.HandleJoin(context.Background(), join("M1"))
	require.NoError(t, err)

	f.platform.Use("g1", "b")
	second, err := f.service.HandleJoin(context.Background(), join("M2"))
	require.NoError(t, err)

	assert.Equal(t, "U1", first.InviterID)
	assert.Equal(t, "U2", second.InviterID)

	baseline, _ := f.store.Get("g1")
	rec, _ := baseline.Lookup("b")
	assert.Equal(t, 1, rec.Uses)
}

func TestHandleJoin_WithoutBaselineIsUnknownThenSeeds(t *testing.T) {
	f := newAttributionFixture()
	f.platform.SetInvites("g1", inv("abc", 4, "U1"))

	a, err := f.service.HandleJoin(context.Background(), join("M1"))
	require.NoError(t, err)
	assert.False(t, a.Known())
	assert.Equal(t, 1, f.metrics.Joins[providers.JoinUnknown])

	_, ok := f.store.Get("g1")
	assert.True(t, ok)

	f.platform.Use("g1", "abc")
	a, err = f.service.HandleJoin(context.Background(), join("M2"))
	require.NoError(t, err)
	assert.Equal(t, "U1", a.InviterID)
}

func TestHandleJoin_ListFailureRecordsNothing(t *testing.T) {
	f := newAttributionFixture()
	f.platform.SetInvites("g1", inv("abc", 3, "U1"))
	require.NoError(t, f.service.Seed(context.Background(), "g1"))
	before, _ := f.store.Get("g1")

	f.platform.Use("g1", "abc")
	f.platform.ListErr = fmt.Errorf("list: %w", models.ErrAccessDenied)

	_, err := f.service.HandleJoin(context.Background(), join("M1"))
	assert.ErrorIs(t, err, models.ErrAccessDenied)

	after, _ := f.store.Get("g1")
	assert.Equal(t, before, after)
	assert.Empty(t, f.history.List("g1"))
	assert.Equal(t, 1, f.metrics.Joins[providers.JoinFailed])
	assert.Equal(t, 1, f.logger.Count("error"))

	// the next event is processed normally
	f.platform.ListErr = nil
	a, err := f.service.HandleJoin(context.Background(), join("M2"))
	require.NoError(t, err)
	assert.Equal(t, "U1", a.InviterID)
}

func TestHandleJoin_AmbiguousIsLoggedAndCounted(t *testing.T) {
	f := newAttributionFixture()
	f.platform.SetInvites("g1", inv("b", 0, "U1"), inv("a", 0, "U2"))
	require.NoError(t, f.service.Seed(context.Background(), "g1"))

	f.platform.Use("g1", "a")
	f.platform.Use("g1", "b")
	a, err := f.service.HandleJoin(context.Background(), join("M1"))
	require.NoError(t, err)

	assert.True(t, a.Ambiguous())
	assert.Equal(t, "U2", a.InviterID)
	assert.Equal(t, 1, f.metrics.Joins[providers.JoinAmbiguous])
	assert.Equal(t, 1, f.logger.Count("warn"))
}

func TestTrackInvite_MakesNewInviteAttributable(t *testing.T) {
	f := newAttributionFixture()
	f.platform.SetInvites("g1", inv("old", 1, "U1"))
	require.NoError(t, f.service.Seed(context.Background(), "g1"))

	f.platform.SetInvites("g1", inv("old", 1, "U1"), inv("fresh", 0, "U2"))
	assert.True(t, f.service.TrackInvite("g1", inv("fresh", 0, "U2")))

	f.platform.Use("g1", "fresh")
	a, err := f.service.HandleJoin(context.Background(), join("M1"))
	require.NoError(t, err)
	assert.Equal(t, "U2", a.InviterID)
}

func TestTrackInvite_NoBaseline(t *testing.T) {
	f := newAttributionFixture()
	assert.False(t, f.service.TrackInvite("g1", inv("fresh", 0, "U2")))
	assert.Equal(t, 0, f.store.Len())
}

func TestRefreshAll_ReseedsTrackedGuilds(t *testing.T) {
	f := newAttributionFixture()
	f.platform.SetInvites("g1", inv("a", 1, "U1"))
	f.platform.SetInvites("g2", inv("b", 1, "U2"))
	require.NoError(t, f.service.Seed(context.Background(), "g1"))
	require.NoError(t, f.service.Seed(context.Background(), "g2"))

	f.platform.Use("g1", "a")
	f.platform.Use("g2", "b")
	require.NoError(t, f.service.RefreshAll(context.Background()))

	for _, id := range []string{"g1", "g2"} {
		baseline, _ := f.store.Get(id)
		assert.Equal(t, 2, baseline.Records()[0].Uses, id)
	}
}

func TestRefreshAll_CollectsErrors(t *testing.T) {
	f := newAttributionFixture()
	f.store.Put("g1", models.Snapshot{})
	f.store.Put("g2", models.Snapshot{})
	f.platform.ListErr = errors.New("boom")

	err := f.service.RefreshAll(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 2, f.logger.Count("error"))
}

func TestHandleJoin_ConcurrentJoinsSameGuild(t *testing.T) {
	f := newAttributionFixture()
	f.platform.SetInvites("g1", inv("abc", 0, "U1"))
	require.NoError(t, f.service.Seed(context.Background(), "g1"))

	// each listing sees one more use, mimicking joins landing one by one
	f.platform.ListHook = func(guildID string) { f.platform.Use(guildID, "abc") }

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = f.service.HandleJoin(context.Background(), join(fmt.Sprintf("M%d", i)))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, f.metrics.Joins[providers.JoinAttributed])
	assert.Len(t, f.history.List("g1"), 10)
	assert.Equal(t, int64(20), f.history.Total())
}

func TestHandleJoin_CancelledContext(t *testing.T) {
	f := newAttributionFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service.HandleJoin(ctx, join("M1"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.store.Len())
}

func TestRefreshAll_SkipsGuildWithPendingJoin(t *testing.T) {
	f := newAttributionFixture()
	f.platform.SetInvites("g1", inv("a", 0, "U1"))
	require.NoError(t, f.service.Seed(context.Background(), "g1"))

	// a join is queued on the guild lock while its use is already visible
	f.platform.Use("g1", "a")
	pending := f.service.pendingJoins("g1")
	pending.Inc()

	require.NoError(t, f.service.RefreshAll(context.Background()))
	baseline, _ := f.store.Get("g1")
	rec, _ := baseline.Lookup("a")
	assert.Equal(t, 0, rec.Uses)

	pending.Dec()
	a, err := f.service.HandleJoin(context.Background(), join("M1"))
	require.NoError(t, err)
	assert.Equal(t, "U1", a.InviterID)
	assert.Equal(t, int64(0), pending.Load())
}

func TestRefreshAll_RefreshesAfterJoinCompletes(t *testing.T) {
	f := newAttributionFixture()
	f.platform.SetInvites("g1", inv("a", 0, "U1"))
	require.NoError(t, f.service.Seed(context.Background(), "g1"))

	f.platform.Use("g1", "a")
	_, err := f.service.HandleJoin(context.Background(), join("M1"))
	require.NoError(t, err)

	f.platform.Use("g1", "a")
	require.NoError(t, f.service.RefreshAll(context.Background()))
	baseline, _ := f.store.Get("g1")
	rec, _ := baseline.Lookup("a")
	assert.Equal(t, 2, rec.Uses)
}
