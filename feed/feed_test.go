package feed

import (
	"context"
	"fmt"
	"testing"

	"bend/models"
	"bend/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFollow(t *testing.T, repos *repo.Repos, viewer string, followed ...string) {
	t.Helper()
	ctx := context.Background()
	for i, id := range followed {
		require.NoError(t, repos.Follows.Insert(ctx, models.Follower{
			ID: fmt.Sprintf("f%d", i), UserID: viewer, FollowedID: id,
		}))
	}
}

func TestFeedDeduplicatesFounderAndArtistEvents(t *testing.T) {
	ctx := context.Background()
	repos, _ := repo.NewMem()

	// Viewer follows both the founder and a performer of the same event.
	seedFollow(t, repos, "viewer", "founder1", "artist1")
	require.NoError(t, repos.Events.Insert(ctx, models.Event{
		EventID: "e1", FounderID: "founder1", Location: "Cluj", CreatedAt: 100,
	}))
	require.NoError(t, repos.ArtistEvents.Link(ctx, models.ArtistEvent{ArtistID: "artist1", EventID: "e1"}))

	items := NewAssembler(repos).Build(ctx, "viewer")

	require.Len(t, items, 1)
	assert.Equal(t, "e1", items[0].Event.EventID)
	assert.Empty(t, items[0].RepostedBy)
}

func TestFeedKeepsOneEntryPerRepost(t *testing.T) {
	ctx := context.Background()
	repos, _ := repo.NewMem()

	seedFollow(t, repos, "viewer", "reposter1", "reposter2")
	require.NoError(t, repos.Events.Insert(ctx, models.Event{
		EventID: "e1", FounderID: "founder1", CreatedAt: 100,
	}))
	require.NoError(t, repos.Reposts.Insert(ctx, models.Repost{
		ID: "r1", UserID: "reposter1", EventID: "e1", Timestamp: 200,
	}))
	require.NoError(t, repos.Reposts.Insert(ctx, models.Repost{
		ID: "r2", UserID: "reposter2", EventID: "e1", Timestamp: 300,
	}))

	items := NewAssembler(repos).Build(ctx, "viewer")

	require.Len(t, items, 2)
	reposters := []string{items[0].RepostedBy, items[1].RepostedBy}
	assert.ElementsMatch(t, []string{"reposter1", "reposter2"}, reposters)
}

func TestFeedRepostEntriesCarryRepostTime(t *testing.T) {
	ctx := context.Background()
	repos, _ := repo.NewMem()

	seedFollow(t, repos, "viewer", "founder1", "reposter1")
	require.NoError(t, repos.Events.Insert(ctx, models.Event{
		EventID: "e1", FounderID: "founder1", CreatedAt: 100,
	}))
	require.NoError(t, repos.Events.Insert(ctx, models.Event{
		EventID: "e2", FounderID: "other", CreatedAt: 50,
	}))
	require.NoError(t, repos.Reposts.Insert(ctx, models.Repost{
		ID: "r1", UserID: "reposter1", EventID: "e2", Timestamp: 500,
	}))

	items := NewAssembler(repos).Build(ctx, "viewer")

	// Ascending order: organic e1 (100) before the repost of e2 (500),
	// even though e2 was created earlier.
	require.Len(t, items, 2)
	assert.Equal(t, "e1", items[0].Event.EventID)
	assert.Equal(t, "e2", items[1].Event.EventID)
	assert.EqualValues(t, 500, items[1].Event.CreatedAt)
	assert.Equal(t, "reposter1", items[1].RepostedBy)
}

type failingArtistEvents struct {
	repo.ArtistEvents
}

func (f *failingArtistEvents) ByArtistIDs(ctx context.Context, artistIDs []string) ([]models.ArtistEvent, error) {
	return nil, fmt.Errorf("backend unavailable")
}

func TestFeedSurvivesArtistBranchFailure(t *testing.T) {
	ctx := context.Background()
	repos, _ := repo.NewMem()

	seedFollow(t, repos, "viewer", "founder1", "reposter1")
	require.NoError(t, repos.Events.Insert(ctx, models.Event{
		EventID: "e1", FounderID: "founder1", CreatedAt: 100,
	}))
	require.NoError(t, repos.Events.Insert(ctx, models.Event{
		EventID: "e2", FounderID: "other", CreatedAt: 40,
	}))
	require.NoError(t, repos.Reposts.Insert(ctx, models.Repost{
		ID: "r1", UserID: "reposter1", EventID: "e2", Timestamp: 300,
	}))

	repos.ArtistEvents = &failingArtistEvents{ArtistEvents: repos.ArtistEvents}
	items := NewAssembler(repos).Build(ctx, "viewer")

	// Founder and repost branches survive the artist branch failure.
	require.Len(t, items, 2)
	assert.Equal(t, "e1", items[0].Event.EventID)
	assert.Equal(t, "e2", items[1].Event.EventID)
}

func TestFeedDropsRepostsOfDeletedEvents(t *testing.T) {
	ctx := context.Background()
	repos, _ := repo.NewMem()

	seedFollow(t, repos, "viewer", "reposter1")
	require.NoError(t, repos.Reposts.Insert(ctx, models.Repost{
		ID: "r1", UserID: "reposter1", EventID: "gone", Timestamp: 300,
	}))

	items := NewAssembler(repos).Build(ctx, "viewer")
	assert.Empty(t, items)
}

func TestFeedEmptyForViewerFollowingNobody(t *testing.T) {
	repos, _ := repo.NewMem()
	items := NewAssembler(repos).Build(context.Background(), "loner")
	assert.Empty(t, items)
}

func TestFeedSortsAscendingByTimestamp(t *testing.T) {
	ctx := context.Background()
	repos, _ := repo.NewMem()

	seedFollow(t, repos, "viewer", "founder1")
	for i, ts := range []int64{300, 100, 200} {
		require.NoError(t, repos.Events.Insert(ctx, models.Event{
			EventID: fmt.Sprintf("e%d", i), FounderID: "founder1", CreatedAt: ts,
		}))
	}

	items := NewAssembler(repos).Build(ctx, "viewer")

	require.Len(t, items, 3)
	assert.EqualValues(t, 100, items[0].Event.CreatedAt)
	assert.EqualValues(t, 200, items[1].Event.CreatedAt)
	assert.EqualValues(t, 300, items[2].Event.CreatedAt)
}

func TestHydrateCollectsCountsAndProfiles(t *testing.T) {
	ctx := context.Background()
	repos, _ := repo.NewMem()

	require.NoError(t, repos.Accounts.InsertFounder(ctx, models.Founder{FounderID: "founder1", Name: "Org"}))
	require.NoError(t, repos.Accounts.InsertArtist(ctx, models.Artist{ArtistID: "a1", Name: "Band"}))
	require.NoError(t, repos.ArtistEvents.Link(ctx, models.ArtistEvent{ArtistID: "a1", EventID: "e1"}))
	require.NoError(t, repos.Attendance.Insert(ctx, models.UserEvent{ID: "ue1", UserID: "u1", EventID: "e1"}))
	require.NoError(t, repos.Attendance.Insert(ctx, models.UserEvent{ID: "ue2", UserID: "u2", EventID: "e1"}))

	items := []models.FeedItem{{Event: models.Event{EventID: "e1", FounderID: "founder1"}}}
	cards := NewAssembler(repos).Hydrate(ctx, items)

	assert.EqualValues(t, 2, cards.AttendeeCounts["e1"])
	assert.Equal(t, "Org", cards.Founders["founder1"].Name)
	require.Len(t, cards.Artists["e1"], 1)
	assert.Equal(t, "Band", cards.Artists["e1"][0].Name)
}
