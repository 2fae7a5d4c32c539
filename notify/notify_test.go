package notify

import (
	"context"
	"fmt"
	"testing"

	"bend/models"
	"bend/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *repo.Repos, *repo.MemStore) {
	t.Helper()
	repos, store := repo.NewMem()
	svc := NewService(NewStoreOutbox(repos.Notifications, nil), repos.Follows, repos.Attendance, repos.ArtistEvents)
	return svc, repos, store
}

func TestEventEditedNotifiesAttendeesAndArtists(t *testing.T) {
	ctx := context.Background()
	svc, repos, store := newTestService(t)

	ev := models.Event{EventID: "e1", FounderID: "founder1", Location: "Cluj", StartDate: "2026-09-12"}
	for i, userID := range []string{"u1", "u2", "u3"} {
		require.NoError(t, repos.Attendance.Insert(ctx, models.UserEvent{
			ID: fmt.Sprintf("ue%d", i), UserID: userID, EventID: "e1",
		}))
	}
	for _, artistID := range []string{"a1", "a2"} {
		require.NoError(t, repos.ArtistEvents.Link(ctx, models.ArtistEvent{ArtistID: artistID, EventID: "e1"}))
	}

	svc.EventEdited(ctx, ev)

	notes := store.AllNotifications()
	require.Len(t, notes, 5)

	byRecipient := map[string]models.Notification{}
	for _, n := range notes {
		byRecipient[n.ToID] = n
		assert.True(t, n.Sensitive)
		assert.Equal(t, "founder1", n.FromID)
		assert.Equal(t, "e1", n.EventID)
	}
	assert.Len(t, byRecipient, 5)
	assert.Equal(t, "updated the details of an event you are attending at Cluj", byRecipient["u1"].Text)
	assert.Equal(t, "updated the details of an event you are performing at, at Cluj", byRecipient["a1"].Text)
}

func TestArtistWithdrewNotifiesFounderAndAttendees(t *testing.T) {
	ctx := context.Background()
	svc, repos, store := newTestService(t)

	ev := models.Event{EventID: "e1", FounderID: "founder1", Location: "Sibiu", StartDate: "2026-10-01"}
	require.NoError(t, repos.Attendance.Insert(ctx, models.UserEvent{ID: "ue1", UserID: "u1", EventID: "e1"}))

	svc.ArtistWithdrew(ctx, "a1", ev)

	notes := store.AllNotifications()
	require.Len(t, notes, 2)
	recipients := []string{notes[0].ToID, notes[1].ToID}
	assert.ElementsMatch(t, []string{"founder1", "u1"}, recipients)
	for _, n := range notes {
		assert.True(t, n.Sensitive)
		assert.Equal(t, "a1", n.FromID)
	}
}

// failingOutbox rejects sends to one recipient and records the rest.
type failingOutbox struct {
	failFor string
	sent    []models.Notification
}

func (f *failingOutbox) Send(ctx context.Context, n models.Notification) error {
	if n.ToID == f.failFor {
		return fmt.Errorf("write failed for %s", n.ToID)
	}
	f.sent = append(f.sent, n)
	return nil
}

func TestFanOutIsBestEffortPerRecipient(t *testing.T) {
	ctx := context.Background()
	repos, _ := repo.NewMem()
	outbox := &failingOutbox{failFor: "u2"}
	svc := NewService(outbox, repos.Follows, repos.Attendance, repos.ArtistEvents)

	for i, userID := range []string{"u1", "u2", "u3"} {
		require.NoError(t, repos.Attendance.Insert(ctx, models.UserEvent{
			ID: fmt.Sprintf("ue%d", i), UserID: userID, EventID: "e1",
		}))
	}

	svc.ToAttendeesOf(ctx, "e1", "founder1", "hi", false)

	require.Len(t, outbox.sent, 2)
	assert.ElementsMatch(t, []string{"u1", "u3"}, []string{outbox.sent[0].ToID, outbox.sent[1].ToID})
}

func TestNewFollowerAndRatingNotifications(t *testing.T) {
	ctx := context.Background()
	svc, _, store := newTestService(t)

	svc.NewFollower(ctx, "u1", "founder1")
	svc.RatingReceived(ctx, "u1", "a1", 4.5)

	notes := store.AllNotifications()
	require.Len(t, notes, 2)

	assert.Equal(t, "started following you", notes[0].Text)
	assert.Equal(t, "founder1", notes[0].ToID)
	assert.False(t, notes[0].Sensitive)
	assert.Empty(t, notes[0].EventID)

	assert.Equal(t, "rated you 4.5 stars", notes[1].Text)
	assert.Equal(t, "a1", notes[1].ToID)
}

func TestArtistsPerformingNotifiesEachArtistsFollowers(t *testing.T) {
	ctx := context.Background()
	svc, repos, store := newTestService(t)

	require.NoError(t, repos.Follows.Insert(ctx, models.Follower{ID: "f1", UserID: "fan1", FollowedID: "a1"}))
	require.NoError(t, repos.Follows.Insert(ctx, models.Follower{ID: "f2", UserID: "fan2", FollowedID: "a1"}))
	require.NoError(t, repos.Follows.Insert(ctx, models.Follower{ID: "f3", UserID: "fan3", FollowedID: "a2"}))

	ev := models.Event{EventID: "e1", FounderID: "founder1", Location: "Brasov", StartDate: "2026-11-20"}
	svc.ArtistsPerforming(ctx, []string{"a1", "a2"}, ev)

	notes := store.AllNotifications()
	require.Len(t, notes, 3)
	recipients := make([]string, 0, 3)
	for _, n := range notes {
		recipients = append(recipients, n.ToID)
	}
	assert.ElementsMatch(t, []string{"fan1", "fan2", "fan3"}, recipients)
}
