package attendance

import (
	"context"
	"testing"

	"bend/models"
	"bend/notify"
	"bend/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T) (*Ledger, *repo.Repos, *repo.MemStore) {
	t.Helper()
	repos, store := repo.NewMem()
	notifier := notify.NewService(notify.NewStoreOutbox(repos.Notifications, nil), repos.Follows, repos.Attendance, repos.ArtistEvents)
	return NewLedger(repos.Attendance, repos.Events, notifier), repos, store
}

func TestAttendAndUnattend(t *testing.T) {
	ctx := context.Background()
	ledger, _, _ := newTestLedger(t)
	ev := models.Event{EventID: "e1", FounderID: "founder1"}

	require.NoError(t, ledger.Attend(ctx, "u1", ev))

	attending, err := ledger.IsAttending(ctx, "u1", "e1")
	require.NoError(t, err)
	assert.True(t, attending)
	assert.EqualValues(t, 1, ledger.Count(ctx, "e1"))

	require.NoError(t, ledger.Unattend(ctx, "u1", "e1"))
	attending, err = ledger.IsAttending(ctx, "u1", "e1")
	require.NoError(t, err)
	assert.False(t, attending)
	assert.EqualValues(t, 0, ledger.Count(ctx, "e1"))
}

// Attend does not check for an existing row first, so a double attend
// leaves two rows. Unattend clears them all at once.
func TestAttendTwiceLeavesDuplicateRows(t *testing.T) {
	ctx := context.Background()
	ledger, _, store := newTestLedger(t)
	ev := models.Event{EventID: "e1", FounderID: "founder1"}

	require.NoError(t, ledger.Attend(ctx, "u1", ev))
	require.NoError(t, ledger.Attend(ctx, "u1", ev))

	assert.Len(t, store.AllUserEvents(), 2)

	require.NoError(t, ledger.Unattend(ctx, "u1", "e1"))
	assert.Empty(t, store.AllUserEvents())
}

func TestAttendNotifiesFollowers(t *testing.T) {
	ctx := context.Background()
	ledger, repos, store := newTestLedger(t)

	require.NoError(t, repos.Follows.Insert(ctx, models.Follower{ID: "f1", UserID: "fan1", FollowedID: "u1"}))
	require.NoError(t, repos.Follows.Insert(ctx, models.Follower{ID: "f2", UserID: "fan2", FollowedID: "u1"}))

	ev := models.Event{EventID: "e1", FounderID: "founder1", Location: "Cluj", StartDate: "2026-09-12"}
	require.NoError(t, ledger.Attend(ctx, "u1", ev))

	notes := store.AllNotifications()
	require.Len(t, notes, 2)
	recipients := []string{notes[0].ToID, notes[1].ToID}
	assert.ElementsMatch(t, []string{"fan1", "fan2"}, recipients)
	for _, n := range notes {
		assert.Equal(t, "u1", n.FromID)
		assert.False(t, n.Sensitive)
	}
}

func TestCountSeedsFromStoreOnFirstRead(t *testing.T) {
	ctx := context.Background()
	ledger, repos, _ := newTestLedger(t)

	require.NoError(t, repos.Attendance.Insert(ctx, models.UserEvent{ID: "ue1", UserID: "u1", EventID: "e1"}))
	require.NoError(t, repos.Attendance.Insert(ctx, models.UserEvent{ID: "ue2", UserID: "u2", EventID: "e1"}))

	assert.EqualValues(t, 2, ledger.Count(ctx, "e1"))

	// Optimistic adjustment on top of the seeded value.
	require.NoError(t, ledger.Attend(ctx, "u3", models.Event{EventID: "e1"}))
	assert.EqualValues(t, 3, ledger.Count(ctx, "e1"))
}

func TestMyEventsListsAttendedEvents(t *testing.T) {
	ctx := context.Background()
	ledger, repos, _ := newTestLedger(t)

	require.NoError(t, repos.Events.Insert(ctx, models.Event{EventID: "e1", FounderID: "founder1"}))
	require.NoError(t, repos.Events.Insert(ctx, models.Event{EventID: "e2", FounderID: "founder1"}))
	require.NoError(t, ledger.Attend(ctx, "u1", models.Event{EventID: "e1"}))

	events, err := ledger.MyEvents(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "e1", events[0].EventID)
}
