package events

import (
	"context"
	"strings"
	"testing"

	"bend/attendance"
	"bend/models"
	"bend/notify"
	"bend/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *attendance.Ledger, *repo.Repos, *repo.MemStore) {
	t.Helper()
	repos, store := repo.NewMem()
	notifier := notify.NewService(
		notify.NewStoreOutbox(repos.Notifications, nil),
		repos.Follows, repos.Attendance, repos.ArtistEvents,
	)
	ledger := attendance.NewLedger(repos.Attendance, repos.Events, notifier)
	return NewService(repos, ledger, notifier), ledger, repos, store
}

func TestDeleteCascadesAcrossJoinCollections(t *testing.T) {
	ctx := context.Background()
	svc, ledger, repos, store := newTestService(t)

	ev, err := svc.Create(ctx, models.Event{FounderID: "f1", Location: "Warehouse 9"}, []string{"a1", "a2"})
	require.NoError(t, err)

	require.NoError(t, ledger.Attend(ctx, "u1", ev))
	require.NoError(t, ledger.Attend(ctx, "u2", ev))

	attending, err := ledger.IsAttending(ctx, "u1", ev.EventID)
	require.NoError(t, err)
	require.True(t, attending)

	require.NoError(t, svc.Delete(ctx, "f1", ev.EventID))

	for _, row := range store.AllUserEvents() {
		assert.NotEqual(t, ev.EventID, row.EventID, "attendance row survived the cascade")
	}
	for _, link := range store.AllArtistEvents() {
		assert.NotEqual(t, ev.EventID, link.EventID, "lineup link survived the cascade")
	}

	attending, err = ledger.IsAttending(ctx, "u1", ev.EventID)
	require.NoError(t, err)
	assert.False(t, attending)

	mine, err := ledger.MyEvents(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, mine)

	stored, err := repos.Events.ByID(ctx, ev.EventID)
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.Zero(t, ledger.Count(ctx, ev.EventID))
}

func TestDeleteNotifiesAudiencesBeforeCascade(t *testing.T) {
	ctx := context.Background()
	svc, ledger, _, store := newTestService(t)

	ev, err := svc.Create(ctx, models.Event{FounderID: "f1", Location: "Pier 4"}, []string{"a1"})
	require.NoError(t, err)
	require.NoError(t, ledger.Attend(ctx, "u1", ev))

	before := len(store.AllNotifications())
	require.NoError(t, svc.Delete(ctx, "f1", ev.EventID))

	var attendeeTold, artistTold bool
	for _, n := range store.AllNotifications()[before:] {
		if n.ToID == "u1" && strings.Contains(n.Text, "cancelled an event you were attending") {
			attendeeTold = true
		}
		if n.ToID == "a1" && strings.Contains(n.Text, "cancelled an event you were performing") {
			artistTold = true
		}
	}
	assert.True(t, attendeeTold, "attendee was not told about the cancellation")
	assert.True(t, artistTold, "artist was not told about the cancellation")
}

func TestDeleteRejectsNonFounder(t *testing.T) {
	ctx := context.Background()
	svc, _, repos, _ := newTestService(t)

	ev, err := svc.Create(ctx, models.Event{FounderID: "f1"}, nil)
	require.NoError(t, err)

	require.Error(t, svc.Delete(ctx, "f2", ev.EventID))

	stored, err := repos.Events.ByID(ctx, ev.EventID)
	require.NoError(t, err)
	assert.NotNil(t, stored)
}

func TestEditReconcilesLineup(t *testing.T) {
	ctx := context.Background()
	svc, _, repos, store := newTestService(t)

	ev, err := svc.Create(ctx, models.Event{FounderID: "f1", Location: "Basement"}, []string{"a1", "a2"})
	require.NoError(t, err)

	before := len(store.AllNotifications())
	ev.Location = "Rooftop"
	require.NoError(t, svc.Edit(ctx, "f1", ev, []string{"a2", "a3"}))

	links, err := repos.ArtistEvents.ByEventID(ctx, ev.EventID)
	require.NoError(t, err)
	got := make(map[string]bool)
	for _, link := range links {
		got[link.ArtistID] = true
	}
	assert.Equal(t, map[string]bool{"a2": true, "a3": true}, got)

	var addedTold, removedTold bool
	for _, n := range store.AllNotifications()[before:] {
		if n.ToID == "a3" && strings.Contains(n.Text, "added you to the lineup") {
			addedTold = true
		}
		if n.ToID == "a1" && strings.Contains(n.Text, "removed you from the lineup") {
			removedTold = true
		}
	}
	assert.True(t, addedTold)
	assert.True(t, removedTold)
}

func TestEditPreservesFounderAndCreationTime(t *testing.T) {
	ctx := context.Background()
	svc, _, repos, _ := newTestService(t)

	ev, err := svc.Create(ctx, models.Event{FounderID: "f1", Location: "Old Hall"}, nil)
	require.NoError(t, err)

	tampered := ev
	tampered.FounderID = "f9"
	tampered.CreatedAt = 1
	tampered.Location = "New Hall"
	require.NoError(t, svc.Edit(ctx, "f1", tampered, nil))

	stored, err := repos.Events.ByID(ctx, ev.EventID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "f1", stored.FounderID)
	assert.Equal(t, ev.CreatedAt, stored.CreatedAt)
	assert.Equal(t, "New Hall", stored.Location)
}

func TestWithdrawUnlinksAndNotifies(t *testing.T) {
	ctx := context.Background()
	svc, ledger, repos, store := newTestService(t)

	ev, err := svc.Create(ctx, models.Event{FounderID: "f1", Location: "Docks"}, []string{"a1"})
	require.NoError(t, err)
	require.NoError(t, ledger.Attend(ctx, "u1", ev))

	before := len(store.AllNotifications())
	require.NoError(t, svc.Withdraw(ctx, "a1", ev.EventID))

	links, err := repos.ArtistEvents.ByEventID(ctx, ev.EventID)
	require.NoError(t, err)
	assert.Empty(t, links)

	var founderTold, attendeeTold bool
	for _, n := range store.AllNotifications()[before:] {
		if n.ToID == "f1" && n.FromID == "a1" {
			founderTold = true
		}
		if n.ToID == "u1" && n.FromID == "a1" {
			attendeeTold = true
		}
	}
	assert.True(t, founderTold)
	assert.True(t, attendeeTold)
}
