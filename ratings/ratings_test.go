package ratings

import (
	"context"
	"sync"
	"testing"

	"bend/models"
	"bend/notify"
	"bend/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAggregator(t *testing.T) (*Aggregator, *repo.Repos, *repo.MemStore) {
	t.Helper()
	repos, store := repo.NewMem()
	notifier := notify.NewService(notify.NewStoreOutbox(repos.Notifications, nil), repos.Follows, repos.Attendance, repos.ArtistEvents)
	return NewAggregator(repos.Accounts, notifier), repos, store
}

func TestConcurrentRatingsAccumulateWithoutLostUpdates(t *testing.T) {
	ctx := context.Background()
	agg, repos, _ := newTestAggregator(t)

	require.NoError(t, repos.Accounts.InsertArtist(ctx, models.Artist{ArtistID: "a1", Name: "Band"}))

	var wg sync.WaitGroup
	for _, value := range []float64{3.0, 5.0} {
		wg.Add(1)
		go func(v float64) {
			defer wg.Done()
			assert.NoError(t, agg.Apply(ctx, "rater", "a1", models.KindArtist, v))
		}(value)
	}
	wg.Wait()

	artist, err := repos.Accounts.ArtistByID(ctx, "a1")
	require.NoError(t, err)
	require.NotNil(t, artist)
	assert.Equal(t, 8.0, artist.Rating)
	assert.EqualValues(t, 2, artist.RatingsNumber)
	assert.Equal(t, 4.0, artist.DisplayRating())
}

func TestApplyNotifiesTarget(t *testing.T) {
	ctx := context.Background()
	agg, repos, store := newTestAggregator(t)

	require.NoError(t, repos.Accounts.InsertFounder(ctx, models.Founder{FounderID: "founder1", Name: "Org"}))
	require.NoError(t, agg.Apply(ctx, "u1", "founder1", models.KindFounder, 4.0))

	notes := store.AllNotifications()
	require.Len(t, notes, 1)
	assert.Equal(t, "founder1", notes[0].ToID)
	assert.Equal(t, "rated you 4.0 stars", notes[0].Text)
}

func TestApplyRejectsUnratableTargets(t *testing.T) {
	ctx := context.Background()
	agg, _, store := newTestAggregator(t)

	assert.Error(t, agg.Apply(ctx, "u1", "u2", models.KindUser, 4.0))
	assert.Error(t, agg.Apply(ctx, "u1", "a1", models.KindArtist, 9.0))
	assert.Empty(t, store.AllNotifications())
}

func TestFailedTransactionSendsNoNotification(t *testing.T) {
	ctx := context.Background()
	agg, _, store := newTestAggregator(t)

	// No such artist: the transaction fails and nothing is sent.
	assert.Error(t, agg.Apply(ctx, "u1", "missing", models.KindArtist, 3.0))
	assert.Empty(t, store.AllNotifications())
}
