package feed

import (
	"context"
	"fmt"

	"bend/models"
	"bend/notify"
	"bend/repo"
	"bend/utils"
)

// Reposter creates and removes repost rows and fans out the repost
// notifications.
type Reposter struct {
	events   repo.Events
	reposts  repo.Reposts
	notifier *notify.Service
}

func NewReposter(events repo.Events, reposts repo.Reposts, notifier *notify.Service) *Reposter {
	return &Reposter{events: events, reposts: reposts, notifier: notifier}
}

// Repost records that userID re-shared the event. The repost carries its
// own timestamp so the feed sorts it by share time, not event creation.
func (r *Reposter) Repost(ctx context.Context, userID, eventID string) (*models.Repost, error) {
	ev, err := r.events.ByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up event: %w", err)
	}
	if ev == nil {
		return nil, fmt.Errorf("event %s not found", eventID)
	}

	rp := models.Repost{
		ID:        utils.NewID(),
		UserID:    userID,
		EventID:   eventID,
		Timestamp: utils.NowMillis(),
	}
	if err := r.reposts.Insert(ctx, rp); err != nil {
		return nil, err
	}

	r.notifier.EventReposted(ctx, userID, *ev)
	return &rp, nil
}

// Unrepost removes the user's repost rows for the event.
func (r *Reposter) Unrepost(ctx context.Context, userID, eventID string) error {
	return r.reposts.Delete(ctx, userID, eventID)
}
