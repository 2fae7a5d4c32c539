package notify

import (
	"context"
	"log"

	"bend/models"
	"bend/repo"
	"bend/utils"
)

// Outbox is the single outbound path for notification records. Delivery is
// fire-and-forget with no retry; a durable queue can be swapped in behind
// this interface without touching any caller.
type Outbox interface {
	Send(ctx context.Context, n models.Notification) error
}

// Badge receives a ping whenever a user gains a notification, feeding the
// live unseen-count badge.
type Badge interface {
	Publish(ctx context.Context, userID string)
}

// StoreOutbox persists the record and pings the badge channel.
type StoreOutbox struct {
	notifications repo.Notifications
	badge         Badge
}

func NewStoreOutbox(notifications repo.Notifications, badge Badge) *StoreOutbox {
	return &StoreOutbox{notifications: notifications, badge: badge}
}

func (o *StoreOutbox) Send(ctx context.Context, n models.Notification) error {
	if err := o.notifications.Insert(ctx, n); err != nil {
		return err
	}
	if o.badge != nil {
		o.badge.Publish(ctx, n.ToID)
	}
	return nil
}

// Service resolves audiences and writes one notification per recipient.
// Fan-out is best effort: a failed write for one recipient is logged and
// never blocks the rest.
type Service struct {
	outbox       Outbox
	follows      repo.Follows
	attendance   repo.Attendance
	artistEvents repo.ArtistEvents
}

func NewService(outbox Outbox, follows repo.Follows, attendance repo.Attendance, artistEvents repo.ArtistEvents) *Service {
	return &Service{
		outbox:       outbox,
		follows:      follows,
		attendance:   attendance,
		artistEvents: artistEvents,
	}
}

func (s *Service) send(ctx context.Context, fromID, toID, eventID, text string, sensitive bool) {
	n := models.Notification{
		ID:        utils.NewID(),
		FromID:    fromID,
		ToID:      toID,
		EventID:   eventID,
		Text:      text,
		Timestamp: utils.NowMillis(),
		Sensitive: sensitive,
	}
	if err := s.outbox.Send(ctx, n); err != nil {
		log.Printf("notify: failed to notify %s: %v", toID, err)
	}
}

// ToUser notifies a single recipient.
func (s *Service) ToUser(ctx context.Context, fromID, toID, eventID, text string, sensitive bool) {
	s.send(ctx, fromID, toID, eventID, text, sensitive)
}

// ToFollowersOf notifies everyone following the given user.
func (s *Service) ToFollowersOf(ctx context.Context, userID, fromID, eventID, text string, sensitive bool) {
	followers, err := s.follows.FollowersOf(ctx, userID)
	if err != nil {
		log.Printf("notify: failed to resolve followers of %s: %v", userID, err)
		return
	}
	for _, toID := range followers {
		s.send(ctx, fromID, toID, eventID, text, sensitive)
	}
}

// ToAttendeesOf notifies everyone attending the given event.
func (s *Service) ToAttendeesOf(ctx context.Context, eventID, fromID, text string, sensitive bool) {
	attendees, err := s.attendance.UserIDsByEvent(ctx, eventID)
	if err != nil {
		log.Printf("notify: failed to resolve attendees of %s: %v", eventID, err)
		return
	}
	for _, toID := range attendees {
		s.send(ctx, fromID, toID, eventID, text, sensitive)
	}
}

// ToArtistsOf notifies every artist linked to the given event.
func (s *Service) ToArtistsOf(ctx context.Context, eventID, fromID, text string, sensitive bool) {
	links, err := s.artistEvents.ByEventID(ctx, eventID)
	if err != nil {
		log.Printf("notify: failed to resolve artists of %s: %v", eventID, err)
		return
	}
	for _, link := range links {
		s.send(ctx, fromID, link.ArtistID, eventID, text, sensitive)
	}
}
