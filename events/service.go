package events

import (
	"context"
	"fmt"
	"log"

	"bend/attendance"
	"bend/models"
	"bend/notify"
	"bend/repo"
	"bend/utils"
)

// Service owns the event lifecycle: creation, edits, lineup changes, and
// the delete cascade across the join collections. The store enforces no
// foreign keys, so cross-collection consistency happens here.
type Service struct {
	events       repo.Events
	artistEvents repo.ArtistEvents
	attendance   repo.Attendance
	ledger       *attendance.Ledger
	notifier     *notify.Service
}

func NewService(repos *repo.Repos, ledger *attendance.Ledger, notifier *notify.Service) *Service {
	return &Service{
		events:       repos.Events,
		artistEvents: repos.ArtistEvents,
		attendance:   repos.Attendance,
		ledger:       ledger,
		notifier:     notifier,
	}
}

// Create stores the event, links the selected artists, and fans out to
// the founder's followers, the artists themselves, and each artist's
// followers.
func (s *Service) Create(ctx context.Context, ev models.Event, artistIDs []string) (models.Event, error) {
	ev.EventID = utils.NewID()
	ev.CreatedAt = utils.NowMillis()

	if err := s.events.Insert(ctx, ev); err != nil {
		return models.Event{}, err
	}
	for _, artistID := range artistIDs {
		if err := s.artistEvents.Link(ctx, models.ArtistEvent{ArtistID: artistID, EventID: ev.EventID}); err != nil {
			log.Printf("events: failed to link artist %s to %s: %v", artistID, ev.EventID, err)
		}
	}

	s.notifier.EventCreated(ctx, ev)
	for _, artistID := range artistIDs {
		s.notifier.ArtistAdded(ctx, artistID, ev)
	}
	s.notifier.ArtistsPerforming(ctx, artistIDs, ev)
	return ev, nil
}

// Edit replaces the event record, reconciles the lineup against the
// selected artist list, and notifies attendees, linked artists, and any
// artist added or removed.
func (s *Service) Edit(ctx context.Context, requesterID string, ev models.Event, artistIDs []string) error {
	stored, err := s.events.ByID(ctx, ev.EventID)
	if err != nil {
		return fmt.Errorf("failed to look up event: %w", err)
	}
	if stored == nil {
		return fmt.Errorf("event %s not found", ev.EventID)
	}
	if stored.FounderID != requesterID {
		return fmt.Errorf("only the founder can edit the event")
	}

	ev.FounderID = stored.FounderID
	ev.CreatedAt = stored.CreatedAt
	if err := s.events.Update(ctx, ev); err != nil {
		return err
	}

	added, removed, err := s.reconcileLineup(ctx, ev.EventID, artistIDs)
	if err != nil {
		return err
	}

	for _, artistID := range added {
		s.notifier.ArtistAdded(ctx, artistID, ev)
	}
	for _, artistID := range removed {
		s.notifier.ArtistRemoved(ctx, artistID, ev)
	}
	s.notifier.EventEdited(ctx, ev)
	return nil
}

// Delete cascades across the join collections. The audiences are
// resolved and notified before the rows disappear, otherwise there would
// be nobody left to tell.
func (s *Service) Delete(ctx context.Context, requesterID, eventID string) error {
	stored, err := s.events.ByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to look up event: %w", err)
	}
	if stored == nil {
		return fmt.Errorf("event %s not found", eventID)
	}
	if stored.FounderID != requesterID {
		return fmt.Errorf("only the founder can delete the event")
	}

	s.notifier.EventDeleted(ctx, *stored)

	if err := s.attendance.DeleteByEvent(ctx, eventID); err != nil {
		return err
	}
	if err := s.artistEvents.DeleteByEvent(ctx, eventID); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, eventID); err != nil {
		return err
	}
	s.ledger.Forget(eventID)
	return nil
}

// Withdraw removes an artist from a lineup at the artist's own request
// and flags it to the founder and every attendee.
func (s *Service) Withdraw(ctx context.Context, artistID, eventID string) error {
	stored, err := s.events.ByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to look up event: %w", err)
	}
	if stored == nil {
		return fmt.Errorf("event %s not found", eventID)
	}

	if err := s.artistEvents.Unlink(ctx, artistID, eventID); err != nil {
		return err
	}
	s.notifier.ArtistWithdrew(ctx, artistID, *stored)
	return nil
}

func (s *Service) reconcileLineup(ctx context.Context, eventID string, artistIDs []string) (added, removed []string, err error) {
	links, err := s.artistEvents.ByEventID(ctx, eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve lineup: %w", err)
	}

	current := make(map[string]bool, len(links))
	for _, link := range links {
		current[link.ArtistID] = true
	}
	selected := make(map[string]bool, len(artistIDs))
	for _, artistID := range artistIDs {
		selected[artistID] = true
	}

	for _, artistID := range artistIDs {
		if !current[artistID] {
			if err := s.artistEvents.Link(ctx, models.ArtistEvent{ArtistID: artistID, EventID: eventID}); err != nil {
				return nil, nil, err
			}
			added = append(added, artistID)
		}
	}
	for artistID := range current {
		if !selected[artistID] {
			if err := s.artistEvents.Unlink(ctx, artistID, eventID); err != nil {
				return nil, nil, err
			}
			removed = append(removed, artistID)
		}
	}
	return added, removed, nil
}
