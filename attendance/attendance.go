package attendance

import (
	"context"
	"fmt"
	"log"
	"sync"

	"bend/models"
	"bend/notify"
	"bend/repo"
	"bend/utils"
)

// Ledger tracks who attends what. Writes go to the userevents collection;
// attendee counts are kept in memory and adjusted optimistically on
// attend/unattend instead of re-querying after every change.
type Ledger struct {
	attendance repo.Attendance
	events     repo.Events
	notifier   *notify.Service

	mu     sync.Mutex
	counts map[string]int64
}

func NewLedger(attendance repo.Attendance, events repo.Events, notifier *notify.Service) *Ledger {
	return &Ledger{
		attendance: attendance,
		events:     events,
		notifier:   notifier,
		counts:     make(map[string]int64),
	}
}

// Attend records the attendance row and tells the attendee's followers.
// There is no existence check first: attending twice without unattending
// leaves two rows.
func (l *Ledger) Attend(ctx context.Context, userID string, ev models.Event) error {
	row := models.UserEvent{
		ID:      utils.NewID(),
		UserID:  userID,
		EventID: ev.EventID,
	}
	if err := l.attendance.Insert(ctx, row); err != nil {
		return err
	}

	l.notifier.Attending(ctx, userID, ev)
	l.adjustCount(ctx, ev.EventID, 1)
	return nil
}

// Unattend removes every attendance row the user has for the event.
func (l *Ledger) Unattend(ctx context.Context, userID, eventID string) error {
	if err := l.attendance.DeleteByUserEvent(ctx, userID, eventID); err != nil {
		return err
	}
	l.adjustCount(ctx, eventID, -1)
	return nil
}

func (l *Ledger) IsAttending(ctx context.Context, userID, eventID string) (bool, error) {
	return l.attendance.Exists(ctx, userID, eventID)
}

// Count returns the attendee count, querying the store only on the first
// request per event.
func (l *Ledger) Count(ctx context.Context, eventID string) int64 {
	l.mu.Lock()
	if count, ok := l.counts[eventID]; ok {
		l.mu.Unlock()
		return count
	}
	l.mu.Unlock()

	count, err := l.attendance.CountByEvent(ctx, eventID)
	if err != nil {
		log.Printf("attendance: count fetch failed for %s: %v", eventID, err)
		return 0
	}

	l.mu.Lock()
	l.counts[eventID] = count
	l.mu.Unlock()
	return count
}

// Forget drops the cached count, used when an event is deleted.
func (l *Ledger) Forget(eventID string) {
	l.mu.Lock()
	delete(l.counts, eventID)
	l.mu.Unlock()
}

// MyEvents lists the events the user attends.
func (l *Ledger) MyEvents(ctx context.Context, userID string) ([]models.Event, error) {
	eventIDs, err := l.attendance.EventIDsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve attended events: %w", err)
	}
	return l.events.ByIDs(ctx, eventIDs)
}

func (l *Ledger) adjustCount(ctx context.Context, eventID string, delta int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if count, ok := l.counts[eventID]; ok {
		next := count + delta
		if next < 0 {
			next = 0
		}
		l.counts[eventID] = next
	}
}
