package repo

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"bend/models"
)

// MemStore is an in-memory data layer used in tests in place of the live
// store. One mutex guards everything; all methods are safe for concurrent
// use. NewMem returns repositories backed by a single MemStore plus the
// store itself for seeding and inspection.
type MemStore struct {
	mu sync.Mutex

	events       []models.Event
	artistEvents []models.ArtistEvent
	userEvents   []models.UserEvent
	followers    []models.Follower
	reposts      []models.Repost
	notes        []models.Notification
	reviews      []models.Review
	users        []models.User
	artists      []models.Artist
	founders     []models.Founder
}

func NewMem() (*Repos, *MemStore) {
	s := &MemStore{}
	return &Repos{
		Events:        &memEvents{s},
		ArtistEvents:  &memArtistEvents{s},
		Attendance:    &memAttendance{s},
		Follows:       &memFollows{s},
		Reposts:       &memReposts{s},
		Notifications: &memNotifications{s},
		Reviews:       &memReviews{s},
		Accounts:      &memAccounts{s},
	}, s
}

// AllNotifications returns a snapshot of every stored notification.
func (s *MemStore) AllNotifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, len(s.notes))
	copy(out, s.notes)
	return out
}

// AllUserEvents returns a snapshot of every attendance row.
func (s *MemStore) AllUserEvents() []models.UserEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.UserEvent, len(s.userEvents))
	copy(out, s.userEvents)
	return out
}

// AllArtistEvents returns a snapshot of every artist/event link.
func (s *MemStore) AllArtistEvents() []models.ArtistEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ArtistEvent, len(s.artistEvents))
	copy(out, s.artistEvents)
	return out
}

func page[T any](sorted []T, skip, limit int64) []T {
	if skip >= int64(len(sorted)) {
		return []T{}
	}
	sorted = sorted[skip:]
	if limit > 0 && int64(len(sorted)) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// --- events ---

type memEvents struct{ s *MemStore }

func (m *memEvents) ByID(ctx context.Context, eventID string) (*models.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, ev := range m.s.events {
		if ev.EventID == eventID {
			out := ev
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memEvents) List(ctx context.Context, skip, limit int64) ([]models.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	sorted := make([]models.Event, len(m.s.events))
	copy(sorted, m.s.events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt > sorted[j].CreatedAt
	})
	return page(sorted, skip, limit), nil
}

func (m *memEvents) ByIDs(ctx context.Context, eventIDs []string) ([]models.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	want := toSet(eventIDs)
	out := []models.Event{}
	for _, ev := range m.s.events {
		if want[ev.EventID] {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memEvents) ByFounderIDs(ctx context.Context, founderIDs []string) ([]models.Event, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	want := toSet(founderIDs)
	out := []models.Event{}
	for _, ev := range m.s.events {
		if want[ev.FounderID] {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (m *memEvents) Insert(ctx context.Context, ev models.Event) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.events = append(m.s.events, ev)
	return nil
}

func (m *memEvents) Update(ctx context.Context, ev models.Event) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := range m.s.events {
		if m.s.events[i].EventID == ev.EventID {
			m.s.events[i] = ev
			return nil
		}
	}
	m.s.events = append(m.s.events, ev)
	return nil
}

func (m *memEvents) Delete(ctx context.Context, eventID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	kept := m.s.events[:0]
	for _, ev := range m.s.events {
		if ev.EventID != eventID {
			kept = append(kept, ev)
		}
	}
	m.s.events = kept
	return nil
}

// --- artist/event links ---

type memArtistEvents struct{ s *MemStore }

func (m *memArtistEvents) ByArtistIDs(ctx context.Context, artistIDs []string) ([]models.ArtistEvent, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	want := toSet(artistIDs)
	out := []models.ArtistEvent{}
	for _, link := range m.s.artistEvents {
		if want[link.ArtistID] {
			out = append(out, link)
		}
	}
	return out, nil
}

func (m *memArtistEvents) ByEventID(ctx context.Context, eventID string) ([]models.ArtistEvent, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []models.ArtistEvent{}
	for _, link := range m.s.artistEvents {
		if link.EventID == eventID {
			out = append(out, link)
		}
	}
	return out, nil
}

func (m *memArtistEvents) Link(ctx context.Context, link models.ArtistEvent) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.artistEvents = append(m.s.artistEvents, link)
	return nil
}

func (m *memArtistEvents) Unlink(ctx context.Context, artistID, eventID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	kept := m.s.artistEvents[:0]
	for _, link := range m.s.artistEvents {
		if !(link.ArtistID == artistID && link.EventID == eventID) {
			kept = append(kept, link)
		}
	}
	m.s.artistEvents = kept
	return nil
}

func (m *memArtistEvents) DeleteByEvent(ctx context.Context, eventID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	kept := m.s.artistEvents[:0]
	for _, link := range m.s.artistEvents {
		if link.EventID != eventID {
			kept = append(kept, link)
		}
	}
	m.s.artistEvents = kept
	return nil
}

// --- attendance ---

type memAttendance struct{ s *MemStore }

func (m *memAttendance) Insert(ctx context.Context, ue models.UserEvent) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.userEvents = append(m.s.userEvents, ue)
	return nil
}

func (m *memAttendance) DeleteByUserEvent(ctx context.Context, userID, eventID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	kept := m.s.userEvents[:0]
	for _, ue := range m.s.userEvents {
		if !(ue.UserID == userID && ue.EventID == eventID) {
			kept = append(kept, ue)
		}
	}
	m.s.userEvents = kept
	return nil
}

func (m *memAttendance) DeleteByEvent(ctx context.Context, eventID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	kept := m.s.userEvents[:0]
	for _, ue := range m.s.userEvents {
		if ue.EventID != eventID {
			kept = append(kept, ue)
		}
	}
	m.s.userEvents = kept
	return nil
}

func (m *memAttendance) Exists(ctx context.Context, userID, eventID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, ue := range m.s.userEvents {
		if ue.UserID == userID && ue.EventID == eventID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAttendance) UserIDsByEvent(ctx context.Context, eventID string) ([]string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []string{}
	seen := map[string]bool{}
	for _, ue := range m.s.userEvents {
		if ue.EventID == eventID && !seen[ue.UserID] {
			out = append(out, ue.UserID)
			seen[ue.UserID] = true
		}
	}
	return out, nil
}

func (m *memAttendance) EventIDsByUser(ctx context.Context, userID string) ([]string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []string{}
	seen := map[string]bool{}
	for _, ue := range m.s.userEvents {
		if ue.UserID == userID && !seen[ue.EventID] {
			out = append(out, ue.EventID)
			seen[ue.EventID] = true
		}
	}
	return out, nil
}

func (m *memAttendance) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for _, ue := range m.s.userEvents {
		if ue.EventID == eventID {
			n++
		}
	}
	return n, nil
}

// --- follows ---

type memFollows struct{ s *MemStore }

func (m *memFollows) FollowedBy(ctx context.Context, userID string) ([]string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []string{}
	for _, f := range m.s.followers {
		if f.UserID == userID {
			out = append(out, f.FollowedID)
		}
	}
	return out, nil
}

func (m *memFollows) FollowersOf(ctx context.Context, userID string) ([]string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []string{}
	for _, f := range m.s.followers {
		if f.FollowedID == userID {
			out = append(out, f.UserID)
		}
	}
	return out, nil
}

func (m *memFollows) Insert(ctx context.Context, f models.Follower) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.followers = append(m.s.followers, f)
	return nil
}

func (m *memFollows) Delete(ctx context.Context, userID, followedID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	kept := m.s.followers[:0]
	for _, f := range m.s.followers {
		if !(f.UserID == userID && f.FollowedID == followedID) {
			kept = append(kept, f)
		}
	}
	m.s.followers = kept
	return nil
}

func (m *memFollows) Exists(ctx context.Context, userID, followedID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, f := range m.s.followers {
		if f.UserID == userID && f.FollowedID == followedID {
			return true, nil
		}
	}
	return false, nil
}

// --- reposts ---

type memReposts struct{ s *MemStore }

func (m *memReposts) ByUserIDs(ctx context.Context, userIDs []string) ([]models.Repost, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	want := toSet(userIDs)
	out := []models.Repost{}
	for _, rp := range m.s.reposts {
		if want[rp.UserID] {
			out = append(out, rp)
		}
	}
	return out, nil
}

func (m *memReposts) Insert(ctx context.Context, rp models.Repost) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.reposts = append(m.s.reposts, rp)
	return nil
}

func (m *memReposts) Delete(ctx context.Context, userID, eventID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	kept := m.s.reposts[:0]
	for _, rp := range m.s.reposts {
		if !(rp.UserID == userID && rp.EventID == eventID) {
			kept = append(kept, rp)
		}
	}
	m.s.reposts = kept
	return nil
}

// --- notifications ---

type memNotifications struct{ s *MemStore }

func (m *memNotifications) Insert(ctx context.Context, n models.Notification) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.notes = append(m.s.notes, n)
	return nil
}

func (m *memNotifications) ByRecipient(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []models.Notification{}
	for _, n := range m.s.notes {
		if n.ToID == userID {
			out = append(out, n)
		}
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memNotifications) MarkSeen(ctx context.Context, userID, notificationID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := range m.s.notes {
		if m.s.notes[i].ID == notificationID && m.s.notes[i].ToID == userID {
			m.s.notes[i].Seen = true
			return nil
		}
	}
	return nil
}

func (m *memNotifications) CountUnseen(ctx context.Context, userID string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var n int64
	for _, note := range m.s.notes {
		if note.ToID == userID && !note.Seen {
			n++
		}
	}
	return n, nil
}

// --- reviews ---

type memReviews struct{ s *MemStore }

func (m *memReviews) Insert(ctx context.Context, rv models.Review) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.reviews = append(m.s.reviews, rv)
	return nil
}

func (m *memReviews) ByReviewedID(ctx context.Context, reviewedID string) ([]models.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []models.Review{}
	for _, rv := range m.s.reviews {
		if rv.ReviewedID == reviewedID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (m *memReviews) ByEventID(ctx context.Context, eventID string) ([]models.Review, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := []models.Review{}
	for _, rv := range m.s.reviews {
		if rv.EventID == eventID {
			out = append(out, rv)
		}
	}
	return out, nil
}

// --- accounts ---

type memAccounts struct{ s *MemStore }

func (m *memAccounts) UserByID(ctx context.Context, id string) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.UserID == id {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memAccounts) ArtistByID(ctx context.Context, id string) (*models.Artist, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, a := range m.s.artists {
		if a.ArtistID == id {
			out := a
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memAccounts) FounderByID(ctx context.Context, id string) (*models.Founder, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, f := range m.s.founders {
		if f.FounderID == id {
			out := f
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memAccounts) ArtistsByIDs(ctx context.Context, ids []string) ([]models.Artist, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	want := toSet(ids)
	out := []models.Artist{}
	for _, a := range m.s.artists {
		if want[a.ArtistID] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memAccounts) ListArtists(ctx context.Context, skip, limit int64) ([]models.Artist, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	sorted := make([]models.Artist, len(m.s.artists))
	copy(sorted, m.s.artists)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return page(sorted, skip, limit), nil
}

func (m *memAccounts) FoundersByIDs(ctx context.Context, ids []string) ([]models.Founder, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	want := toSet(ids)
	out := []models.Founder{}
	for _, f := range m.s.founders {
		if want[f.FounderID] {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memAccounts) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memAccounts) ArtistByEmail(ctx context.Context, email string) (*models.Artist, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, a := range m.s.artists {
		if a.Email == email {
			out := a
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memAccounts) FounderByEmail(ctx context.Context, email string) (*models.Founder, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, f := range m.s.founders {
		if f.Email == email {
			out := f
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memAccounts) InsertUser(ctx context.Context, u models.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.users = append(m.s.users, u)
	return nil
}

func (m *memAccounts) InsertArtist(ctx context.Context, a models.Artist) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.artists = append(m.s.artists, a)
	return nil
}

func (m *memAccounts) InsertFounder(ctx context.Context, f models.Founder) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.founders = append(m.s.founders, f)
	return nil
}

func (m *memAccounts) AddRating(ctx context.Context, kind models.AccountKind, id string, value float64) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	switch kind {
	case models.KindArtist:
		for i := range m.s.artists {
			if m.s.artists[i].ArtistID == id {
				m.s.artists[i].Rating += value
				m.s.artists[i].RatingsNumber++
				return nil
			}
		}
		return fmt.Errorf("artist %s not found", id)
	case models.KindFounder:
		for i := range m.s.founders {
			if m.s.founders[i].FounderID == id {
				m.s.founders[i].Rating += value
				m.s.founders[i].RatingsNumber++
				return nil
			}
		}
		return fmt.Errorf("founder %s not found", id)
	default:
		return fmt.Errorf("account kind %q cannot be rated", kind)
	}
}
