package feed

import (
	"context"
	"log"
	"sort"
	"sync"

	"bend/models"
	"bend/repo"
)

// Assembler builds the event feed a viewer sees: events organized by
// followed founders, events performed at by followed artists, and events
// reposted by followed users.
type Assembler struct {
	follows      repo.Follows
	events       repo.Events
	artistEvents repo.ArtistEvents
	reposts      repo.Reposts
	attendance   repo.Attendance
	accounts     repo.Accounts
}

func NewAssembler(repos *repo.Repos) *Assembler {
	return &Assembler{
		follows:      repos.Follows,
		events:       repos.Events,
		artistEvents: repos.ArtistEvents,
		reposts:      repos.Reposts,
		attendance:   repos.Attendance,
		accounts:     repos.Accounts,
	}
}

// Build assembles the viewer's feed. Every fetch is fail-open: a branch
// that errors degrades to empty and the rest of the feed still comes
// back, so the worst case is a partially empty list rather than an error.
//
// Ordering is ascending by created_at, with repost entries carrying the
// repost time instead of the event's creation time.
func (a *Assembler) Build(ctx context.Context, viewerID string) []models.FeedItem {
	followed, err := a.follows.FollowedBy(ctx, viewerID)
	if err != nil {
		log.Printf("feed: failed to resolve followed set for %s: %v", viewerID, err)
		followed = nil
	}
	if len(followed) == 0 {
		return []models.FeedItem{}
	}

	// The three branches are independent, so they run concurrently and
	// each one recovers its own failure to an empty slice.
	var founderEvents, artistEvents []models.Event
	var repostRows []models.Repost
	var repostedEvents []models.Event

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		evs, err := a.events.ByFounderIDs(ctx, followed)
		if err != nil {
			log.Printf("feed: founder events fetch failed: %v", err)
			return
		}
		founderEvents = evs
	}()

	go func() {
		defer wg.Done()
		links, err := a.artistEvents.ByArtistIDs(ctx, followed)
		if err != nil {
			log.Printf("feed: artist links fetch failed: %v", err)
			return
		}
		evs, err := a.events.ByIDs(ctx, distinctEventIDs(links))
		if err != nil {
			log.Printf("feed: artist events fetch failed: %v", err)
			return
		}
		artistEvents = evs
	}()

	go func() {
		defer wg.Done()
		rows, err := a.reposts.ByUserIDs(ctx, followed)
		if err != nil {
			log.Printf("feed: reposts fetch failed: %v", err)
			return
		}
		ids := make([]string, 0, len(rows))
		seen := make(map[string]bool, len(rows))
		for _, rp := range rows {
			if !seen[rp.EventID] {
				ids = append(ids, rp.EventID)
				seen[rp.EventID] = true
			}
		}
		evs, err := a.events.ByIDs(ctx, ids)
		if err != nil {
			log.Printf("feed: reposted events fetch failed: %v", err)
			return
		}
		repostRows = rows
		repostedEvents = evs
	}()

	wg.Wait()

	items := []models.FeedItem{}

	// Founder events win the dedup: an event never shows twice just
	// because the viewer follows both its founder and a performer.
	inFeed := make(map[string]bool, len(founderEvents))
	for _, ev := range founderEvents {
		if !inFeed[ev.EventID] {
			items = append(items, models.FeedItem{Event: ev})
			inFeed[ev.EventID] = true
		}
	}
	for _, ev := range artistEvents {
		if !inFeed[ev.EventID] {
			items = append(items, models.FeedItem{Event: ev})
			inFeed[ev.EventID] = true
		}
	}

	// Each repost is its own card; a repost whose event has vanished is
	// dropped because the event fetch found nothing for it.
	eventsByID := make(map[string]models.Event, len(repostedEvents))
	for _, ev := range repostedEvents {
		eventsByID[ev.EventID] = ev
	}
	for _, rp := range repostRows {
		ev, ok := eventsByID[rp.EventID]
		if !ok {
			continue
		}
		ev.CreatedAt = rp.Timestamp
		items = append(items, models.FeedItem{RepostedBy: rp.UserID, Event: ev})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Event.CreatedAt < items[j].Event.CreatedAt
	})
	return items
}

func distinctEventIDs(links []models.ArtistEvent) []string {
	ids := make([]string, 0, len(links))
	seen := make(map[string]bool, len(links))
	for _, link := range links {
		if !seen[link.EventID] {
			ids = append(ids, link.EventID)
			seen[link.EventID] = true
		}
	}
	return ids
}

// CardData is everything needed to render the feed cards: attendee counts
// and the founder/artist profiles behind each event. It is fetched after
// the feed list itself so a slow count never delays the list.
type CardData struct {
	AttendeeCounts map[string]int64          `json:"attendee_counts"`
	Founders       map[string]models.Founder `json:"founders"`
	Artists        map[string][]models.Artist `json:"artists"`
}

// Hydrate gathers card data for the given feed items, fail-open per
// category like every other read in this package.
func (a *Assembler) Hydrate(ctx context.Context, items []models.FeedItem) CardData {
	eventIDs := []string{}
	founderIDs := []string{}
	seenEvents := map[string]bool{}
	seenFounders := map[string]bool{}
	for _, item := range items {
		if !seenEvents[item.Event.EventID] {
			eventIDs = append(eventIDs, item.Event.EventID)
			seenEvents[item.Event.EventID] = true
		}
		if !seenFounders[item.Event.FounderID] {
			founderIDs = append(founderIDs, item.Event.FounderID)
			seenFounders[item.Event.FounderID] = true
		}
	}

	data := CardData{
		AttendeeCounts: make(map[string]int64, len(eventIDs)),
		Founders:       make(map[string]models.Founder, len(founderIDs)),
		Artists:        make(map[string][]models.Artist, len(eventIDs)),
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		for _, eventID := range eventIDs {
			count, err := a.attendance.CountByEvent(ctx, eventID)
			if err != nil {
				log.Printf("feed: attendee count fetch failed for %s: %v", eventID, err)
				continue
			}
			mu.Lock()
			data.AttendeeCounts[eventID] = count
			mu.Unlock()
		}
	}()

	go func() {
		defer wg.Done()
		founders, err := a.accounts.FoundersByIDs(ctx, founderIDs)
		if err != nil {
			log.Printf("feed: founders fetch failed: %v", err)
			return
		}
		mu.Lock()
		for _, f := range founders {
			data.Founders[f.FounderID] = f
		}
		mu.Unlock()
	}()

	go func() {
		defer wg.Done()
		for _, eventID := range eventIDs {
			links, err := a.artistEvents.ByEventID(ctx, eventID)
			if err != nil {
				log.Printf("feed: artist links fetch failed for %s: %v", eventID, err)
				continue
			}
			artistIDs := make([]string, 0, len(links))
			for _, link := range links {
				artistIDs = append(artistIDs, link.ArtistID)
			}
			artists, err := a.accounts.ArtistsByIDs(ctx, artistIDs)
			if err != nil {
				log.Printf("feed: artists fetch failed for %s: %v", eventID, err)
				continue
			}
			mu.Lock()
			data.Artists[eventID] = artists
			mu.Unlock()
		}
	}()

	wg.Wait()
	return data
}
