package notify

import (
	"context"
	"fmt"

	"bend/models"
)

// Trigger helpers. Each one pins down the audience, text, and sensitivity
// for a single user-visible action, so callers never assemble notification
// payloads by hand.

// EventCreated informs the founder's followers about a new event.
func (s *Service) EventCreated(ctx context.Context, ev models.Event) {
	text := fmt.Sprintf("organized a new event at %s on %s", ev.Location, ev.StartDate)
	s.ToFollowersOf(ctx, ev.FounderID, ev.FounderID, ev.EventID, text, false)
}

// ArtistAdded informs an artist they were put on an event's lineup.
func (s *Service) ArtistAdded(ctx context.Context, artistID string, ev models.Event) {
	text := fmt.Sprintf("added you to the lineup of the event at %s on %s", ev.Location, ev.StartDate)
	s.ToUser(ctx, ev.FounderID, artistID, ev.EventID, text, true)
}

// ArtistRemoved informs an artist they were taken off an event's lineup.
func (s *Service) ArtistRemoved(ctx context.Context, artistID string, ev models.Event) {
	text := fmt.Sprintf("removed you from the lineup of the event at %s on %s", ev.Location, ev.StartDate)
	s.ToUser(ctx, ev.FounderID, artistID, ev.EventID, text, true)
}

// ArtistWithdrew informs the founder and every attendee that an artist
// pulled out on their own.
func (s *Service) ArtistWithdrew(ctx context.Context, artistID string, ev models.Event) {
	s.ToUser(ctx, artistID, ev.FounderID, ev.EventID, "is no longer performing at your event", true)
	text := fmt.Sprintf("is no longer performing at the event at %s on %s", ev.Location, ev.StartDate)
	s.ToAttendeesOf(ctx, ev.EventID, artistID, text, true)
}

// EventEdited informs attendees and linked artists, with separate texts.
func (s *Service) EventEdited(ctx context.Context, ev models.Event) {
	attendeeText := fmt.Sprintf("updated the details of an event you are attending at %s", ev.Location)
	s.ToAttendeesOf(ctx, ev.EventID, ev.FounderID, attendeeText, true)
	artistText := fmt.Sprintf("updated the details of an event you are performing at, at %s", ev.Location)
	s.ToArtistsOf(ctx, ev.EventID, ev.FounderID, artistText, true)
}

// EventDeleted informs attendees and linked artists. Must run before the
// join rows are cascaded away or the audiences resolve to nothing.
func (s *Service) EventDeleted(ctx context.Context, ev models.Event) {
	attendeeText := fmt.Sprintf("cancelled an event you were attending at %s on %s", ev.Location, ev.StartDate)
	s.ToAttendeesOf(ctx, ev.EventID, ev.FounderID, attendeeText, true)
	artistText := fmt.Sprintf("cancelled an event you were performing at, at %s on %s", ev.Location, ev.StartDate)
	s.ToArtistsOf(ctx, ev.EventID, ev.FounderID, artistText, true)
}

// EventReposted informs the reposter's followers and the event's founder.
func (s *Service) EventReposted(ctx context.Context, reposterID string, ev models.Event) {
	text := fmt.Sprintf("shared an event at %s on %s", ev.Location, ev.StartDate)
	s.ToFollowersOf(ctx, reposterID, reposterID, ev.EventID, text, false)
	s.ToUser(ctx, reposterID, ev.FounderID, ev.EventID, "shared your event", false)
}

// NewFollower informs the followed user.
func (s *Service) NewFollower(ctx context.Context, followerID, followedID string) {
	s.ToUser(ctx, followerID, followedID, "", "started following you", false)
}

// Attending informs the attendee's followers.
func (s *Service) Attending(ctx context.Context, userID string, ev models.Event) {
	text := fmt.Sprintf("is attending an event at %s on %s", ev.Location, ev.StartDate)
	s.ToFollowersOf(ctx, userID, userID, ev.EventID, text, false)
}

// RatingReceived informs the rated user of the formatted value.
func (s *Service) RatingReceived(ctx context.Context, raterID, targetID string, value float64) {
	s.ToUser(ctx, raterID, targetID, "", fmt.Sprintf("rated you %.1f stars", value), false)
}

// ReviewReceived informs the reviewed user.
func (s *Service) ReviewReceived(ctx context.Context, writerID, targetID, eventID string) {
	s.ToUser(ctx, writerID, targetID, eventID, "wrote a review about you", false)
}

// ArtistsPerforming informs each performing artist's followers about the
// event the artist is on.
func (s *Service) ArtistsPerforming(ctx context.Context, artistIDs []string, ev models.Event) {
	text := fmt.Sprintf("is performing at an event at %s on %s", ev.Location, ev.StartDate)
	for _, artistID := range artistIDs {
		s.ToFollowersOf(ctx, artistID, artistID, ev.EventID, text, false)
	}
}
