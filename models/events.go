package models

// Event is the organizer-owned record everything else hangs off.
// CreatedAt is epoch millis; feed assembly overwrites it on repost
// entries so the feed sorts by repost recency.
type Event struct {
	EventID     string  `json:"eventid" bson:"eventid"`
	FounderID   string  `json:"founderid" bson:"founderid"`
	Location    string  `json:"location" bson:"location"`
	EntranceFee float64 `json:"entrance_fee" bson:"entrance_fee"`
	StartDate   string  `json:"start_date" bson:"start_date"`
	EndDate     string  `json:"end_date" bson:"end_date"`
	StartTime   string  `json:"start_time" bson:"start_time"`
	EndTime     string  `json:"end_time" bson:"end_time"`
	PosterURL   string  `json:"poster_url" bson:"poster_url"`
	CreatedAt   int64   `json:"created_at" bson:"created_at"`
}

// ArtistEvent links a performing artist to an event.
type ArtistEvent struct {
	ArtistID string `json:"artistid" bson:"artistid"`
	EventID  string `json:"eventid" bson:"eventid"`
}

// UserEvent is one "attends" row. Rows are not deduplicated on insert;
// attending twice leaves two rows.
type UserEvent struct {
	ID      string `json:"id" bson:"uuid"`
	UserID  string `json:"userid" bson:"userid"`
	EventID string `json:"eventid" bson:"eventid"`
}

// Repost re-shares an event into the reposter's followers' feeds.
type Repost struct {
	ID        string `json:"id" bson:"uuid"`
	UserID    string `json:"userid" bson:"userid"`
	EventID   string `json:"eventid" bson:"eventid"`
	Timestamp int64  `json:"timestamp" bson:"timestamp"`
}

// FeedItem is one feed card. RepostedBy is empty for organic entries and
// carries the reposting user's ID otherwise. The same event may appear
// several times, once per repost plus at most once organically.
type FeedItem struct {
	RepostedBy string `json:"reposted_by,omitempty" bson:"reposted_by,omitempty"`
	Event      Event  `json:"event" bson:"event"`
}
