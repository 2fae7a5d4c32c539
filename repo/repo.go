package repo

import (
	"context"

	"bend/models"
)

// Per-entity repositories. The join logic (fetch join rows, then fetch the
// referenced records) lives behind ByIDs/By<ForeignKey> methods so it is
// written once instead of redone ad hoc at every call site.
//
// Read contract: batched lookups take a set of IDs and must return an empty
// slice immediately when the set is empty, without touching the store (the
// store errors on an empty $in list). Single lookups return (nil, nil) when
// nothing matches; not-found is not an error.

type Events interface {
	ByID(ctx context.Context, eventID string) (*models.Event, error)
	List(ctx context.Context, skip, limit int64) ([]models.Event, error)
	ByIDs(ctx context.Context, eventIDs []string) ([]models.Event, error)
	ByFounderIDs(ctx context.Context, founderIDs []string) ([]models.Event, error)
	Insert(ctx context.Context, ev models.Event) error
	Update(ctx context.Context, ev models.Event) error
	Delete(ctx context.Context, eventID string) error
}

type ArtistEvents interface {
	ByArtistIDs(ctx context.Context, artistIDs []string) ([]models.ArtistEvent, error)
	ByEventID(ctx context.Context, eventID string) ([]models.ArtistEvent, error)
	Link(ctx context.Context, link models.ArtistEvent) error
	Unlink(ctx context.Context, artistID, eventID string) error
	DeleteByEvent(ctx context.Context, eventID string) error
}

type Attendance interface {
	Insert(ctx context.Context, ue models.UserEvent) error
	DeleteByUserEvent(ctx context.Context, userID, eventID string) error
	DeleteByEvent(ctx context.Context, eventID string) error
	Exists(ctx context.Context, userID, eventID string) (bool, error)
	UserIDsByEvent(ctx context.Context, eventID string) ([]string, error)
	EventIDsByUser(ctx context.Context, userID string) ([]string, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)
}

type Follows interface {
	// FollowedBy returns the IDs the given user follows.
	FollowedBy(ctx context.Context, userID string) ([]string, error)
	// FollowersOf returns the IDs of users following the given user.
	FollowersOf(ctx context.Context, userID string) ([]string, error)
	Insert(ctx context.Context, f models.Follower) error
	Delete(ctx context.Context, userID, followedID string) error
	Exists(ctx context.Context, userID, followedID string) (bool, error)
}

type Reposts interface {
	ByUserIDs(ctx context.Context, userIDs []string) ([]models.Repost, error)
	Insert(ctx context.Context, rp models.Repost) error
	Delete(ctx context.Context, userID, eventID string) error
}

type Notifications interface {
	Insert(ctx context.Context, n models.Notification) error
	ByRecipient(ctx context.Context, userID string, limit int64) ([]models.Notification, error)
	// MarkSeen flips the seen flag, but only when the notification
	// belongs to userID.
	MarkSeen(ctx context.Context, userID, notificationID string) error
	CountUnseen(ctx context.Context, userID string) (int64, error)
}

type Reviews interface {
	Insert(ctx context.Context, rv models.Review) error
	ByReviewedID(ctx context.Context, reviewedID string) ([]models.Review, error)
	ByEventID(ctx context.Context, eventID string) ([]models.Review, error)
}

type Accounts interface {
	UserByID(ctx context.Context, id string) (*models.User, error)
	ArtistByID(ctx context.Context, id string) (*models.Artist, error)
	FounderByID(ctx context.Context, id string) (*models.Founder, error)
	ArtistsByIDs(ctx context.Context, ids []string) ([]models.Artist, error)
	ListArtists(ctx context.Context, skip, limit int64) ([]models.Artist, error)
	FoundersByIDs(ctx context.Context, ids []string) ([]models.Founder, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	ArtistByEmail(ctx context.Context, email string) (*models.Artist, error)
	FounderByEmail(ctx context.Context, email string) (*models.Founder, error)
	InsertUser(ctx context.Context, u models.User) error
	InsertArtist(ctx context.Context, a models.Artist) error
	InsertFounder(ctx context.Context, f models.Founder) error
	// AddRating adds value to the target's rating sum and bumps the count
	// inside a single read-modify-write transaction, so two concurrent
	// raters never lose an update.
	AddRating(ctx context.Context, kind models.AccountKind, id string, value float64) error
}

// Repos bundles every repository so components take one dependency.
type Repos struct {
	Events        Events
	ArtistEvents  ArtistEvents
	Attendance    Attendance
	Follows       Follows
	Reposts       Reposts
	Notifications Notifications
	Reviews       Reviews
	Accounts      Accounts
}
