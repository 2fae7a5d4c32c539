package repo

import (
	"context"
	"errors"
	"fmt"

	"bend/db"
	"bend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongo wires every repository to the collections in the given store.
func NewMongo(store *db.Store) *Repos {
	return &Repos{
		Events:        &mongoEvents{coll: store.Events},
		ArtistEvents:  &mongoArtistEvents{coll: store.ArtistEvents},
		Attendance:    &mongoAttendance{coll: store.UserEvents},
		Follows:       &mongoFollows{coll: store.Followers},
		Reposts:       &mongoReposts{coll: store.Reposts},
		Notifications: &mongoNotifications{coll: store.Notifications},
		Reviews:       &mongoReviews{coll: store.Reviews},
		Accounts: &mongoAccounts{
			client:   store.Client,
			users:    store.Users,
			artists:  store.Artists,
			founders: store.Founders,
		},
	}
}

// findAll runs Find and decodes the cursor into a slice of T.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// findIn batches a lookup over a set of values. Mongo rejects an empty $in
// list, so an empty input returns an empty slice without issuing a query.
func findIn[T any](ctx context.Context, coll *mongo.Collection, field string, values []string) ([]T, error) {
	if len(values) == 0 {
		return []T{}, nil
	}
	return findAll[T](ctx, coll, bson.M{field: bson.M{"$in": values}})
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) (*T, error) {
	var doc T
	err := coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// --- events ---

type mongoEvents struct {
	coll *mongo.Collection
}

func (m *mongoEvents) ByID(ctx context.Context, eventID string) (*models.Event, error) {
	return findOne[models.Event](ctx, m.coll, bson.M{"eventid": eventID})
}

func (m *mongoEvents) List(ctx context.Context, skip, limit int64) ([]models.Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	return findAll[models.Event](ctx, m.coll, bson.M{}, opts)
}

func (m *mongoEvents) ByIDs(ctx context.Context, eventIDs []string) ([]models.Event, error) {
	return findIn[models.Event](ctx, m.coll, "eventid", eventIDs)
}

func (m *mongoEvents) ByFounderIDs(ctx context.Context, founderIDs []string) ([]models.Event, error) {
	return findIn[models.Event](ctx, m.coll, "founderid", founderIDs)
}

func (m *mongoEvents) Insert(ctx context.Context, ev models.Event) error {
	if _, err := m.coll.InsertOne(ctx, ev); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

func (m *mongoEvents) Update(ctx context.Context, ev models.Event) error {
	_, err := m.coll.ReplaceOne(ctx, bson.M{"eventid": ev.EventID}, ev, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func (m *mongoEvents) Delete(ctx context.Context, eventID string) error {
	_, err := m.coll.DeleteOne(ctx, bson.M{"eventid": eventID})
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// --- artist/event links ---

type mongoArtistEvents struct {
	coll *mongo.Collection
}

func (m *mongoArtistEvents) ByArtistIDs(ctx context.Context, artistIDs []string) ([]models.ArtistEvent, error) {
	return findIn[models.ArtistEvent](ctx, m.coll, "artistid", artistIDs)
}

func (m *mongoArtistEvents) ByEventID(ctx context.Context, eventID string) ([]models.ArtistEvent, error) {
	return findAll[models.ArtistEvent](ctx, m.coll, bson.M{"eventid": eventID})
}

func (m *mongoArtistEvents) Link(ctx context.Context, link models.ArtistEvent) error {
	if _, err := m.coll.InsertOne(ctx, link); err != nil {
		return fmt.Errorf("failed to link artist to event: %w", err)
	}
	return nil
}

func (m *mongoArtistEvents) Unlink(ctx context.Context, artistID, eventID string) error {
	_, err := m.coll.DeleteMany(ctx, bson.M{"artistid": artistID, "eventid": eventID})
	if err != nil {
		return fmt.Errorf("failed to unlink artist from event: %w", err)
	}
	return nil
}

func (m *mongoArtistEvents) DeleteByEvent(ctx context.Context, eventID string) error {
	_, err := m.coll.DeleteMany(ctx, bson.M{"eventid": eventID})
	if err != nil {
		return fmt.Errorf("failed to delete artist links for event: %w", err)
	}
	return nil
}

// --- attendance ---

type mongoAttendance struct {
	coll *mongo.Collection
}

func (m *mongoAttendance) Insert(ctx context.Context, ue models.UserEvent) error {
	if _, err := m.coll.InsertOne(ctx, ue); err != nil {
		return fmt.Errorf("failed to insert attendance: %w", err)
	}
	return nil
}

func (m *mongoAttendance) DeleteByUserEvent(ctx context.Context, userID, eventID string) error {
	_, err := m.coll.DeleteMany(ctx, bson.M{"userid": userID, "eventid": eventID})
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	return nil
}

func (m *mongoAttendance) DeleteByEvent(ctx context.Context, eventID string) error {
	_, err := m.coll.DeleteMany(ctx, bson.M{"eventid": eventID})
	if err != nil {
		return fmt.Errorf("failed to delete attendance for event: %w", err)
	}
	return nil
}

func (m *mongoAttendance) Exists(ctx context.Context, userID, eventID string) (bool, error) {
	count, err := m.coll.CountDocuments(ctx, bson.M{"userid": userID, "eventid": eventID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (m *mongoAttendance) UserIDsByEvent(ctx context.Context, eventID string) ([]string, error) {
	rows, err := findAll[models.UserEvent](ctx, m.coll, bson.M{"eventid": eventID})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if !seen[row.UserID] {
			ids = append(ids, row.UserID)
			seen[row.UserID] = true
		}
	}
	return ids, nil
}

func (m *mongoAttendance) EventIDsByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := findAll[models.UserEvent](ctx, m.coll, bson.M{"userid": userID})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if !seen[row.EventID] {
			ids = append(ids, row.EventID)
			seen[row.EventID] = true
		}
	}
	return ids, nil
}

func (m *mongoAttendance) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	return m.coll.CountDocuments(ctx, bson.M{"eventid": eventID})
}

// --- follows ---

type mongoFollows struct {
	coll *mongo.Collection
}

func (m *mongoFollows) FollowedBy(ctx context.Context, userID string) ([]string, error) {
	rows, err := findAll[models.Follower](ctx, m.coll, bson.M{"userid": userID})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.FollowedID)
	}
	return ids, nil
}

func (m *mongoFollows) FollowersOf(ctx context.Context, userID string) ([]string, error) {
	rows, err := findAll[models.Follower](ctx, m.coll, bson.M{"followedid": userID})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	return ids, nil
}

func (m *mongoFollows) Insert(ctx context.Context, f models.Follower) error {
	if _, err := m.coll.InsertOne(ctx, f); err != nil {
		return fmt.Errorf("failed to insert follow edge: %w", err)
	}
	return nil
}

func (m *mongoFollows) Delete(ctx context.Context, userID, followedID string) error {
	_, err := m.coll.DeleteMany(ctx, bson.M{"userid": userID, "followedid": followedID})
	if err != nil {
		return fmt.Errorf("failed to delete follow edge: %w", err)
	}
	return nil
}

func (m *mongoFollows) Exists(ctx context.Context, userID, followedID string) (bool, error) {
	count, err := m.coll.CountDocuments(ctx, bson.M{"userid": userID, "followedid": followedID})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// --- reposts ---

type mongoReposts struct {
	coll *mongo.Collection
}

func (m *mongoReposts) ByUserIDs(ctx context.Context, userIDs []string) ([]models.Repost, error) {
	return findIn[models.Repost](ctx, m.coll, "userid", userIDs)
}

func (m *mongoReposts) Insert(ctx context.Context, rp models.Repost) error {
	if _, err := m.coll.InsertOne(ctx, rp); err != nil {
		return fmt.Errorf("failed to insert repost: %w", err)
	}
	return nil
}

func (m *mongoReposts) Delete(ctx context.Context, userID, eventID string) error {
	_, err := m.coll.DeleteMany(ctx, bson.M{"userid": userID, "eventid": eventID})
	if err != nil {
		return fmt.Errorf("failed to delete repost: %w", err)
	}
	return nil
}

// --- notifications ---

type mongoNotifications struct {
	coll *mongo.Collection
}

func (m *mongoNotifications) Insert(ctx context.Context, n models.Notification) error {
	if _, err := m.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (m *mongoNotifications) ByRecipient(ctx context.Context, userID string, limit int64) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	return findAll[models.Notification](ctx, m.coll, bson.M{"toid": userID}, opts)
}

func (m *mongoNotifications) MarkSeen(ctx context.Context, userID, notificationID string) error {
	_, err := m.coll.UpdateOne(ctx, bson.M{"uuid": notificationID, "toid": userID}, bson.M{"$set": bson.M{"seen": true}})
	if err != nil {
		return fmt.Errorf("failed to mark notification seen: %w", err)
	}
	return nil
}

func (m *mongoNotifications) CountUnseen(ctx context.Context, userID string) (int64, error) {
	return m.coll.CountDocuments(ctx, bson.M{"toid": userID, "seen": false})
}

// --- reviews ---

type mongoReviews struct {
	coll *mongo.Collection
}

func (m *mongoReviews) Insert(ctx context.Context, rv models.Review) error {
	if _, err := m.coll.InsertOne(ctx, rv); err != nil {
		return fmt.Errorf("failed to insert review: %w", err)
	}
	return nil
}

func (m *mongoReviews) ByReviewedID(ctx context.Context, reviewedID string) ([]models.Review, error) {
	return findAll[models.Review](ctx, m.coll, bson.M{"reviewedid": reviewedID})
}

func (m *mongoReviews) ByEventID(ctx context.Context, eventID string) ([]models.Review, error) {
	return findAll[models.Review](ctx, m.coll, bson.M{"eventid": eventID})
}

// --- accounts ---

type mongoAccounts struct {
	client   *mongo.Client
	users    *mongo.Collection
	artists  *mongo.Collection
	founders *mongo.Collection
}

func (m *mongoAccounts) UserByID(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, m.users, bson.M{"userid": id})
}

func (m *mongoAccounts) ArtistByID(ctx context.Context, id string) (*models.Artist, error) {
	return findOne[models.Artist](ctx, m.artists, bson.M{"artistid": id})
}

func (m *mongoAccounts) FounderByID(ctx context.Context, id string) (*models.Founder, error) {
	return findOne[models.Founder](ctx, m.founders, bson.M{"founderid": id})
}

func (m *mongoAccounts) ArtistsByIDs(ctx context.Context, ids []string) ([]models.Artist, error) {
	return findIn[models.Artist](ctx, m.artists, "artistid", ids)
}

func (m *mongoAccounts) ListArtists(ctx context.Context, skip, limit int64) ([]models.Artist, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)
	return findAll[models.Artist](ctx, m.artists, bson.M{}, opts)
}

func (m *mongoAccounts) FoundersByIDs(ctx context.Context, ids []string) ([]models.Founder, error) {
	return findIn[models.Founder](ctx, m.founders, "founderid", ids)
}

func (m *mongoAccounts) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, m.users, bson.M{"email": email})
}

func (m *mongoAccounts) ArtistByEmail(ctx context.Context, email string) (*models.Artist, error) {
	return findOne[models.Artist](ctx, m.artists, bson.M{"email": email})
}

func (m *mongoAccounts) FounderByEmail(ctx context.Context, email string) (*models.Founder, error) {
	return findOne[models.Founder](ctx, m.founders, bson.M{"email": email})
}

func (m *mongoAccounts) InsertUser(ctx context.Context, u models.User) error {
	if _, err := m.users.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (m *mongoAccounts) InsertArtist(ctx context.Context, a models.Artist) error {
	if _, err := m.artists.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("failed to insert artist: %w", err)
	}
	return nil
}

func (m *mongoAccounts) InsertFounder(ctx context.Context, f models.Founder) error {
	if _, err := m.founders.InsertOne(ctx, f); err != nil {
		return fmt.Errorf("failed to insert founder: %w", err)
	}
	return nil
}

func (m *mongoAccounts) AddRating(ctx context.Context, kind models.AccountKind, id string, value float64) error {
	var coll *mongo.Collection
	var idField string
	switch kind {
	case models.KindArtist:
		coll, idField = m.artists, "artistid"
	case models.KindFounder:
		coll, idField = m.founders, "founderid"
	default:
		return fmt.Errorf("account kind %q cannot be rated", kind)
	}

	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var doc struct {
			Rating        float64 `bson:"rating"`
			RatingsNumber int64   `bson:"ratings_number"`
		}
		if err := coll.FindOne(sc, bson.M{idField: id}).Decode(&doc); err != nil {
			return nil, err
		}
		_, err := coll.UpdateOne(sc, bson.M{idField: id}, bson.M{"$set": bson.M{
			"rating":         doc.Rating + value,
			"ratings_number": doc.RatingsNumber + 1,
		}})
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("rating transaction failed: %w", err)
	}
	return nil
}
