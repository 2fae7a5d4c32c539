package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store holds every collection handle the service uses. It is built once in
// main and passed into each component, so nothing reaches for a package-level
// client and tests can swap the whole data layer for an in-memory fake.
type Store struct {
	Client *mongo.Client

	Events        *mongo.Collection
	ArtistEvents  *mongo.Collection
	UserEvents    *mongo.Collection
	Followers     *mongo.Collection
	Reposts       *mongo.Collection
	Notifications *mongo.Collection
	Reviews       *mongo.Collection
	Users         *mongo.Collection
	Artists       *mongo.Collection
	Founders      *mongo.Collection
}

func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	d := client.Database(dbName)
	return &Store{
		Client:        client,
		Events:        d.Collection("events"),
		ArtistEvents:  d.Collection("artistevents"),
		UserEvents:    d.Collection("userevents"),
		Followers:     d.Collection("followers"),
		Reposts:       d.Collection("reposts"),
		Notifications: d.Collection("notifications"),
		Reviews:       d.Collection("reviews"),
		Users:         d.Collection("users"),
		Artists:       d.Collection("artists"),
		Founders:      d.Collection("founders"),
	}, nil
}

func (s *Store) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.Client.Disconnect(ctx)
}
