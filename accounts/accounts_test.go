package accounts

import (
	"context"
	"testing"

	"bend/models"
	"bend/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePicksTheOwningCollection(t *testing.T) {
	ctx := context.Background()
	repos, _ := repo.NewMem()
	require.NoError(t, repos.Accounts.InsertUser(ctx, models.User{UserID: "u1", Username: "mira"}))
	require.NoError(t, repos.Accounts.InsertArtist(ctx, models.Artist{ArtistID: "a1", Name: "The Hollow"}))
	require.NoError(t, repos.Accounts.InsertFounder(ctx, models.Founder{FounderID: "f1", Name: "Jonas"}))

	resolver := NewResolver(repos.Accounts)

	acc := resolver.Resolve(ctx, "a1")
	require.NotNil(t, acc)
	assert.Equal(t, models.KindArtist, acc.Kind)
	require.NotNil(t, acc.Artist)
	assert.Equal(t, "The Hollow", acc.Artist.Name)
	assert.Nil(t, acc.User)
	assert.Nil(t, acc.Founder)

	acc = resolver.Resolve(ctx, "f1")
	require.NotNil(t, acc)
	assert.Equal(t, models.KindFounder, acc.Kind)

	acc = resolver.Resolve(ctx, "u1")
	require.NotNil(t, acc)
	assert.Equal(t, models.KindUser, acc.Kind)
}

func TestResolveUnknownIDIsNil(t *testing.T) {
	repos, _ := repo.NewMem()
	resolver := NewResolver(repos.Accounts)
	assert.Nil(t, resolver.Resolve(context.Background(), "ghost"))
}
