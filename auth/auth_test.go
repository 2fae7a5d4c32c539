package auth

import (
	"context"
	"testing"

	"bend/middleware"
	"bend/models"
	"bend/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestRegisterThenLogin(t *testing.T) {
	ctx := context.Background()
	repos, _ := repo.NewMem()
	svc := NewService(repos.Accounts, testSecret)

	created, err := svc.Register(ctx, Credentials{
		Name: "Jonas", Email: "jonas@example.com", Password: "hunter22", Kind: models.KindFounder,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, models.KindFounder, created.Kind)

	session, err := svc.Login(ctx, Credentials{
		Email: "jonas@example.com", Password: "hunter22", Kind: models.KindFounder,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, session.ID)

	claims, err := middleware.NewAuth(testSecret).ValidateJWT("Bearer " + session.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.ID)
	assert.Equal(t, models.KindFounder, claims.Kind)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	ctx := context.Background()
	repos, _ := repo.NewMem()
	svc := NewService(repos.Accounts, testSecret)

	_, err := svc.Register(ctx, Credentials{
		Name: "mira", Email: "mira@example.com", Password: "correct", Kind: models.KindUser,
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, Credentials{Email: "mira@example.com", Password: "wrong", Kind: models.KindUser})
	assert.Error(t, err)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repos, _ := repo.NewMem()
	svc := NewService(repos.Accounts, testSecret)

	_, err := svc.Register(ctx, Credentials{
		Name: "The Hollow", Email: "band@example.com", Password: "x1y2z3", Kind: models.KindArtist,
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, Credentials{
		Name: "Impostor", Email: "band@example.com", Password: "aaaaaa", Kind: models.KindArtist,
	})
	assert.Error(t, err)
}

func TestStoredPasswordIsHashed(t *testing.T) {
	ctx := context.Background()
	repos, _ := repo.NewMem()
	svc := NewService(repos.Accounts, testSecret)

	created, err := svc.Register(ctx, Credentials{
		Name: "mira", Email: "mira@example.com", Password: "plaintext", Kind: models.KindUser,
	})
	require.NoError(t, err)

	stored, err := repos.Accounts.UserByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "plaintext", stored.Password)
}
