package auth

import (
	"context"
	"fmt"
	"time"

	"bend/middleware"
	"bend/models"
	"bend/repo"
	"bend/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 7 * 24 * time.Hour

// Service registers and logs in the three account kinds. Each kind lives
// in its own collection, but IDs are drawn from one UUID space so a bare
// ID is enough to find its owner later.
type Service struct {
	accounts repo.Accounts
	secret   []byte
}

func NewService(accounts repo.Accounts, secret []byte) *Service {
	return &Service{accounts: accounts, secret: secret}
}

type Credentials struct {
	Name     string             `json:"name"`
	Email    string             `json:"email"`
	Password string             `json:"password"`
	Kind     models.AccountKind `json:"kind"`
}

type Session struct {
	Token string             `json:"token"`
	ID    string             `json:"id"`
	Kind  models.AccountKind `json:"kind"`
}

// Register creates an account of the requested kind and returns a signed
// session for it.
func (s *Service) Register(ctx context.Context, creds Credentials) (Session, error) {
	if creds.Email == "" || creds.Password == "" {
		return Session{}, fmt.Errorf("email and password are required")
	}

	taken, err := s.emailTaken(ctx, creds.Kind, creds.Email)
	if err != nil {
		return Session{}, err
	}
	if taken {
		return Session{}, fmt.Errorf("email %s is already registered", creds.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	id := utils.NewID()
	switch creds.Kind {
	case models.KindUser:
		err = s.accounts.InsertUser(ctx, models.User{
			UserID: id, Username: creds.Name, Email: creds.Email, Password: string(hash),
		})
	case models.KindArtist:
		err = s.accounts.InsertArtist(ctx, models.Artist{
			ArtistID: id, Name: creds.Name, Email: creds.Email, Password: string(hash),
		})
	case models.KindFounder:
		err = s.accounts.InsertFounder(ctx, models.Founder{
			FounderID: id, Name: creds.Name, Email: creds.Email, Password: string(hash),
		})
	default:
		return Session{}, fmt.Errorf("unknown account kind %q", creds.Kind)
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to create account: %w", err)
	}

	return s.session(creds.Name, id, creds.Kind)
}

// Login checks the password against the stored hash for the given kind.
func (s *Service) Login(ctx context.Context, creds Credentials) (Session, error) {
	name, id, hash, err := s.lookup(ctx, creds.Kind, creds.Email)
	if err != nil {
		return Session{}, err
	}
	if id == "" {
		return Session{}, fmt.Errorf("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)); err != nil {
		return Session{}, fmt.Errorf("invalid email or password")
	}
	return s.session(name, id, creds.Kind)
}

func (s *Service) session(name, id string, kind models.AccountKind) (Session, error) {
	claims := middleware.Claims{
		Name: name,
		ID:   id,
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Session{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return Session{Token: token, ID: id, Kind: kind}, nil
}

func (s *Service) emailTaken(ctx context.Context, kind models.AccountKind, email string) (bool, error) {
	_, id, _, err := s.lookup(ctx, kind, email)
	if err != nil {
		return false, err
	}
	return id != "", nil
}

func (s *Service) lookup(ctx context.Context, kind models.AccountKind, email string) (name, id, hash string, err error) {
	switch kind {
	case models.KindUser:
		u, err := s.accounts.UserByEmail(ctx, email)
		if err != nil || u == nil {
			return "", "", "", err
		}
		return u.Username, u.UserID, u.Password, nil
	case models.KindArtist:
		a, err := s.accounts.ArtistByEmail(ctx, email)
		if err != nil || a == nil {
			return "", "", "", err
		}
		return a.Name, a.ArtistID, a.Password, nil
	case models.KindFounder:
		f, err := s.accounts.FounderByEmail(ctx, email)
		if err != nil || f == nil {
			return "", "", "", err
		}
		return f.Name, f.FounderID, f.Password, nil
	default:
		return "", "", "", fmt.Errorf("unknown account kind %q", kind)
	}
}
