package models

// The three account kinds live in disjoint collections but share one UUID
// space: a given ID exists in at most one of users/artists/founders.

type User struct {
	UserID   string `json:"userid" bson:"userid"`
	Username string `json:"username" bson:"username"`
	Email    string `json:"email" bson:"email"`
	Password string `json:"-" bson:"password"`
	Bio      string `json:"bio,omitempty" bson:"bio,omitempty"`
}

type Artist struct {
	ArtistID      string   `json:"artistid" bson:"artistid"`
	Name          string   `json:"name" bson:"name"`
	Email         string   `json:"email" bson:"email"`
	Password      string   `json:"-" bson:"password"`
	Genres        []string `json:"genres,omitempty" bson:"genres,omitempty"`
	Bio           string   `json:"bio,omitempty" bson:"bio,omitempty"`
	Rating        float64  `json:"rating" bson:"rating"`
	RatingsNumber int64    `json:"ratings_number" bson:"ratings_number"`
}

type Founder struct {
	FounderID     string  `json:"founderid" bson:"founderid"`
	Name          string  `json:"name" bson:"name"`
	Email         string  `json:"email" bson:"email"`
	Password      string  `json:"-" bson:"password"`
	Phone         string  `json:"phone,omitempty" bson:"phone,omitempty"`
	Rating        float64 `json:"rating" bson:"rating"`
	RatingsNumber int64   `json:"ratings_number" bson:"ratings_number"`
}

// DisplayRating is the average shown on profile cards; the stored fields
// are a running sum and count so concurrent raters only ever increment.
func (a Artist) DisplayRating() float64 {
	if a.RatingsNumber == 0 {
		return 0
	}
	return a.Rating / float64(a.RatingsNumber)
}

func (f Founder) DisplayRating() float64 {
	if f.RatingsNumber == 0 {
		return 0
	}
	return f.Rating / float64(f.RatingsNumber)
}

type AccountKind string

const (
	KindUser    AccountKind = "user"
	KindArtist  AccountKind = "artist"
	KindFounder AccountKind = "founder"
)

// Account is the resolved profile for a UUID: exactly one of the three
// pointers is set, matching Kind. Resolving once and passing this down
// replaces speculative three-collection lookups at every use site.
type Account struct {
	ID      string      `json:"id"`
	Kind    AccountKind `json:"kind"`
	User    *User       `json:"user,omitempty"`
	Artist  *Artist     `json:"artist,omitempty"`
	Founder *Founder    `json:"founder,omitempty"`
}
