package routes

import (
	"bend/accounts"
	"bend/artists"
	"bend/attendance"
	"bend/auth"
	"bend/events"
	"bend/feed"
	"bend/live"
	"bend/middleware"
	"bend/notify"
	"bend/profile"
	"bend/ratelim"
	"bend/ratings"
	"bend/reviews"

	"github.com/julienschmidt/httprouter"
)

// Handlers collects every HTTP-facing component the router serves.
type Handlers struct {
	Auth          *auth.Handler
	Accounts      *accounts.Handler
	Events        *events.Handler
	Artists       *artists.Handler
	Feed          *feed.Handler
	Attendance    *attendance.Handler
	Profile       *profile.Handler
	Reviews       *reviews.Handler
	Ratings       *ratings.Handler
	Notifications *notify.Handler
	Hub           *live.Hub
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, h *Handlers) {
	router.POST("/api/auth/register", rl.Limit(h.Auth.Register))
	router.POST("/api/auth/login", rl.Limit(h.Auth.Login))
}

func AddAccountRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, auth *middleware.Auth, h *Handlers) {
	router.GET("/api/accounts/:id", rl.Limit(h.Accounts.GetAccount))
}

func AddEventsRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, auth *middleware.Auth, h *Handlers) {
	router.GET("/api/events", rl.Limit(h.Events.GetEvents))
	router.POST("/api/events", auth.Authenticate(h.Events.CreateEvent))
	router.GET("/api/events/:eventid", rl.Limit(h.Events.GetEvent))
	router.PUT("/api/events/:eventid", auth.Authenticate(h.Events.UpdateEvent))
	router.DELETE("/api/events/:eventid", auth.Authenticate(h.Events.DeleteEvent))
	router.GET("/api/events/:eventid/qr", rl.Limit(h.Events.ShareQR))
	router.GET("/api/events/:eventid/sheet", rl.Limit(h.Events.EventSheet))
	router.GET("/api/events/:eventid/reviews", rl.Limit(h.Reviews.ReviewsForEvent))
}

func AddArtistRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, auth *middleware.Auth, h *Handlers) {
	router.GET("/api/artists", rl.Limit(h.Artists.ListArtists))
	router.GET("/api/artists/:artistid", rl.Limit(h.Artists.GetArtist))
	router.GET("/api/artists/:artistid/events", rl.Limit(h.Artists.GetArtistEvents))
	router.DELETE("/api/lineup/:eventid", auth.Authenticate(h.Artists.Withdraw))
}

func AddFeedRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, auth *middleware.Auth, h *Handlers) {
	router.GET("/api/feed", auth.Authenticate(h.Feed.GetFeed))
	router.GET("/api/feed/cards", auth.Authenticate(h.Feed.GetFeedCards))
	router.POST("/api/reposts", rl.Limit(auth.Authenticate(h.Feed.Repost)))
	router.DELETE("/api/reposts/:eventid", auth.Authenticate(h.Feed.DeleteRepost))
}

func AddAttendanceRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, auth *middleware.Auth, h *Handlers) {
	router.POST("/api/events/:eventid/attend", rl.Limit(auth.Authenticate(h.Attendance.Attend)))
	router.DELETE("/api/events/:eventid/attend", auth.Authenticate(h.Attendance.Unattend))
	router.GET("/api/events/:eventid/attendance", auth.OptionalAuth(h.Attendance.GetAttendance))
	router.GET("/api/profile/events", auth.Authenticate(h.Attendance.MyEvents))
}

func AddProfileRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, auth *middleware.Auth, h *Handlers) {
	router.PUT("/api/follows/:id", rl.Limit(auth.Authenticate(h.Profile.Follow)))
	router.DELETE("/api/follows/:id", auth.Authenticate(h.Profile.Unfollow))
	router.GET("/api/follows/:id", auth.Authenticate(h.Profile.DoesFollow))
	router.GET("/api/user/:id/followers", rl.Limit(h.Profile.Followers))
	router.GET("/api/user/:id/following", rl.Limit(h.Profile.Following))
}

func AddReviewsRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, auth *middleware.Auth, h *Handlers) {
	router.POST("/api/reviews", rl.Limit(auth.Authenticate(h.Reviews.CreateReview)))
	router.GET("/api/reviews/about/:id", rl.Limit(h.Reviews.ReviewsAbout))
	router.POST("/api/ratings", rl.Limit(auth.Authenticate(h.Ratings.RateAccount)))
}

func AddNotificationRoutes(router *httprouter.Router, rl *ratelim.RateLimiter, auth *middleware.Auth, h *Handlers) {
	router.GET("/api/notifications", auth.Authenticate(h.Notifications.List))
	router.GET("/api/notifications/unseen", auth.Authenticate(h.Notifications.UnseenCount))
	router.PUT("/api/notifications/:id/seen", auth.Authenticate(h.Notifications.MarkSeen))
	router.GET("/ws/badge", auth.Authenticate(h.Hub.ServeWS))
}

func RoutesWrapper(router *httprouter.Router, rl *ratelim.RateLimiter, auth *middleware.Auth, h *Handlers) {
	AddAuthRoutes(router, rl, h)
	AddAccountRoutes(router, rl, auth, h)
	AddEventsRoutes(router, rl, auth, h)
	AddArtistRoutes(router, rl, auth, h)
	AddFeedRoutes(router, rl, auth, h)
	AddAttendanceRoutes(router, rl, auth, h)
	AddProfileRoutes(router, rl, auth, h)
	AddReviewsRoutes(router, rl, auth, h)
	AddNotificationRoutes(router, rl, auth, h)
}
