package utils

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

func NewID() string {
	return uuid.New().String()
}

// NowMillis is the timestamp format stored on every record.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// ParsePagination reads page/limit query params with sane bounds.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int64) (skip, limit int64) {
	q := r.URL.Query()

	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.ParseInt(q.Get("limit"), 10, 64)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return (page - 1) * limit, limit
}
