package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Cursor pagination for the archive endpoints. Rows come back ordered
// ts DESC; the cursor is the timestamp of the last row of the previous
// page, echoed back through the before query parameter.
const (
	// DefaultLimit covers two full prediction snapshots
	// (6 gates x 5 horizons).
	DefaultLimit = 60
	MaxLimit     = 300
)

type PaginationParams struct {
	Limit  int
	Before *time.Time
}

// CursorResponse wraps one archive page. NextCursor is empty on the last
// page.
type CursorResponse struct {
	Data       interface{} `json:"data"`
	NextCursor string      `json:"next_cursor,omitempty"`
	HasMore    bool        `json:"has_more"`
}

func ParsePagination(c *gin.Context) PaginationParams {
	p := PaginationParams{Limit: DefaultLimit}

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			p.Limit = l
		}
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}

	// Unparseable cursors fall back to the first page rather than erroring.
	if beforeStr := c.Query("before"); beforeStr != "" {
		if t, err := time.Parse(time.RFC3339Nano, beforeStr); err == nil {
			p.Before = &t
		}
	}

	return p
}
