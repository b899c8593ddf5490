package models

import "time"

// User discovery defaults. An unspecified age range spans the whole
// permitted range, so the date-of-birth restriction is always applied.
const (
	DefaultMinAge = 18
	DefaultMaxAge = 99
)

// Order keys for discovery results. Anything else falls back to
// OrderLastActive.
const (
	OrderLastActive = "lastActive"
	OrderCreated    = "created"
)

// UserQuery describes a discovery query over users. UserID is the requester
// and is always excluded from results.
//
// Likers and Likees restrict results to one side of the requester's like
// graph. When both are set, Likers takes precedence and Likees is ignored.
type UserQuery struct {
	UserID  int64
	Gender  Gender
	MinAge  int
	MaxAge  int
	Likers  bool
	Likees  bool
	OrderBy string
	Page    PageParams

	// FilterIDs restricts results to the given user ids when FilterByIDs is
	// set. It is populated by the relationship resolver, not by callers.
	FilterIDs   []int64
	FilterByIDs bool
}

// DobBounds translates the inclusive age range into date-of-birth bounds as
// of today: minDob = today - (maxAge+1) years, maxDob = today - (minAge+1)
// years. The extra year keeps the exact boundary ages inside the range.
func (q UserQuery) DobBounds(today time.Time) (minDob, maxDob time.Time) {
	minDob = today.AddDate(-(q.MaxAge + 1), 0, 0)
	maxDob = today.AddDate(-(q.MinAge + 1), 0, 0)
	return minDob, maxDob
}

// MessageQuery describes a message listing for one user. The zero Container
// selects the Unread view.
type MessageQuery struct {
	UserID    int64
	Container MessageContainer
	Page      PageParams
}
