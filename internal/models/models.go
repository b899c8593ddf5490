package models

import "time"

// Gender is the profile gender. Discovery queries default to the opposite
// gender of the requester when none is given.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// IsValid reports whether the gender is one of the known values.
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// Opposite returns the other gender.
func (g Gender) Opposite() Gender {
	if g == GenderMale {
		return GenderFemale
	}
	return GenderMale
}

// LikeDirection selects which side of the like graph a relationship query
// resolves: the users who like a given user, or the users that user likes.
type LikeDirection string

const (
	DirectionLikers LikeDirection = "likers"
	DirectionLikees LikeDirection = "likees"
)

// MessageContainer names a message listing view.
type MessageContainer string

const (
	ContainerInbox  MessageContainer = "Inbox"
	ContainerOutbox MessageContainer = "Outbox"
	ContainerUnread MessageContainer = "Unread"
)

// IsValid reports whether the container is a known view. The empty value is
// valid and selects the Unread view.
func (c MessageContainer) IsValid() bool {
	switch c {
	case "", ContainerInbox, ContainerOutbox, ContainerUnread:
		return true
	default:
		return false
	}
}

// User represents a profile.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	KnownAs      string    `json:"known_as"`
	Gender       Gender    `json:"gender"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	CreatedAt    time.Time `json:"created_at"`
	LastActive   time.Time `json:"last_active"`
	Introduction string    `json:"introduction"`
	LookingFor   string    `json:"looking_for"`
	Interests    string    `json:"interests"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	DeviceToken  *string   `json:"-"`
	Photos       []Photo   `json:"photos"`
}

// Age returns the user's age in whole years as of now.
func (u *User) Age() int {
	return AgeAt(u.DateOfBirth, time.Now())
}

// MainPhotoURL returns the URL of the main photo, or "" when the user has no
// photos yet.
func (u *User) MainPhotoURL() string {
	for _, p := range u.Photos {
		if p.IsMain {
			return p.URL
		}
	}
	return ""
}

// AgeAt computes whole years between dob and now.
func AgeAt(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if dob.AddDate(age, 0, 0).After(now) {
		age--
	}
	return age
}

// Photo is an uploaded profile picture. PublicID is the key of the object in
// the external blob store; it is nil for seeded photos that only carry a URL.
type Photo struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	URL        string    `json:"url"`
	PublicID   *string   `json:"public_id,omitempty"`
	IsMain     bool      `json:"is_main"`
	IsApproved bool      `json:"is_approved"`
	AddedAt    time.Time `json:"added_at"`
}

// Like is a directed edge from liker to likee. The ordered pair is the
// primary key, so a pair can exist at most once.
type Like struct {
	LikerID   int64     `json:"liker_id"`
	LikeeID   int64     `json:"likee_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is a two-party message. Each party owns an independent deleted
// flag; a message stays stored until both flags are set, at which point it
// is physically removed.
type Message struct {
	ID               int64      `json:"id"`
	SenderID         int64      `json:"sender_id"`
	RecipientID      int64      `json:"recipient_id"`
	Content          string     `json:"content"`
	SentAt           time.Time  `json:"sent_at"`
	IsRead           bool       `json:"is_read"`
	ReadAt           *time.Time `json:"read_at,omitempty"`
	SenderDeleted    bool       `json:"-"`
	RecipientDeleted bool       `json:"-"`
}

// UserSummary is the listing shape for discovery results.
type UserSummary struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	KnownAs    string    `json:"known_as"`
	Age        int       `json:"age"`
	Gender     Gender    `json:"gender"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`
	PhotoURL   string    `json:"photo_url"`
}

// MessageSummary is a message together with both parties' display data.
type MessageSummary struct {
	Message
	SenderKnownAs     string `json:"sender_known_as"`
	SenderPhotoURL    string `json:"sender_photo_url"`
	RecipientKnownAs  string `json:"recipient_known_as"`
	RecipientPhotoURL string `json:"recipient_photo_url"`
}

// UserUpdate is a partial profile update. Nil fields are left untouched.
type UserUpdate struct {
	KnownAs      *string `json:"known_as"`
	Introduction *string `json:"introduction"`
	LookingFor   *string `json:"looking_for"`
	Interests    *string `json:"interests"`
	City         *string `json:"city"`
	Country      *string `json:"country"`
	DeviceToken  *string `json:"device_token"`
}
