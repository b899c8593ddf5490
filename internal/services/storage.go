package services

import (
	"context"
	"io"
	"time"

	"matcha-backend/internal/models"
)

// Storage interfaces implemented by the repository package. Services depend
// on these rather than concrete repositories so tests can swap in fakes.

// UserStore provides user persistence.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64, isOwner bool) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, q models.UserQuery) ([]models.UserSummary, int, error)
	Update(ctx context.Context, id int64, patch models.UserUpdate) error
	UpdateLastActive(ctx context.Context, id int64, at time.Time) error
}

// LikeStore provides like-edge persistence.
type LikeStore interface {
	Create(ctx context.Context, like *models.Like) error
	Exists(ctx context.Context, likerID, likeeID int64) (bool, error)
	LikerIDs(ctx context.Context, userID int64) ([]int64, error)
	LikeeIDs(ctx context.Context, userID int64) ([]int64, error)
}

// MessageStore provides message persistence.
type MessageStore interface {
	Create(ctx context.Context, msg *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	MarkRead(ctx context.Context, id int64, at time.Time) error
	DeleteForParty(ctx context.Context, id int64, forSender bool) (purged bool, err error)
	ListForUser(ctx context.Context, q models.MessageQuery) ([]models.MessageSummary, int, error)
	Thread(ctx context.Context, userID, otherID int64) ([]models.MessageSummary, error)
}

// PhotoStore provides photo persistence.
type PhotoStore interface {
	Create(ctx context.Context, photo *models.Photo) error
	GetByID(ctx context.Context, id int64) (*models.Photo, error)
	SetMain(ctx context.Context, userID, photoID int64) error
	Delete(ctx context.Context, id int64) error
}

// BlobStore is the external photo storage collaborator. Failures surface as
// apperr.ErrStorage; the core does not interpret their internals.
type BlobStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (url string, err error)
	Delete(ctx context.Context, key string) error
}

// Pusher delivers a push notification to a device.
type Pusher interface {
	Push(ctx context.Context, deviceToken, title, body string) error
}
