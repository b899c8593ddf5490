package services

import (
	"context"
	"fmt"
	"time"

	"matcha-backend/internal/apperr"
	"matcha-backend/internal/models"
)

// UserService handles profile discovery, profile updates and the like graph.
type UserService struct {
	users UserStore
	likes LikeStore
}

// NewUserService creates a new user service
func NewUserService(users UserStore, likes LikeStore) *UserService {
	return &UserService{
		users: users,
		likes: likes,
	}
}

// Discover runs a filtered, paginated listing of candidate profiles for the
// requester. The requester is always excluded; the gender filter defaults to
// the opposite of the requester's own gender; the age range defaults to
// 18-99. When the likers or likees restriction is requested, the matching id
// set from the like graph narrows the results, likers winning if both flags
// are set.
func (s *UserService) Discover(ctx context.Context, requesterID int64, q models.UserQuery) (models.Page[models.UserSummary], error) {
	var empty models.Page[models.UserSummary]

	requester, err := s.users.GetByID(ctx, requesterID, true)
	if err != nil {
		return empty, err
	}

	q.UserID = requesterID
	if q.Gender == "" {
		q.Gender = requester.Gender.Opposite()
	}
	if !q.Gender.IsValid() {
		return empty, fmt.Errorf("%w: unknown gender %q", apperr.ErrValidation, q.Gender)
	}
	if q.MinAge == 0 {
		q.MinAge = models.DefaultMinAge
	}
	if q.MaxAge == 0 {
		q.MaxAge = models.DefaultMaxAge
	}
	if q.MinAge < 0 || q.MaxAge < q.MinAge {
		return empty, fmt.Errorf("%w: invalid age range %d-%d", apperr.ErrValidation, q.MinAge, q.MaxAge)
	}

	switch {
	case q.Likers:
		ids, err := s.likes.LikerIDs(ctx, requesterID)
		if err != nil {
			return empty, err
		}
		q.FilterIDs, q.FilterByIDs = ids, true
	case q.Likees:
		ids, err := s.likes.LikeeIDs(ctx, requesterID)
		if err != nil {
			return empty, err
		}
		q.FilterIDs, q.FilterByIDs = ids, true
	}

	q.Page = q.Page.Normalize()
	users, total, err := s.users.List(ctx, q)
	if err != nil {
		return empty, err
	}
	return models.NewPage(users, total, q.Page), nil
}

// Get returns a user with photos. Unapproved photos are visible only when
// the requester is the user themselves.
func (s *UserService) Get(ctx context.Context, id, requesterID int64) (*models.User, error) {
	return s.users.GetByID(ctx, id, id == requesterID)
}

// Update applies a partial profile update.
func (s *UserService) Update(ctx context.Context, id int64, patch models.UserUpdate) error {
	return s.users.Update(ctx, id, patch)
}

// TouchLastActive refreshes the user's last-active stamp.
func (s *UserService) TouchLastActive(ctx context.Context, id int64) error {
	return s.users.UpdateLastActive(ctx, id, time.Now())
}

// Like records a directed like edge. Liking yourself is invalid, liking a
// missing user is NotFound, and liking the same user twice is a Conflict.
func (s *UserService) Like(ctx context.Context, likerID, likeeID int64) error {
	if likerID == likeeID {
		return fmt.Errorf("%w: cannot like yourself", apperr.ErrValidation)
	}

	exists, err := s.likes.Exists(ctx, likerID, likeeID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: already liked user %d", apperr.ErrConflict, likeeID)
	}

	if _, err := s.users.GetByID(ctx, likeeID, false); err != nil {
		return err
	}

	return s.likes.Create(ctx, &models.Like{
		LikerID:   likerID,
		LikeeID:   likeeID,
		CreatedAt: time.Now(),
	})
}

// Relationships resolves one side of a user's like graph: DirectionLikers
// yields the ids of users who like them, DirectionLikees the ids they like.
// The result is empty, never nil, when no edges exist.
func (s *UserService) Relationships(ctx context.Context, userID int64, direction models.LikeDirection) ([]int64, error) {
	switch direction {
	case models.DirectionLikers:
		return s.likes.LikerIDs(ctx, userID)
	case models.DirectionLikees:
		return s.likes.LikeeIDs(ctx, userID)
	default:
		return nil, fmt.Errorf("%w: unknown direction %q", apperr.ErrValidation, direction)
	}
}
