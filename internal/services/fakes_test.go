package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"matcha-backend/internal/apperr"
	"matcha-backend/internal/models"
)

// In-memory stand-ins for the repository layer. They mirror the SQL
// semantics closely enough for the services to be exercised end to end.

type fakeUserStore struct {
	nextID    int64
	users     map[int64]*models.User
	lastQuery models.UserQuery
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User)}
}

func (s *fakeUserStore) add(u models.User) *models.User {
	s.nextID++
	u.ID = s.nextID
	s.users[u.ID] = &u
	return &u
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return fmt.Errorf("duplicate username: %w", apperr.ErrConflict)
		}
	}
	s.nextID++
	user.ID = s.nextID
	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64, isOwner bool) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	clone := *user
	clone.Photos = []models.Photo{}
	for _, p := range user.Photos {
		if p.IsApproved || isOwner {
			clone.Photos = append(clone.Photos, p)
		}
	}
	return &clone, nil
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range s.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, apperr.ErrNotFound)
}

func (s *fakeUserStore) List(_ context.Context, q models.UserQuery) ([]models.UserSummary, int, error) {
	s.lastQuery = q
	minDob, maxDob := q.DobBounds(time.Now())

	allowed := map[int64]bool{}
	for _, id := range q.FilterIDs {
		allowed[id] = true
	}

	matches := []models.UserSummary{}
	for _, u := range s.users {
		if u.ID == q.UserID || u.Gender != q.Gender {
			continue
		}
		if u.DateOfBirth.Before(minDob) || u.DateOfBirth.After(maxDob) {
			continue
		}
		if q.FilterByIDs && !allowed[u.ID] {
			continue
		}
		matches = append(matches, models.UserSummary{
			ID:         u.ID,
			Username:   u.Username,
			KnownAs:    u.KnownAs,
			Age:        u.Age(),
			Gender:     u.Gender,
			City:       u.City,
			Country:    u.Country,
			CreatedAt:  u.CreatedAt,
			LastActive: u.LastActive,
			PhotoURL:   u.MainPhotoURL(),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if q.OrderBy == models.OrderCreated {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].LastActive.After(matches[j].LastActive)
	})

	total := len(matches)
	page := q.Page.Normalize()
	offset := page.Offset()
	if offset >= total {
		return []models.UserSummary{}, total, nil
	}
	end := offset + page.PageSize
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func (s *fakeUserStore) Update(_ context.Context, id int64, patch models.UserUpdate) error {
	user, ok := s.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	apply := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&user.KnownAs, patch.KnownAs)
	apply(&user.Introduction, patch.Introduction)
	apply(&user.LookingFor, patch.LookingFor)
	apply(&user.Interests, patch.Interests)
	apply(&user.City, patch.City)
	apply(&user.Country, patch.Country)
	if patch.DeviceToken != nil {
		token := *patch.DeviceToken
		user.DeviceToken = &token
	}
	return nil
}

func (s *fakeUserStore) UpdateLastActive(_ context.Context, id int64, at time.Time) error {
	if user, ok := s.users[id]; ok {
		user.LastActive = at
	}
	return nil
}

type likeKey struct {
	liker, likee int64
}

type fakeLikeStore struct {
	edges map[likeKey]time.Time
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{edges: make(map[likeKey]time.Time)}
}

func (s *fakeLikeStore) Create(_ context.Context, like *models.Like) error {
	key := likeKey{like.LikerID, like.LikeeID}
	if _, ok := s.edges[key]; ok {
		return fmt.Errorf("duplicate like: %w", apperr.ErrConflict)
	}
	s.edges[key] = like.CreatedAt
	return nil
}

func (s *fakeLikeStore) Exists(_ context.Context, likerID, likeeID int64) (bool, error) {
	_, ok := s.edges[likeKey{likerID, likeeID}]
	return ok, nil
}

func (s *fakeLikeStore) LikerIDs(_ context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	for key := range s.edges {
		if key.likee == userID {
			ids = append(ids, key.liker)
		}
	}
	return ids, nil
}

func (s *fakeLikeStore) LikeeIDs(_ context.Context, userID int64) ([]int64, error) {
	ids := []int64{}
	for key := range s.edges {
		if key.liker == userID {
			ids = append(ids, key.likee)
		}
	}
	return ids, nil
}

type fakeMessageStore struct {
	nextID   int64
	messages map[int64]*models.Message
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{messages: make(map[int64]*models.Message)}
}

func (s *fakeMessageStore) Create(_ context.Context, msg *models.Message) error {
	s.nextID++
	msg.ID = s.nextID
	clone := *msg
	s.messages[msg.ID] = &clone
	return nil
}

func (s *fakeMessageStore) GetByID(_ context.Context, id int64) (*models.Message, error) {
	msg, ok := s.messages[id]
	if !ok {
		return nil, fmt.Errorf("message %d: %w", id, apperr.ErrNotFound)
	}
	clone := *msg
	return &clone, nil
}

func (s *fakeMessageStore) MarkRead(_ context.Context, id int64, at time.Time) error {
	msg, ok := s.messages[id]
	if !ok {
		return fmt.Errorf("message %d: %w", id, apperr.ErrNotFound)
	}
	if !msg.IsRead {
		msg.IsRead = true
		msg.ReadAt = &at
	}
	return nil
}

func (s *fakeMessageStore) DeleteForParty(_ context.Context, id int64, forSender bool) (bool, error) {
	msg, ok := s.messages[id]
	if !ok {
		return false, fmt.Errorf("message %d: %w", id, apperr.ErrNotFound)
	}
	if forSender {
		msg.SenderDeleted = true
	} else {
		msg.RecipientDeleted = true
	}
	if msg.SenderDeleted && msg.RecipientDeleted {
		delete(s.messages, id)
		return true, nil
	}
	return false, nil
}

func (s *fakeMessageStore) ListForUser(_ context.Context, q models.MessageQuery) ([]models.MessageSummary, int, error) {
	matches := []models.MessageSummary{}
	for _, m := range s.messages {
		var include bool
		switch q.Container {
		case models.ContainerInbox:
			include = m.RecipientID == q.UserID && !m.RecipientDeleted
		case models.ContainerOutbox:
			include = m.SenderID == q.UserID && !m.SenderDeleted
		default:
			include = m.RecipientID == q.UserID && !m.RecipientDeleted && !m.IsRead
		}
		if include {
			matches = append(matches, models.MessageSummary{Message: *m})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].SentAt.After(matches[j].SentAt)
	})

	total := len(matches)
	page := q.Page.Normalize()
	offset := page.Offset()
	if offset >= total {
		return []models.MessageSummary{}, total, nil
	}
	end := offset + page.PageSize
	if end > total {
		end = total
	}
	return matches[offset:end], total, nil
}

func (s *fakeMessageStore) Thread(_ context.Context, userID, otherID int64) ([]models.MessageSummary, error) {
	matches := []models.MessageSummary{}
	for _, m := range s.messages {
		sent := m.SenderID == userID && m.RecipientID == otherID && !m.SenderDeleted
		received := m.SenderID == otherID && m.RecipientID == userID && !m.RecipientDeleted
		if sent || received {
			matches = append(matches, models.MessageSummary{Message: *m})
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].SentAt.After(matches[j].SentAt)
	})
	return matches, nil
}

type fakePhotoStore struct {
	nextID int64
	photos map[int64]*models.Photo
}

func newFakePhotoStore() *fakePhotoStore {
	return &fakePhotoStore{photos: make(map[int64]*models.Photo)}
}

func (s *fakePhotoStore) Create(_ context.Context, photo *models.Photo) error {
	hasMain := false
	for _, p := range s.photos {
		if p.UserID == photo.UserID && p.IsMain {
			hasMain = true
			break
		}
	}
	photo.IsMain = !hasMain
	s.nextID++
	photo.ID = s.nextID
	clone := *photo
	s.photos[photo.ID] = &clone
	return nil
}

func (s *fakePhotoStore) GetByID(_ context.Context, id int64) (*models.Photo, error) {
	photo, ok := s.photos[id]
	if !ok {
		return nil, fmt.Errorf("photo %d: %w", id, apperr.ErrNotFound)
	}
	clone := *photo
	return &clone, nil
}

func (s *fakePhotoStore) SetMain(_ context.Context, userID, photoID int64) error {
	target, ok := s.photos[photoID]
	if !ok || target.UserID != userID {
		return fmt.Errorf("photo %d: %w", photoID, apperr.ErrNotFound)
	}
	for _, p := range s.photos {
		if p.UserID == userID {
			p.IsMain = false
		}
	}
	target.IsMain = true
	return nil
}

func (s *fakePhotoStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.photos[id]; !ok {
		return fmt.Errorf("photo %d: %w", id, apperr.ErrNotFound)
	}
	delete(s.photos, id)
	return nil
}

type fakeBlobStore struct {
	uploads   []string
	deletes   []string
	uploadErr error
	deleteErr error
}

func (s *fakeBlobStore) Upload(_ context.Context, key string, _ io.Reader, _ int64, _ string) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	s.uploads = append(s.uploads, key)
	return "https://blobs.test/" + key, nil
}

func (s *fakeBlobStore) Delete(_ context.Context, key string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletes = append(s.deletes, key)
	return nil
}
