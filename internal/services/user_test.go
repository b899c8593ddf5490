package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"matcha-backend/internal/apperr"
	"matcha-backend/internal/models"
)

func dob(age int) time.Time {
	return time.Now().AddDate(-age, -1, 0)
}

func seedUser(store *fakeUserStore, username string, gender models.Gender, age int) *models.User {
	return store.add(models.User{
		Username:    username,
		KnownAs:     username,
		Gender:      gender,
		DateOfBirth: dob(age),
		CreatedAt:   time.Now(),
		LastActive:  time.Now(),
	})
}

func TestDiscoverDefaultsGenderToOpposite(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, newFakeLikeStore())

	alice := seedUser(users, "alice", models.GenderFemale, 25)
	bob := seedUser(users, "bob", models.GenderMale, 28)
	seedUser(users, "carol", models.GenderFemale, 30)

	page, err := svc.Discover(context.Background(), alice.ID, models.UserQuery{})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != bob.ID {
		t.Fatalf("expected only bob, got %+v", page.Items)
	}
	if users.lastQuery.Gender != models.GenderMale {
		t.Errorf("gender default = %q, want %q", users.lastQuery.Gender, models.GenderMale)
	}
}

func TestDiscoverExcludesRequester(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, newFakeLikeStore())

	alice := seedUser(users, "alice", models.GenderFemale, 25)
	dana := seedUser(users, "dana", models.GenderFemale, 27)

	page, err := svc.Discover(context.Background(), alice.ID, models.UserQuery{Gender: models.GenderFemale})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != dana.ID {
		t.Fatalf("expected only dana, got %+v", page.Items)
	}
}

func TestDiscoverAgeRange(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, newFakeLikeStore())

	alice := seedUser(users, "alice", models.GenderFemale, 25)
	young := seedUser(users, "young", models.GenderMale, 21)
	seedUser(users, "old", models.GenderMale, 45)

	page, err := svc.Discover(context.Background(), alice.ID, models.UserQuery{MinAge: 20, MaxAge: 30})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != young.ID {
		t.Fatalf("expected only the 21-year-old, got %+v", page.Items)
	}
}

func TestDiscoverLikersPrecedence(t *testing.T) {
	users := newFakeUserStore()
	likes := newFakeLikeStore()
	svc := NewUserService(users, likes)

	alice := seedUser(users, "alice", models.GenderFemale, 25)
	liker := seedUser(users, "liker", models.GenderMale, 26)
	likee := seedUser(users, "likee", models.GenderMale, 27)

	likes.edges[likeKey{liker.ID, alice.ID}] = time.Now()
	likes.edges[likeKey{alice.ID, likee.ID}] = time.Now()

	// Both flags set: the likers restriction wins.
	page, err := svc.Discover(context.Background(), alice.ID, models.UserQuery{Likers: true, Likees: true})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != liker.ID {
		t.Fatalf("expected only the liker, got %+v", page.Items)
	}

	page, err = svc.Discover(context.Background(), alice.ID, models.UserQuery{Likees: true})
	if err != nil {
		t.Fatalf("Discover likees: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != likee.ID {
		t.Fatalf("expected only the likee, got %+v", page.Items)
	}
}

func TestDiscoverPageBeyondEnd(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, newFakeLikeStore())

	alice := seedUser(users, "alice", models.GenderFemale, 25)
	seedUser(users, "bob", models.GenderMale, 28)

	page, err := svc.Discover(context.Background(), alice.ID, models.UserQuery{
		Page: models.PageParams{PageNumber: 50, PageSize: 10},
	})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if page.Items == nil {
		t.Fatal("items slice is nil")
	}
	if len(page.Items) != 0 {
		t.Errorf("items past the end = %d, want 0", len(page.Items))
	}
	if page.Info.TotalItems != 1 || page.Info.TotalPages != 1 {
		t.Errorf("page info = %+v, want 1 item over 1 page", page.Info)
	}
	if page.Info.CurrentPage != 50 {
		t.Errorf("CurrentPage = %d, want 50", page.Info.CurrentPage)
	}
}

func TestDiscoverValidation(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, newFakeLikeStore())
	alice := seedUser(users, "alice", models.GenderFemale, 25)

	tests := []struct {
		name string
		q    models.UserQuery
	}{
		{"unknown gender", models.UserQuery{Gender: "robot"}},
		{"inverted ages", models.UserQuery{MinAge: 40, MaxAge: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Discover(context.Background(), alice.ID, tt.q)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestDiscoverUnknownRequester(t *testing.T) {
	svc := NewUserService(newFakeUserStore(), newFakeLikeStore())
	_, err := svc.Discover(context.Background(), 42, models.UserQuery{})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLike(t *testing.T) {
	users := newFakeUserStore()
	likes := newFakeLikeStore()
	svc := NewUserService(users, likes)

	alice := seedUser(users, "alice", models.GenderFemale, 25)
	bob := seedUser(users, "bob", models.GenderMale, 28)

	if err := svc.Like(context.Background(), alice.ID, bob.ID); err != nil {
		t.Fatalf("Like: %v", err)
	}
	if len(likes.edges) != 1 {
		t.Fatalf("edge count = %d, want 1", len(likes.edges))
	}

	if err := svc.Like(context.Background(), alice.ID, bob.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("repeat like err = %v, want ErrConflict", err)
	}
	if len(likes.edges) != 1 {
		t.Errorf("edge count after repeat = %d, want 1", len(likes.edges))
	}

	if err := svc.Like(context.Background(), alice.ID, alice.ID); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("self like err = %v, want ErrValidation", err)
	}
	if err := svc.Like(context.Background(), alice.ID, 999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing likee err = %v, want ErrNotFound", err)
	}
}

func TestRelationships(t *testing.T) {
	users := newFakeUserStore()
	likes := newFakeLikeStore()
	svc := NewUserService(users, likes)

	alice := seedUser(users, "alice", models.GenderFemale, 25)
	bob := seedUser(users, "bob", models.GenderMale, 28)
	likes.edges[likeKey{alice.ID, bob.ID}] = time.Now()

	likers, err := svc.Relationships(context.Background(), bob.ID, models.DirectionLikers)
	if err != nil {
		t.Fatalf("Relationships: %v", err)
	}
	if len(likers) != 1 || likers[0] != alice.ID {
		t.Errorf("likers of bob = %v, want [%d]", likers, alice.ID)
	}

	likees, err := svc.Relationships(context.Background(), bob.ID, models.DirectionLikees)
	if err != nil {
		t.Fatalf("Relationships: %v", err)
	}
	if likees == nil || len(likees) != 0 {
		t.Errorf("likees of bob = %v, want empty non-nil", likees)
	}

	if _, err := svc.Relationships(context.Background(), bob.ID, "sideways"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("unknown direction err = %v, want ErrValidation", err)
	}
}

func TestGetHidesUnapprovedPhotosFromOthers(t *testing.T) {
	users := newFakeUserStore()
	svc := NewUserService(users, newFakeLikeStore())

	bob := users.add(models.User{
		Username:    "bob",
		Gender:      models.GenderMale,
		DateOfBirth: dob(28),
		Photos: []models.Photo{
			{ID: 1, IsMain: true, IsApproved: true},
			{ID: 2, IsApproved: false},
		},
	})

	asOther, err := svc.Get(context.Background(), bob.ID, bob.ID+1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(asOther.Photos) != 1 {
		t.Errorf("photos visible to others = %d, want 1", len(asOther.Photos))
	}

	asSelf, err := svc.Get(context.Background(), bob.ID, bob.ID)
	if err != nil {
		t.Fatalf("Get self: %v", err)
	}
	if len(asSelf.Photos) != 2 {
		t.Errorf("photos visible to owner = %d, want 2", len(asSelf.Photos))
	}
}
