package repository

import (
	"context"
	"errors"
	"testing"

	"ArsenalAura/internal/model"
)

func TestCreateUserInitializesStats(t *testing.T) {
	db := openTestDB(t, &model.User{}, &model.UserStats{})
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &model.User{Email: "a@b.com", PasswordHash: "hash", FavoriteClub: "Arsenal"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("id not assigned")
	}

	var count int64
	if err := db.Model(&model.UserStats{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count stats: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected stats row, got %d", count)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(openTestDB(t, &model.User{}, &model.UserStats{}))
	ctx := context.Background()

	if err := repo.Create(ctx, &model.User{Email: "a@b.com", PasswordHash: "h", FavoriteClub: "Arsenal"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := repo.Create(ctx, &model.User{Email: "a@b.com", PasswordHash: "h", FavoriteClub: "Chelsea"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestFindByEmailMiss(t *testing.T) {
	repo := NewUserRepository(openTestDB(t, &model.User{}, &model.UserStats{}))
	user, err := repo.FindByEmail(context.Background(), "missing@b.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if user != nil {
		t.Fatalf("expected nil, got %+v", user)
	}
}

func TestUpsertAdminPromotesExistingUser(t *testing.T) {
	db := openTestDB(t, &model.User{}, &model.UserStats{})
	repo := NewUserRepository(db)
	ctx := context.Background()

	existing := &model.User{Email: "admin@b.com", PasswordHash: "old", FavoriteClub: "Arsenal"}
	if err := repo.Create(ctx, existing); err != nil {
		t.Fatalf("Create: %v", err)
	}

	admin, err := repo.UpsertAdmin(ctx, "admin@b.com", "newhash")
	if err != nil {
		t.Fatalf("UpsertAdmin: %v", err)
	}
	if admin.ID != existing.ID {
		t.Fatal("must promote existing user, not create a second one")
	}
	if !admin.IsAdmin || admin.PasswordHash != "newhash" {
		t.Fatalf("promotion incomplete: %+v", admin)
	}
}

func TestUpsertAdminCreatesFreshAdmin(t *testing.T) {
	db := openTestDB(t, &model.User{}, &model.UserStats{})
	repo := NewUserRepository(db)

	admin, err := repo.UpsertAdmin(context.Background(), "fresh@b.com", "hash")
	if err != nil {
		t.Fatalf("UpsertAdmin: %v", err)
	}
	if !admin.IsAdmin || admin.FavoriteClub != "Arsenal" {
		t.Fatalf("unexpected admin: %+v", admin)
	}

	var count int64
	if err := db.Model(&model.UserStats{}).Where("user_id = ?", admin.ID).Count(&count).Error; err != nil {
		t.Fatalf("count stats: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected stats row, got %d", count)
	}
}
