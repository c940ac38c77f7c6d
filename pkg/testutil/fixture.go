package testutil

import (
	"context"
	"testing"

	"github.com/whazzastream/backend/internal/entity"
	"github.com/whazzastream/backend/internal/repository"
	"github.com/whazzastream/backend/pkg/crypto"
)

const (
	Password = "secret-password"
)

// InsertUsers seeds the standard cast: one admin and two regular users, all
// sharing the fixture password.
func InsertUsers(t *testing.T, ctx context.Context) {
	userRepo := repository.NewUserRepository()

	hashed, err := crypto.HashPassword(Password)
	if err != nil {
		t.Fatalf("cannot hash fixture password: %v", err)
	}

	admin := entity.NewUser("admin", hashed, "#ff0000", true)
	if err := userRepo.Create(ctx, admin); err != nil {
		t.Fatalf("cannot insert admin: %v", err)
	}

	alice := entity.NewUser("alice", hashed, "#00ff00", false)
	alice.Points = 1000
	if err := userRepo.Create(ctx, alice); err != nil {
		t.Fatalf("cannot insert alice: %v", err)
	}

	bob := entity.NewUser("bob", hashed, "", false)
	if err := userRepo.Create(ctx, bob); err != nil {
		t.Fatalf("cannot insert bob: %v", err)
	}
}
