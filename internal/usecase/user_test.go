package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/shopmart/internal/domain/errors"
	"github.com/polkiloo/shopmart/internal/domain/model"
	testhelpers "github.com/polkiloo/shopmart/internal/test"
)

func newUserFixture() (*testhelpers.UserRepositoryStub, *UserUseCase) {
	users := testhelpers.NewUserRepositoryStub()
	return users, NewUserUseCase(users)
}

func TestUserCreateSuccess(t *testing.T) {
	_, uc := newUserFixture()

	user, err := uc.Create(context.Background(), &model.User{Username: "alice", Email: "alice@example.com", FullName: "Alice Smith"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected assigned identifier")
	}
	if user.Status != model.UserStatusActive {
		t.Fatalf("expected default ACTIVE status, got %s", user.Status)
	}
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	users, uc := newUserFixture()
	users.Add(model.User{Username: "alice", Email: "alice@example.com", FullName: "Alice Smith", Status: model.UserStatusActive})

	_, err := uc.Create(context.Background(), &model.User{Username: "alice", Email: "other@example.com", FullName: "Other"})
	if !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists error, got %v", err)
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	users, uc := newUserFixture()
	users.Add(model.User{Username: "alice", Email: "alice@example.com", FullName: "Alice Smith", Status: model.UserStatusActive})

	_, err := uc.Create(context.Background(), &model.User{Username: "bob", Email: "alice@example.com", FullName: "Bob"})
	if !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists error, got %v", err)
	}
}

func TestUserCreateRejectsUnknownStatus(t *testing.T) {
	_, uc := newUserFixture()
	_, err := uc.Create(context.Background(), &model.User{Username: "alice", Email: "a@example.com", FullName: "Alice", Status: "FROZEN"})
	if !errors.Is(err, domainErrors.ErrInvalidStatus) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
}

func TestUserUpdateChecksDuplicatesOnlyWhenChanged(t *testing.T) {
	users, uc := newUserFixture()
	alice := users.Add(model.User{Username: "alice", Email: "alice@example.com", FullName: "Alice Smith", Status: model.UserStatusActive})
	users.Add(model.User{Username: "bob", Email: "bob@example.com", FullName: "Bob Jones", Status: model.UserStatusActive})

	// Same username, new full name: no duplicate check should trip.
	updated, err := uc.Update(context.Background(), alice.ID, &model.User{Username: "alice", Email: "alice@example.com", FullName: "Alice Johnson"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.FullName != "Alice Johnson" {
		t.Fatalf("expected updated full name, got %s", updated.FullName)
	}

	// Taking bob's username must fail.
	_, err = uc.Update(context.Background(), alice.ID, &model.User{Username: "bob", Email: "alice@example.com", FullName: "Alice"})
	if !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists error, got %v", err)
	}

	// Taking bob's email must fail.
	_, err = uc.Update(context.Background(), alice.ID, &model.User{Username: "alice", Email: "bob@example.com", FullName: "Alice"})
	if !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected already exists error, got %v", err)
	}
}

func TestUserUpdateUnknown(t *testing.T) {
	_, uc := newUserFixture()
	_, err := uc.Update(context.Background(), 404, &model.User{Username: "x", Email: "x@example.com", FullName: "X"})
	if !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestUserGetAndDelete(t *testing.T) {
	users, uc := newUserFixture()
	alice := users.Add(model.User{Username: "alice", Email: "alice@example.com", FullName: "Alice Smith", Status: model.UserStatusActive})

	got, err := uc.Get(context.Background(), alice.ID)
	if err != nil || got.Username != "alice" {
		t.Fatalf("unexpected get result: %v %v", got, err)
	}

	byName, err := uc.GetByUsername(context.Background(), "alice")
	if err != nil || byName.ID != alice.ID {
		t.Fatalf("unexpected get-by-username result: %v %v", byName, err)
	}

	if err := uc.Delete(context.Background(), alice.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := uc.Get(context.Background(), alice.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := uc.Delete(context.Background(), alice.ID); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestUserListAndSearch(t *testing.T) {
	users, uc := newUserFixture()
	users.Add(model.User{Username: "alice", Email: "alice@example.com", FullName: "Alice Smith", Status: model.UserStatusActive})
	users.Add(model.User{Username: "bob", Email: "bob@example.com", FullName: "Bob Jones", Status: model.UserStatusActive})

	list, total, err := uc.List(context.Background(), model.Pagination{})
	if err != nil || total != 2 || len(list) != 2 {
		t.Fatalf("unexpected list result: %v %d %d", err, total, len(list))
	}

	found, total, err := uc.Search(context.Background(), "ali", model.Pagination{})
	if err != nil || total == 0 || len(found) == 0 {
		t.Fatalf("unexpected search result: %v %d %d", err, total, len(found))
	}
}
