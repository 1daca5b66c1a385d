package users

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	if err != nil {
		t.Fatalf("gorm open: %v", err)
	}
	return db, mock
}

func userRow(mock sqlmock.Sqlmock, email string, hash []byte, active bool) *sqlmock.Rows {
	return mock.NewRows([]string{"id", "email", "password_hash", "first_name", "last_name", "role", "is_active"}).
		AddRow("u1", email, hash, "Ada", "Lovelace", RoleCustomer, active)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepo(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WithArgs("ada@example.com").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	u, err := repo.Register(context.Background(), RegisterInput{
		Email:     "  Ada@Example.com ",
		Password:  "secret123",
		FirstName: " Ada ",
		LastName:  "Lovelace",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "ada@example.com" {
		t.Errorf("email = %q", u.Email)
	}
	if u.FirstName != "Ada" {
		t.Errorf("first name not trimmed: %q", u.FirstName)
	}
	if u.Role != RoleCustomer || !u.IsActive {
		t.Errorf("new user role/active = %s/%v", u.Role, u.IsActive)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRegisterRejectsTakenEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRepo(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WillReturnRows(mock.NewRows([]string{"count"}).AddRow(1))

	_, err := repo.Register(context.Background(), RegisterInput{Email: "a@b.co", Password: "secret123"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("want ErrEmailTaken, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT \\* FROM `users`").
			WillReturnRows(userRow(mock, "a@b.co", hash, true))

		u, err := NewRepo(db).Authenticate(context.Background(), "a@b.co", "secret123")
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if u.ID != "u1" {
			t.Errorf("user id = %q", u.ID)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT \\* FROM `users`").
			WillReturnRows(userRow(mock, "a@b.co", hash, true))

		_, err := NewRepo(db).Authenticate(context.Background(), "a@b.co", "nope")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("want ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT \\* FROM `users`").
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := NewRepo(db).Authenticate(context.Background(), "nobody@b.co", "secret123")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("want ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("deactivated account", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery("SELECT \\* FROM `users`").
			WillReturnRows(userRow(mock, "a@b.co", hash, false))

		_, err := NewRepo(db).Authenticate(context.Background(), "a@b.co", "secret123")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("want ErrInvalidCredentials, got %v", err)
		}
	})
}
