package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"examauth/internal/model"
)

func setupRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Error mocking DB")

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet(), "Expectations were not met")
		sqlDB.Close()
	})

	return NewUserRepository(gormDB), mock
}

func userRows(mock sqlmock.Sqlmock, user model.User) *sqlmock.Rows {
	return mock.NewRows([]string{
		"id", "email", "full_name", "password_hash", "role", "is_active", "created_at", "updated_at",
	}).AddRow(
		user.ID, user.Email, user.FullName, user.PasswordHash, user.Role, user.IsActive, user.CreatedAt, user.UpdatedAt,
	)
}

func TestUserRepository_FindByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := setupRepo(t)
		now := time.Now()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE email = ?")).
			WillReturnRows(userRows(mock, model.User{
				ID: 7, Email: "a@x.com", FullName: "Alice", PasswordHash: "hash",
				Role: model.DefaultRole, IsActive: true, CreatedAt: now, UpdatedAt: now,
			}))

		user, err := repo.FindByEmail(context.Background(), "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "a@x.com", user.Email)
		assert.Equal(t, "Alice", user.FullName)
		assert.Equal(t, model.DefaultRole, user.Role)
		assert.True(t, user.IsActive)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := setupRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `users` WHERE email = ?")).
			WillReturnRows(mock.NewRows([]string{"id", "email"}))

		user, err := repo.FindByEmail(context.Background(), "missing@x.com")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
		assert.Nil(t, user)
	})
}

func TestUserRepository_Create(t *testing.T) {
	t.Run("inserts user", func(t *testing.T) {
		repo, mock := setupRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `users`")).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()

		user := &model.User{Email: "a@x.com", FullName: "Alice", PasswordHash: "hash", Role: model.DefaultRole}
		require.NoError(t, repo.Create(context.Background(), user))
		assert.Equal(t, uint(1), user.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo, mock := setupRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `users`")).
			WillReturnError(&mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry 'a@x.com' for key 'idx_users_email'"})
		mock.ExpectRollback()

		err := repo.Create(context.Background(), &model.User{Email: "a@x.com", FullName: "Alice", PasswordHash: "hash"})
		assert.ErrorIs(t, err, ErrDuplicate)
	})
}

func TestUserRepository_Updates(t *testing.T) {
	t.Run("activate", func(t *testing.T) {
		repo, mock := setupRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE `users` SET `is_active`=?")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.UpdateActive(context.Background(), "a@x.com", true))
	})

	t.Run("password", func(t *testing.T) {
		repo, mock := setupRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE `users` SET `password_hash`=?")).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.UpdatePassword(context.Background(), "a@x.com", "new-hash"))
	})
}

func TestUserRepository_DeleteAll(t *testing.T) {
	repo, mock := setupRepo(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `users`")).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	n, err := repo.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
