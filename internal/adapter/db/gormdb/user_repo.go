package gormdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-roster/internal/domain/user"
	"user-roster/pkg/security"
)

// UserRepo implements the user Repository with GORM. It works with any
// dialect GORM supports; the application uses PostgreSQL and SQLite.
type UserRepo struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserRepo creates a new instance of UserRepo.
func NewUserRepo(db *gorm.DB, log *zap.Logger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID    int64   `gorm:"primaryKey;autoIncrement"`
	Name  string  `gorm:"not null;index"`
	Age   uint32  `gorm:"not null"`
	Email *string // NULL when the user has no email
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// Migrate creates or updates the users table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

// Create inserts a new user into the database.
func (r *UserRepo) Create(ctx context.Context, u *user.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	model := UserSchema{
		Name:  u.Name,
		Age:   u.Age,
		Email: u.Email,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("name", u.Name))
		return 0, fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Debug("user created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// List returns users ordered by ID, filtered by a case-insensitive name
// substring when query is not empty. LIKE wildcards in query match literally.
func (r *UserRepo) List(ctx context.Context, query string) ([]user.User, error) {
	tx := r.db.WithContext(ctx).Order("id")
	if query != "" {
		pattern := "%" + security.EscapeLike(strings.ToLower(query)) + "%"
		tx = tx.Where(`LOWER(name) LIKE ? ESCAPE '\'`, pattern)
	}

	var models []UserSchema
	if err := tx.Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err), zap.String("query", query))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]user.User, len(models))
	for i, m := range models {
		users[i] = toDomain(m)
	}
	return users, nil
}

// GetByName returns the lowest-ID user with exactly this name, or nil.
func (r *UserRepo) GetByName(ctx context.Context, name string) (*user.User, error) {
	var model UserSchema
	err := r.db.WithContext(ctx).Where("name = ?", name).Order("id").First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.log.Debug("user not found by name", zap.String("name", name))
		return nil, nil
	}
	if err != nil {
		r.log.Error("failed to get user by name from db", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("failed to get user by name: %w", err)
	}

	u := toDomain(model)
	return &u, nil
}

func toDomain(m UserSchema) user.User {
	return user.User{
		Name:  m.Name,
		Age:   m.Age,
		Email: m.Email,
	}
}
