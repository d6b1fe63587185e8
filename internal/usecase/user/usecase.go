package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-roster/internal/domain/user"
	apperrors "user-roster/pkg/errors"
	"user-roster/pkg/logger"
	"user-roster/pkg/security"
)

// Repository defines the interface for roster data access operations.
// Implementations must return users in insertion order.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (int64, error)        // Append a user, returning its storage ID
	List(ctx context.Context, query string) ([]domain.User, error)    // Users whose name contains query, case-insensitive
	GetByName(ctx context.Context, name string) (*domain.User, error) // First user with exactly this name, nil if none
}

// Interactor implements Usecase on top of a Repository.
type Interactor struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
}

var _ Usecase = (*Interactor)(nil)

// New creates a new Interactor with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Interactor {
	return &Interactor{repo: r, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a single
// ValidationError listing every failing field.
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", e.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", e.Field()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		case "lte":
			messages = append(messages, fmt.Sprintf("%s must be at most %s", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return apperrors.NewValidationError("", strings.Join(messages, ", "))
}

// CreateUser validates the request and appends the user to the roster.
func (uc *Interactor) CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)
	log.Info("creating user", zap.String("name", in.Name), zap.Uint32("age", in.Age), zap.Bool("has_email", in.Email != nil))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	u := domain.New(in.Name, in.Age)
	if in.Email != nil {
		u = domain.WithEmail(in.Name, in.Age, *in.Email)
	}

	id, err := uc.repo.Create(ctx, &u)
	if err != nil {
		log.Error("failed to create user", zap.String("name", in.Name), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to create user", err)
	}
	return &CreateUserResponse{ID: id}, nil
}

// ListUsers returns the roster in insertion order, optionally filtered by name.
func (uc *Interactor) ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error) {
	domainUsers, err := uc.list(ctx, in.Query)
	if err != nil {
		return nil, err
	}

	users := make([]User, len(domainUsers))
	for i, du := range domainUsers {
		users[i] = toDTO(du)
	}
	return &ListUsersResponse{Users: users}, nil
}

// ListNames returns the name of every matching user, in insertion order.
func (uc *Interactor) ListNames(ctx context.Context, in ListNamesRequest) (*ListNamesResponse, error) {
	domainUsers, err := uc.list(ctx, in.Query)
	if err != nil {
		return nil, err
	}
	return &ListNamesResponse{Names: domain.Names(domainUsers)}, nil
}

// GetUserByName returns the first user whose name equals in.Name.
func (uc *Interactor) GetUserByName(ctx context.Context, in GetUserByNameRequest) (*GetUserResponse, error) {
	log := logger.WithContext(ctx, uc.log)

	name := strings.TrimSpace(in.Name)
	if name == "" {
		log.Warn("get user by name validation failed", zap.String("reason", "empty name"))
		return nil, apperrors.NewValidationError("name", "must not be empty")
	}

	u, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		log.Error("failed to get user by name", zap.String("name", name), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	if u == nil {
		log.Debug("user not found", zap.String("name", name))
		return nil, apperrors.NewNotFoundError("user", fmt.Sprintf("user not found: name=%s", name))
	}

	return &GetUserResponse{User: toDTO(*u)}, nil
}

func (uc *Interactor) list(ctx context.Context, query string) ([]domain.User, error) {
	log := logger.WithContext(ctx, uc.log)

	q, err := security.ValidateSearchQuery(query)
	if err != nil {
		log.Warn("invalid search query", zap.String("query", query), zap.Error(err))
		return nil, apperrors.NewValidationError("query", err.Error())
	}

	log.Debug("listing users", zap.String("query", q))

	users, err := uc.repo.List(ctx, q)
	if err != nil {
		log.Error("failed to list users", zap.String("query", q), zap.Error(err))
		return nil, apperrors.NewInternalError("failed to list users", err)
	}
	return users, nil
}

func toDTO(u domain.User) User {
	return User{
		Name:  u.Name,
		Age:   u.Age,
		Email: u.Email,
	}
}
