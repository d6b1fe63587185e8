package user

import "context"

// Usecase defines the interface for roster business logic operations.
type Usecase interface {
	CreateUser(ctx context.Context, in CreateUserRequest) (*CreateUserResponse, error)
	ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error)
	ListNames(ctx context.Context, in ListNamesRequest) (*ListNamesResponse, error)
	GetUserByName(ctx context.Context, in GetUserByNameRequest) (*GetUserResponse, error)
}
