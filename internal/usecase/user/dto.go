package user

// CreateUserRequest represents the request payload for adding a user to the roster.
type CreateUserRequest struct {
	Name  string  `validate:"required,min=1,max=100"`
	Age   uint32  `validate:"lte=150"`
	Email *string `validate:"omitempty,email"`
}

// CreateUserResponse carries the storage ID of the new user.
type CreateUserResponse struct {
	ID int64
}

// ListUsersRequest filters the roster by a case-insensitive name substring.
// An empty Query lists everyone.
type ListUsersRequest struct {
	Query string
}

// ListUsersResponse holds users in insertion order.
type ListUsersResponse struct {
	Users []User
}

// ListNamesRequest filters like ListUsersRequest.
type ListNamesRequest struct {
	Query string
}

// ListNamesResponse holds one name per user, in insertion order.
type ListNamesResponse struct {
	Names []string
}

// GetUserByNameRequest looks up the first user with an exact name.
type GetUserByNameRequest struct {
	Name string
}

// GetUserResponse represents the response payload for user details.
type GetUserResponse struct {
	User
}

// User represents a user DTO (Data Transfer Object) for API responses.
type User struct {
	Name  string
	Age   uint32
	Email *string
}
