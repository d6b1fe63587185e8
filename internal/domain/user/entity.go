package user

// User represents a user entity in the roster.
type User struct {
	Name  string  `json:"name"`            // Name is the display name of the user
	Age   uint32  `json:"age"`             // Age in years
	Email *string `json:"email,omitempty"` // Email is nil when the user has none
}

// New creates a User without an email address.
func New(name string, age uint32) User {
	return User{
		Name: name,
		Age:  age,
	}
}

// WithEmail creates a User with the given email address.
func WithEmail(name string, age uint32, email string) User {
	return User{
		Name:  name,
		Age:   age,
		Email: &email,
	}
}

// HasEmail reports whether the user has an email address.
func (u User) HasEmail() bool {
	return u.Email != nil
}

// EmailOrEmpty returns the email address, or "" when absent.
func (u User) EmailOrEmpty() string {
	if u.Email == nil {
		return ""
	}
	return *u.Email
}

// Names returns the name of each user, keeping the order of users.
// The result is never nil.
func Names(users []User) []string {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Name
	}
	return names
}
