package models

import "github.com/campushq/eventdesk/rbac"

// User is an application principal. The document id matches the auth
// service's user id. Users are created through the registration endpoint and
// never edited or deleted in-app afterwards.
type User struct {
	ID          string    `json:"id" firestore:"-"`
	Email       string    `json:"email" firestore:"email"`
	Role        rbac.Role `json:"role" firestore:"role"`
	DisplayName string    `json:"displayName,omitempty" firestore:"displayName,omitempty"`
}

// NewUser creates a User document for a freshly provisioned credential.
// An empty displayName falls back to the email, mirroring what the
// registration form shows.
func NewUser(id, email string, role rbac.Role, displayName string) *User {
	if displayName == "" {
		displayName = email
	}
	return &User{
		ID:          id,
		Email:       email,
		Role:        role,
		DisplayName: displayName,
	}
}
