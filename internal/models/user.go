package models

// Role is a named permission tier attached to a user.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// User represents a user account in the system.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // Never expose this to the client
	RoleID       int64  `json:"roleId"`
	ProfilePic   string `json:"profilePic,omitempty"`
}

// Profile is the read-only projection consumed by the presentation layer.
type Profile struct {
	Username   string `json:"username"`
	RoleName   string `json:"roleName"`
	ProfilePic string `json:"profilePic"`
}
