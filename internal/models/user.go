package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

type User struct {
	ID              string
	Name            string
	Email           string
	Password        string
	ProfileImageURL string
	Role            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UserSummary is the subset of user fields exposed when a task's
// assignees are resolved into a response.
type UserSummary struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		ProfileImageURL: u.ProfileImageURL,
	}
}
