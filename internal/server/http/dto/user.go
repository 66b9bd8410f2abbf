package dto

import (
	"time"

	"github.com/polkiloo/shopmart/internal/domain/model"
)

// UserRequest is the payload for creating or replacing a user.
type UserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"fullName" binding:"required,max=100"`
	Status   string `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED"`
}

// Model converts the request into a domain user.
func (r UserRequest) Model() *model.User {
	return &model.User{
		Username: r.Username,
		Email:    r.Email,
		FullName: r.FullName,
		Status:   model.UserStatus(r.Status),
	}
}

// UserResponse is the outward representation of a user.
type UserResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUserResponse maps a domain user into its response form.
func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FullName:  u.FullName,
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewUserResponses maps a slice of users.
func NewUserResponses(users []model.User) []UserResponse {
	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, NewUserResponse(&users[i]))
	}
	return resp
}
