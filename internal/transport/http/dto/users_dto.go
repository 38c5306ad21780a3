package dto

import "time"

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UserSummaryResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type UsersResponse struct {
	Items []UserSummaryResponse `json:"items"`
}

type SuggestionsResponse struct {
	Items []UserSummaryResponse `json:"items"`
}
