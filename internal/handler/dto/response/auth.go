package response

import (
	"stayflow/internal/usecase/commands"
	"stayflow/internal/usecase/queries"

	"github.com/google/uuid"
)

type AuthResponse struct {
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	Token  string    `json:"token"`
}

type CurrentUserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

func FromLoginResult(result *commands.LoginResult) *AuthResponse {
	return &AuthResponse{
		UserID: result.UserID,
		Email:  result.Email,
		Role:   result.Role,
		Token:  result.Token,
	}
}

func FromAuthorizedUserView(view *queries.AuthorizedUserView) *CurrentUserResponse {
	return &CurrentUserResponse{
		ID:    view.ID,
		Email: view.Email,
		Role:  view.Role,
	}
}
