package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/authcore/authcore/internal/middleware"
	"github.com/authcore/authcore/internal/service"
)

type UserHandlers struct {
	authService *service.AuthService
	logger      *logrus.Logger
}

func NewUserHandlers(authService *service.AuthService, logger *logrus.Logger) *UserHandlers {
	return &UserHandlers{
		authService: authService,
		logger:      logger,
	}
}

type UserDataResponse struct {
	Message  string      `json:"message"`
	UserData ProfileData `json:"userData"`
}

type ProfileData struct {
	Name              string `json:"name"`
	IsAccountVerified bool   `json:"isAccountVerified"`
}

func (h *UserHandlers) GetUserData(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized")
		return
	}

	account, err := h.authService.Profile(r.Context(), accountID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, UserDataResponse{
		Message: "user retrieved",
		UserData: ProfileData{
			Name:              account.Name,
			IsAccountVerified: account.IsVerified,
		},
	})
}
