package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/middleware"
	"github.com/authcore/authcore/internal/service"
)

const minPasswordLength = 4

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthHandlers struct {
	authService *service.AuthService
	otpService  *service.OTPService
	tokens      *service.TokenService
	sessions    *service.SessionService
	production  bool
	logger      *logrus.Logger
}

func NewAuthHandlers(
	authService *service.AuthService,
	otpService *service.OTPService,
	tokens *service.TokenService,
	sessions *service.SessionService,
	cfg *config.ServerConfig,
	logger *logrus.Logger,
) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		otpService:  otpService,
		tokens:      tokens,
		sessions:    sessions,
		production:  cfg.Production,
		logger:      logger,
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	UserData UserData `json:"userData"`
}

type UserData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type VerifyAccountRequest struct {
	OTP string `json:"otp"`
}

type SendResetOTPRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if details := validateCredentials(req.Email, req.Password); len(details) > 0 {
		respondWithValidationErrors(w, details)
		return
	}

	account, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.logger.WithError(err).Warn("Registration failed")
		respondWithDomainError(w, err)
		return
	}

	token, _, err := h.tokens.Issue(account.ID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	h.setSessionCookie(w, token)

	respondWithJSON(w, http.StatusCreated, RegisterResponse{
		Success: true,
		Message: "User registered successfully!",
		UserID:  account.ID,
	})
}

func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	var details []FieldError
	if !emailPattern.MatchString(req.Email) {
		details = append(details, FieldError{Field: "email", Message: "Enter a valid email"})
	}
	if req.Password == "" {
		details = append(details, FieldError{Field: "password", Message: "password cannot be empty"})
	}
	if len(details) > 0 {
		respondWithValidationErrors(w, details)
		return
	}

	account, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	token, _, err := h.tokens.Issue(account.ID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	h.setSessionCookie(w, token)

	respondWithJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		Message: "Login Successfully!",
		UserData: UserData{
			ID:   account.ID,
			Name: account.Name,
		},
	})
}

// Logout always succeeds. When the request carries a valid session cookie,
// its JTI is revoked so the token cannot be replayed.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if claims, err := h.tokens.Verify(cookie.Value); err == nil && claims.ExpiresAt != nil {
			if err := h.sessions.Revoke(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
				h.logger.WithError(err).Warn("Failed to revoke session on logout")
			}
		}
	}

	h.clearSessionCookie(w)
	respondWithJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "logged out"})
}

func (h *AuthHandlers) SendVerifyOTP(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized")
		return
	}

	if err := h.otpService.IssueVerificationCode(r.Context(), accountID); err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{
		Success: true,
		Message: "Verification OTP sent on email",
	})
}

func (h *AuthHandlers) VerifyAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Not authorized")
		return
	}

	var req VerifyAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	if err := h.otpService.ConsumeVerificationCode(r.Context(), accountID, strings.TrimSpace(req.OTP)); err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{
		Success: true,
		Message: "Email verified successfully",
	})
}

func (h *AuthHandlers) IsAuthenticated(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, MessageResponse{
		Success: true,
		Message: "user is authenticated",
	})
}

func (h *AuthHandlers) SendResetOTP(w http.ResponseWriter, r *http.Request) {
	var req SendResetOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if !emailPattern.MatchString(req.Email) {
		respondWithValidationErrors(w, []FieldError{{Field: "email", Message: "Enter a valid email"}})
		return
	}

	if err := h.otpService.IssueResetCode(r.Context(), req.Email); err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{
		Success: true,
		Message: "OTP sent to your email",
	})
}

func (h *AuthHandlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if details := validateCredentials(req.Email, req.NewPassword); len(details) > 0 {
		respondWithValidationErrors(w, details)
		return
	}

	if err := h.otpService.ConsumeResetCode(r.Context(), req.Email, strings.TrimSpace(req.OTP), req.NewPassword); err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{
		Success: true,
		Message: "Password has been reset successfully",
	})
}

func validateCredentials(email, password string) []FieldError {
	var details []FieldError
	if !emailPattern.MatchString(email) {
		details = append(details, FieldError{Field: "email", Message: "Enter a valid email"})
	}
	if len(password) < minPasswordLength {
		details = append(details, FieldError{Field: "password", Message: "Password length min 4 characters"})
	}
	return details
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, h.sessionCookie(token, int(h.tokens.Expiry()/time.Second)))
}

func (h *AuthHandlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, h.sessionCookie("", -1))
}

func (h *AuthHandlers) sessionCookie(value string, maxAge int) *http.Cookie {
	sameSite := http.SameSiteStrictMode
	if h.production {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.production,
		SameSite: sameSite,
	}
}
