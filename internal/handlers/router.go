package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/authcore/authcore/internal/middleware"
)

// NewRouter wires the full HTTP surface.
func NewRouter(
	authHandlers *AuthHandlers,
	userHandlers *UserHandlers,
	authMiddleware *middleware.AuthMiddleware,
	allowedOrigins []string,
	logger *logrus.Logger,
) *mux.Router {
	router := mux.NewRouter()

	router.Use(middleware.CORSMiddleware(allowedOrigins))
	router.Use(middleware.LoggingMiddleware(logger))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET", "OPTIONS")

	auth := router.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/register", authHandlers.Register).Methods("POST", "OPTIONS")
	auth.HandleFunc("/login", authHandlers.Login).Methods("POST", "OPTIONS")
	auth.HandleFunc("/logout", authHandlers.Logout).Methods("POST", "OPTIONS")
	auth.HandleFunc("/send-reset-otp", authHandlers.SendResetOTP).Methods("POST", "OPTIONS")
	auth.HandleFunc("/reset-password", authHandlers.ResetPassword).Methods("POST", "OPTIONS")

	authProtected := auth.NewRoute().Subrouter()
	authProtected.Use(authMiddleware.RequireAuth)
	authProtected.HandleFunc("/send-verify-otp", authHandlers.SendVerifyOTP).Methods("POST", "OPTIONS")
	authProtected.HandleFunc("/verify-account", authHandlers.VerifyAccount).Methods("POST", "OPTIONS")
	authProtected.HandleFunc("/is-auth", authHandlers.IsAuthenticated).Methods("GET", "OPTIONS")

	user := router.PathPrefix("/api/user").Subrouter()
	user.Use(authMiddleware.RequireAuth)
	user.HandleFunc("/data", userHandlers.GetUserData).Methods("GET", "OPTIONS")

	return router
}
