package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/authcore/authcore/internal/config"
	"github.com/authcore/authcore/internal/middleware"
	"github.com/authcore/authcore/internal/repository"
	"github.com/authcore/authcore/internal/service"
)

var otpPattern = regexp.MustCompile(`[0-9]{6}`)

type captureMailer struct {
	body string
	fail bool
}

func (m *captureMailer) Send(_ context.Context, _, _, htmlBody string) error {
	if m.fail {
		return errors.New("delivery failed")
	}
	m.body = htmlBody
	return nil
}

func (m *captureMailer) LastOTP(t *testing.T) string {
	t.Helper()
	code := otpPattern.FindString(m.body)
	require.NotEmpty(t, code, "no OTP found in mail body")
	return code
}

type testEnv struct {
	router *mux.Router
	mailer *captureMailer
	store  repository.AccountStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	store := repository.NewMemoryRepository()
	mailer := &captureMailer{}
	creds := service.NewCredentialService()

	tokens, err := service.NewTokenService(&config.JWTConfig{
		SecretKey: "0123456789abcdef0123456789abcdef",
		Expiry:    7 * 24 * time.Hour,
	}, logger)
	require.NoError(t, err)

	sessions := service.NewSessionService(redisClient, logger)
	otpCfg := &config.OTPConfig{VerifyExpiry: 24 * time.Hour, ResetExpiry: 15 * time.Minute}
	otpService := service.NewOTPService(store, creds, mailer, otpCfg, logger)
	authService := service.NewAuthService(store, creds, mailer, logger)

	serverCfg := &config.ServerConfig{}
	authHandlers := NewAuthHandlers(authService, otpService, tokens, sessions, serverCfg, logger)
	userHandlers := NewUserHandlers(authService, logger)
	authMiddleware := middleware.NewAuthMiddleware(tokens, sessions, logger)

	router := NewRouter(authHandlers, userHandlers, authMiddleware, []string{"http://localhost:5173"}, logger)

	return &testEnv{router: router, mailer: mailer, store: store}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.SessionCookie && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func (e *testEnv) register(t *testing.T, name, email, password string) *http.Cookie {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

func TestRegisterIssuesSessionAndRejectsDuplicate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ann", "email": "a@x.com", "password": "pw12",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.UserID)

	cookie := sessionCookie(t, rec)
	require.True(t, cookie.HttpOnly)

	rec = env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ann", "email": "a@x.com", "password": "pw12",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Ann", "email": "not-an-email", "password": "pw",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Error.Details, 2)
}

func TestLoginFlow(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ann", "a@x.com", "pw12")

	rec := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "a@x.com", "password": "wrong",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "a@x.com", "password": "pw12",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Ann", resp.UserData.Name)
	sessionCookie(t, rec)
}

func TestLoginUnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "nobody@x.com", "password": "pw12",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIsAuthRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/auth/is-auth", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	cookie := env.register(t, "Ann", "a@x.com", "pw12")
	rec = env.do(t, http.MethodGet, "/api/auth/is-auth", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "Ann", "a@x.com", "pw12")

	rec := env.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	// The old token is denied even though it is still within its validity.
	rec = env.do(t, http.MethodGet, "/api/auth/is-auth", nil, cookie)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVerifyAccountFlow(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "Ann", "a@x.com", "pw12")

	rec := env.do(t, http.MethodPost, "/api/auth/send-verify-otp", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	code := env.mailer.LastOTP(t)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	rec = env.do(t, http.MethodPost, "/api/auth/verify-account", map[string]string{"otp": wrong}, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/verify-account", map[string]string{"otp": code}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	// Verified accounts cannot request another code.
	rec = env.do(t, http.MethodPost, "/api/auth/send-verify-otp", nil, cookie)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/user/data", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp UserDataResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.UserData.IsAccountVerified)
	require.Equal(t, "Ann", resp.UserData.Name)
}

func TestResetPasswordFlow(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ann", "a@x.com", "pw12")

	rec := env.do(t, http.MethodPost, "/api/auth/send-reset-otp", map[string]string{"email": "nobody@x.com"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/send-reset-otp", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	code := env.mailer.LastOTP(t)

	// Reusing the current password is rejected and consumes nothing.
	rec = env.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email": "a@x.com", "otp": code, "newPassword": "pw12",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email": "a@x.com", "otp": code, "newPassword": "newpw99",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "a@x.com", "password": "pw12",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "a@x.com", "password": "newpw99",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestResetPasswordValidationHalts(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "Ann", "a@x.com", "pw12")

	rec := env.do(t, http.MethodPost, "/api/auth/send-reset-otp", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	code := env.mailer.LastOTP(t)

	// Invalid new password stops the request before the code is touched.
	rec = env.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email": "a@x.com", "otp": code, "newPassword": "np",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	// The code is still valid afterwards.
	rec = env.do(t, http.MethodPost, "/api/auth/reset-password", map[string]string{
		"email": "a@x.com", "otp": code, "newPassword": "newpw99",
	})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthAndCORS(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	res := httptest.NewRecorder()
	env.router.ServeHTTP(res, req)
	require.Equal(t, "http://localhost:5173", res.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", res.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	res = httptest.NewRecorder()
	env.router.ServeHTTP(res, req)
	require.Empty(t, res.Header().Get("Access-Control-Allow-Origin"))
}
