package cookie

import (
	"net/http"
	"time"

	"stayflow/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	AccessTokenCookieName = "access_token"

	// BookingSessionCookieName carries the anonymous booking session id.
	// It is deliberately a session cookie (no Max-Age): the pending intent
	// slot it keys must survive navigation but not a new browser session.
	BookingSessionCookieName = "booking_session"
)

func SetAccessTokenCookie(c *gin.Context, cfg config.CookieConfig, accessToken string, expiry time.Duration) {
	c.SetSameSite(getSameSite(cfg.SameSite))

	c.SetCookie(
		AccessTokenCookieName,
		accessToken,
		int(expiry.Seconds()),
		"/",
		cfg.Domain,
		cfg.Secure,
		true, // HttpOnly
	)
}

func ClearAccessTokenCookie(c *gin.Context, cfg config.CookieConfig) {
	c.SetSameSite(getSameSite(cfg.SameSite))

	c.SetCookie(
		AccessTokenCookieName,
		"",
		-1,
		"/",
		cfg.Domain,
		cfg.Secure,
		true,
	)
}

func GetAccessToken(c *gin.Context) string {
	token, _ := c.Cookie(AccessTokenCookieName)
	return token
}

// EnsureBookingSession returns the booking session id for this browser
// session, minting a new one when none exists yet.
func EnsureBookingSession(c *gin.Context, cfg config.CookieConfig) string {
	if sid, err := c.Cookie(BookingSessionCookieName); err == nil && sid != "" {
		return sid
	}

	sid := uuid.NewString()
	c.SetSameSite(getSameSite(cfg.SameSite))
	c.SetCookie(
		BookingSessionCookieName,
		sid,
		0, // session-scoped
		"/",
		cfg.Domain,
		cfg.Secure,
		true,
	)
	return sid
}

func GetBookingSession(c *gin.Context) string {
	sid, _ := c.Cookie(BookingSessionCookieName)
	return sid
}

func getSameSite(sameSite string) http.SameSite {
	switch sameSite {
	case "Strict":
		return http.SameSiteStrictMode
	case "Lax":
		return http.SameSiteLaxMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
