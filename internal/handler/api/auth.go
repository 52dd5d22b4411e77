package api

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	reqdto "stayflow/internal/handler/dto/request"
	resdto "stayflow/internal/handler/dto/response"
	"stayflow/internal/handler/httperr"
	"stayflow/internal/handler/middleware"
	"stayflow/internal/infra"
	"stayflow/internal/pkg/config"
	"stayflow/internal/pkg/cookie"
	"stayflow/internal/pkg/errs"
	"stayflow/internal/pkg/jwt"
	"stayflow/internal/usecase/commands"
	"stayflow/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	commands   commands.AuthCommands
	queries    queries.UserQueries
	jwtService *jwt.Service
	cfg        config.Config
}

func NewAuthHandler(commands commands.AuthCommands, queries queries.UserQueries, jwtService *jwt.Service, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		commands:   commands,
		queries:    queries,
		jwtService: jwtService,
		cfg:        cfg,
	}
}

// @Summary Register a new guest account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.RegisterRequest true "Registration request"
// @Success 201 {object} resdto.AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req reqdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	result, err := h.commands.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindDuplicateKey):
			httperr.AbortWithError(c, http.StatusConflict, err, "Email is already registered")
		case errors.Is(err, commands.ErrAuthenticationFailed):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request data")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	cookie.SetAccessTokenCookie(c, h.cfg.Cookie, result.Token, h.jwtService.TokenDuration())
	c.JSON(http.StatusCreated, resdto.FromLoginResult(result))
}

// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.AuthResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	result, err := h.commands.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidCredentials):
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid email or password")
		case errors.Is(err, commands.ErrUserInactive):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Account is inactive")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	cookie.SetAccessTokenCookie(c, h.cfg.Cookie, result.Token, h.jwtService.TokenDuration())
	c.JSON(http.StatusOK, resdto.FromLoginResult(result))
}

// @Summary Identity provider callback
// @Description Lands here after a third-party sign-in redirect. Provider errors route back to the sign-in page with a message; a parked booking intent is left untouched so the guest can retry.
// @Tags auth
// @Param token query string false "Issued access token"
// @Param error query string false "Provider error"
// @Param returnTo query string false "Location to resume at"
// @Success 302
// @Router /auth/oauth2/callback [get]
func (h *AuthHandler) OAuth2Callback(c *gin.Context) {
	signInURL := h.cfg.Booking.SignInURL

	if provErr := c.Query("error"); provErr != "" {
		c.Redirect(http.StatusFound, signInURL+"?error="+url.QueryEscape("Authentication failed: "+provErr))
		return
	}

	token := c.Query("token")
	if token == "" {
		c.Redirect(http.StatusFound, signInURL+"?error="+url.QueryEscape("Authentication was not completed."))
		return
	}

	if _, err := h.jwtService.ValidateToken(token); err != nil {
		c.Redirect(http.StatusFound, signInURL+"?error="+url.QueryEscape("Failed to process authentication. Please try again."))
		return
	}

	cookie.SetAccessTokenCookie(c, h.cfg.Cookie, token, h.jwtService.TokenDuration())

	returnTo := c.Query("returnTo")
	if returnTo == "" || !strings.HasPrefix(returnTo, "/") {
		returnTo = h.cfg.Booking.CatalogURL
	}
	c.Redirect(http.StatusFound, returnTo)
}

// @Summary Log out the current user
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie.ClearAccessTokenCookie(c, h.cfg.Cookie)
	c.Status(http.StatusNoContent)
}

// @Summary Get the current authenticated user
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.CurrentUserResponse
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrUnauthenticated, "User not authenticated")
		return
	}

	view, err := h.queries.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrUserNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "User not found")
		case errors.Is(err, queries.ErrUserInactive):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Account is inactive")
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromAuthorizedUserView(view))
}
