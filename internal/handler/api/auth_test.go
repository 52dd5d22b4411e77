//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"stayflow/internal/domain/user"
	"stayflow/internal/handler/api"
	resdto "stayflow/internal/handler/dto/response"
	"stayflow/internal/infra"
	"stayflow/internal/pkg/config"
	"stayflow/internal/pkg/cookie"
	"stayflow/internal/pkg/jwt"
	"stayflow/internal/usecase/commands"
	"stayflow/internal/usecase/queries"
	"stayflow/tests/common/httptest"
	commandsmock "stayflow/tests/mock/commands"
	queriesmock "stayflow/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockAuthCommands
	mockQueries  *queriesmock.MockUserQueries
	handler      *api.AuthHandler
	jwtService   *jwt.Service

	userID uuid.UUID
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAuthCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockUserQueries(s.mockCtrl)
	s.jwtService = jwt.NewService("test-secret", time.Hour)
	s.handler = api.NewAuthHandler(s.mockCommands, s.mockQueries, s.jwtService, config.NewTestConfig())

	s.userID = uuid.New()

	s.router.POST("/auth/register", s.handler.Register)
	s.router.POST("/auth/login", s.handler.Login)
	s.router.POST("/auth/logout", s.handler.Logout)
	s.router.GET("/auth/oauth2/callback", s.handler.OAuth2Callback)
	s.router.GET("/auth/me", func(c *gin.Context) {
		// Stand-in for the auth middleware
		if c.GetHeader("Authorization") != "" {
			c.Set("user_id", s.userID)
		}
		s.handler.Me(c)
	})
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) loginResult() *commands.LoginResult {
	return &commands.LoginResult{
		UserID: s.userID,
		Email:  "guest@example.com",
		Role:   "guest",
		Token:  "test-jwt-token",
	}
}

func (s *AuthHandlerTestSuite) TestRegister() {
	url := "/auth/register"
	reqBody := map[string]any{"email": "guest@example.com", "password": "password123"}

	s.Run("success: 201 Created with token and cookie", func() {
		s.mockCommands.EXPECT().Register(gomock.Any(), "guest@example.com", "password123").
			Return(s.loginResult(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.AuthResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal("guest@example.com", response.Email)
		s.Equal("test-jwt-token", response.Token)

		found := false
		for _, ck := range rec.Result().Cookies() {
			if ck.Name == cookie.AccessTokenCookieName && ck.Value != "" {
				found = true
			}
		}
		s.True(found, "expected an access token cookie to be set")
	})

	s.Run("error: 409 Conflict when the email is taken", func() {
		s.mockCommands.EXPECT().Register(gomock.Any(), "guest@example.com", "password123").
			Return(nil, infra.WrapRepoErr("duplicate email", nil, infra.KindDuplicateKey)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "already registered")
	})

	s.Run("error: 400 Bad Request on short password", func() {
		bad := map[string]any{"email": "guest@example.com", "password": "short"}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, bad, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})
}

func (s *AuthHandlerTestSuite) TestLogin() {
	url := "/auth/login"
	reqBody := map[string]any{"email": "guest@example.com", "password": "password123"}

	s.Run("success: 200 OK for valid credentials", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), "guest@example.com", "password123").
			Return(s.loginResult(), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.AuthResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(s.userID, response.UserID)
	})

	s.Run("error: 401 Unauthorized for wrong credentials", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), "guest@example.com", "password123").
			Return(nil, commands.ErrInvalidCredentials).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid email or password")
	})

	s.Run("error: 403 Forbidden for an inactive account", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), "guest@example.com", "password123").
			Return(nil, commands.ErrUserInactive).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "inactive")
	})
}

func (s *AuthHandlerTestSuite) TestMe() {
	url := "/auth/me"

	s.Run("success: 200 OK with the current user", func() {
		s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), s.userID).
			Return(&queries.AuthorizedUserView{
				ID:       s.userID,
				Email:    "guest@example.com",
				Role:     "guest",
				IsActive: true,
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "test-token")

		var response resdto.CurrentUserResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(s.userID, response.ID)
	})

	s.Run("error: 401 Unauthorized without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "not authenticated")
	})

	s.Run("error: 404 Not Found when the user vanished", func() {
		s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), s.userID).
			Return(nil, queries.ErrUserNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "test-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "User not found")
	})
}

func (s *AuthHandlerTestSuite) TestOAuth2Callback() {
	base := "/auth/oauth2/callback"

	s.Run("success: sets the cookie and redirects to the return location", func() {
		token, err := s.jwtService.GenerateToken(s.userID, user.RoleGuest)
		s.Require().NoError(err)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			base+"?token="+token+"&returnTo=%2Fbooking%2Fresume", nil, "")

		s.Equal(http.StatusFound, rec.Code)
		s.Equal("/booking/resume", rec.Header().Get("Location"))

		found := false
		for _, ck := range rec.Result().Cookies() {
			if ck.Name == cookie.AccessTokenCookieName && ck.Value != "" {
				found = true
			}
		}
		s.True(found, "expected an access token cookie to be set")
	})

	s.Run("provider error: redirects to sign-in with the message", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"?error=access_denied", nil, "")

		s.Equal(http.StatusFound, rec.Code)
		s.Contains(rec.Header().Get("Location"), "/login?error=")
		s.Contains(rec.Header().Get("Location"), "access_denied")
	})

	s.Run("missing token: redirects to sign-in", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base, nil, "")

		s.Equal(http.StatusFound, rec.Code)
		s.Contains(rec.Header().Get("Location"), "/login?error=")
	})

	s.Run("invalid token: redirects to sign-in without a cookie", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"?token=garbage", nil, "")

		s.Equal(http.StatusFound, rec.Code)
		s.Contains(rec.Header().Get("Location"), "/login?error=")
		for _, ck := range rec.Result().Cookies() {
			s.NotEqual(cookie.AccessTokenCookieName, ck.Name)
		}
	})

	s.Run("absolute returnTo is ignored in favor of the catalog", func() {
		token, err := s.jwtService.GenerateToken(s.userID, user.RoleGuest)
		s.Require().NoError(err)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			base+"?token="+token+"&returnTo=https%3A%2F%2Fevil.example", nil, "")

		s.Equal(http.StatusFound, rec.Code)
		s.Equal("/rooms", rec.Header().Get("Location"))
	})
}

func (s *AuthHandlerTestSuite) TestLogout() {
	s.Run("success: 204 and clears the cookie", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/auth/logout", nil, "test-token")
		s.Equal(http.StatusNoContent, rec.Code)

		cleared := false
		for _, ck := range rec.Result().Cookies() {
			if ck.Name == cookie.AccessTokenCookieName && ck.MaxAge < 0 {
				cleared = true
			}
		}
		s.True(cleared, "expected the access token cookie to be cleared")
	})
}
