//go:build unit

package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"stayflow/internal/handler/httperr"
	"stayflow/internal/handler/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveWithErrorHandler(t *testing.T, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	router.GET("/t", handler)

	rec := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/t", nil)
	require.NoError(t, err)
	router.ServeHTTP(rec, req)
	return rec
}

func TestErrorHandlerRendersAttachedPublicError(t *testing.T) {
	rec := serveWithErrorHandler(t, func(c *gin.Context) {
		_ = c.Error(&gin.Error{
			Err:  errors.New("step lock held"),
			Type: gin.ErrorTypePublic,
			Meta: httperr.Response{Status: http.StatusConflict, Error: "A booking step is already in progress"},
		})
		c.Abort()
	})

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"A booking step is already in progress"}`, rec.Body.String())
}

func TestErrorHandlerLeavesWrittenResponsesAlone(t *testing.T) {
	rec := serveWithErrorHandler(t, func(c *gin.Context) {
		httperr.AbortWithRedirect(c, http.StatusNotFound, errors.New("nothing parked"), "No active booking", "/rooms")
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"No active booking","redirectTo":"/rooms"}`, rec.Body.String())
}

func TestErrorHandlerFallsBackToInternalError(t *testing.T) {
	rec := serveWithErrorHandler(t, func(c *gin.Context) {
		_ = c.Error(errors.New("connection reset"))
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}
