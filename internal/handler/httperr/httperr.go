package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the body every error endpoint renders. RedirectTo is set
// only when the client should send the guest somewhere else, such as
// back to the room catalog when no booking flow is active.
type Response struct {
	Status     int    `json:"-"`
	Error      string `json:"error"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

// AbortWithError renders the error body and keeps the original error
// on the context for logging and monitoring.
func AbortWithError(c *gin.Context, status int, err error, msg string) {
	abort(c, err, Response{Status: status, Error: msg})
}

// AbortWithRedirect additionally tells the client where to send the
// guest.
func AbortWithRedirect(c *gin.Context, status int, err error, msg, redirectTo string) {
	abort(c, err, Response{Status: status, Error: msg, RedirectTo: redirectTo})
}

func abort(c *gin.Context, err error, resp Response) {
	if err == nil {
		panic("httperr: err cannot be nil")
	}

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(resp.Status, resp)
}
