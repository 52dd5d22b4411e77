package api

import (
	"context"
	"errors"
	"net/http"

	reqdto "stayflow/internal/handler/dto/request"
	resdto "stayflow/internal/handler/dto/response"
	"stayflow/internal/handler/httperr"
	"stayflow/internal/handler/middleware"
	"stayflow/internal/pkg/config"
	"stayflow/internal/pkg/cookie"
	"stayflow/internal/pkg/errs"
	"stayflow/internal/saga"
	"stayflow/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// BookingHandler drives the booking flow over the session cookie. The
// begin endpoint is deliberately open to anonymous callers; everything
// past it requires a signed-in guest.
type BookingHandler struct {
	commands commands.BookingCommands
	cfg      config.Config
}

func NewBookingHandler(commands commands.BookingCommands, cfg config.Config) *BookingHandler {
	return &BookingHandler{commands: commands, cfg: cfg}
}

// @Summary Start a booking
// @Description Captures the selection. Anonymous callers get a sign-in redirect; the selection is kept server-side and picked back up at resume.
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.BeginBookingRequest true "Booking selection"
// @Success 200 {object} resdto.BookingFlowResponse
// @Success 202 {object} resdto.SignInRedirectResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bookings/begin [post]
func (h *BookingHandler) Begin(c *gin.Context) {
	var req reqdto.BeginBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	sessionID := cookie.EnsureBookingSession(c, h.cfg.Cookie)
	actor := middleware.GetActor(c)

	result, err := h.commands.Begin(c.Request.Context(), sessionID, actor, commands.BeginBookingInput{
		RoomID:   req.RoomID,
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		Guests:   req.Guests,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	if result.RequiresSignIn {
		c.JSON(http.StatusAccepted, resdto.SignInRedirectResponse{
			SignInURL: result.SignInURL,
			ReturnTo:  result.ReturnTo,
		})
		return
	}
	c.JSON(http.StatusOK, resdto.FromSagaState(result.State))
}

// @Summary Resume a booking after sign-in
// @Description Consumes the parked selection and starts the flow. The slot is read-once: repeating the call finds nothing.
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.BookingFlowResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/resume [post]
func (h *BookingHandler) Resume(c *gin.Context) {
	sessionID := cookie.GetBookingSession(c)
	if sessionID == "" {
		h.noActiveBooking(c, errs.ErrNoActiveBooking)
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.ErrUnauthenticated, "User not authenticated")
		return
	}

	state, err := h.commands.Resume(c.Request.Context(), sessionID, userID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSagaState(state))
}

// @Summary Get the current booking flow state
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.BookingFlowResponse
// @Failure 404 {object} map[string]string
// @Router /bookings/current [get]
func (h *BookingHandler) Current(c *gin.Context) {
	h.step(c, h.commands.Current)
}

// @Summary Confirm the reviewed booking
// @Description Moves the flow out of review: creates the reservation, then the payment intent.
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.BookingFlowResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/proceed [post]
func (h *BookingHandler) Proceed(c *gin.Context) {
	h.step(c, h.commands.Proceed)
}

// @Summary Report the payment outcome
// @Description Feeds the external payment UI's terminal result into the flow.
// @Tags bookings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body reqdto.PaymentOutcomeRequest true "Payment outcome"
// @Success 200 {object} resdto.BookingFlowResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/payment-outcome [post]
func (h *BookingHandler) PaymentOutcome(c *gin.Context) {
	var req reqdto.PaymentOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format")
		return
	}

	sessionID := cookie.GetBookingSession(c)
	if sessionID == "" {
		h.noActiveBooking(c, errs.ErrNoActiveBooking)
		return
	}

	state, err := h.commands.ReportPaymentOutcome(c.Request.Context(), sessionID, req.Succeeded, req.FailureMessage)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSagaState(state))
}

// @Summary Retry after a recoverable failure
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} resdto.BookingFlowResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /bookings/retry [post]
func (h *BookingHandler) Retry(c *gin.Context) {
	h.step(c, h.commands.Retry)
}

// @Summary Abandon the booking flow
// @Tags bookings
// @Security BearerAuth
// @Success 204 "No Content"
// @Router /bookings/current [delete]
func (h *BookingHandler) Abandon(c *gin.Context) {
	sessionID := cookie.GetBookingSession(c)
	if sessionID == "" {
		c.Status(http.StatusNoContent)
		return
	}
	if err := h.commands.Abandon(c.Request.Context(), sessionID); err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) step(c *gin.Context, fn func(ctx context.Context, sessionID string) (*saga.State, error)) {
	sessionID := cookie.GetBookingSession(c)
	if sessionID == "" {
		h.noActiveBooking(c, errs.ErrNoActiveBooking)
		return
	}

	state, err := fn(c.Request.Context(), sessionID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSagaState(state))
}

func (h *BookingHandler) noActiveBooking(c *gin.Context, err error) {
	// The catalog URL tells the client where to send the guest when
	// there is nothing to resume.
	httperr.AbortWithRedirect(c, http.StatusNotFound, err, "No active booking", h.cfg.Booking.CatalogURL)
}

func (h *BookingHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrRoomNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Room not found")
	case errors.Is(err, errs.ErrNoActiveBooking), errors.Is(err, errs.ErrSagaNotFound):
		h.noActiveBooking(c, err)
	case errors.Is(err, errs.ErrIntentValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking selection")
	case errors.Is(err, errs.ErrSagaBusy):
		httperr.AbortWithError(c, http.StatusConflict, err, "A booking step is already in progress")
	case errors.Is(err, errs.ErrSagaInvalidPhase):
		httperr.AbortWithError(c, http.StatusConflict, err, "The booking flow does not allow this action right now")
	case errors.Is(err, errs.ErrSagaNotRetryable):
		httperr.AbortWithError(c, http.StatusConflict, err, "This failure cannot be retried. Please contact support.")
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error")
	}
}
