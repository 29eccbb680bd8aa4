package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventticketing/internal/delivery/http/helpers"
	"eventticketing/internal/domain"
)

type AdminController struct {
	Logger     *slog.Logger
	Redemption domain.RedemptionService
}

func NewAdminController(logger *slog.Logger, redemption domain.RedemptionService) *AdminController {
	return &AdminController{
		Logger:     logger,
		Redemption: redemption,
	}
}

// BurnRequest is the request body for POST /admin/tickets/burn. Either
// ticket_id or ticket_ids must be set; both together are accepted.
type BurnRequest struct {
	TicketID  string   `json:"ticket_id"`
	TicketIDs []string `json:"ticket_ids"`
}

// Validate implements helpers.Validator.
func (b BurnRequest) Validate() []string {
	if strings.TrimSpace(b.TicketID) == "" && len(b.TicketIDs) == 0 {
		return []string{"ticket_id or ticket_ids is required"}
	}
	return nil
}

func (b BurnRequest) tokens() []string {
	tokens := make([]string, 0, len(b.TicketIDs)+1)
	if b.TicketID != "" {
		tokens = append(tokens, b.TicketID)
	}
	return append(tokens, b.TicketIDs...)
}

// BurnResponse is the data half of the POST /admin/tickets/burn response.
type BurnResponse struct {
	Burned int64 `json:"burned"`
}

// BurnTickets godoc
// @Summary Invalidate tickets
// @Description Marks the given tickets used without going through redemption. Idempotent: burning an already-burned or already-used ticket keeps its original use stamp. Malformed IDs are dropped silently.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.BurnRequest true "Tickets to burn"
// @Success 200 {object} helpers.APIResponse "data contains the count of newly burned tickets"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/tickets/burn [post]
func (c *AdminController) BurnTickets(w http.ResponseWriter, r *http.Request) {
	var req BurnRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	burned, err := c.Redemption.Burn(r.Context(), req.tokens())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, BurnResponse{Burned: burned})
}

// ByEmailRequest is the request body for POST /admin/tickets/by-email.
type ByEmailRequest struct {
	Email string `json:"email"`
	Limit int    `json:"limit"`
}

// Validate implements helpers.Validator.
func (b ByEmailRequest) Validate() []string {
	if strings.TrimSpace(b.Email) == "" {
		return []string{"email is required"}
	}
	return nil
}

// ListTicketsByEmail godoc
// @Summary List tickets issued to an email address
// @Description Returns tickets for the given recipient, newest first. Used to answer "did this person get their ticket" support questions.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.ByEmailRequest true "Recipient email and optional limit"
// @Success 200 {object} helpers.APIResponse "data is an array of tickets"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/tickets/by-email [post]
func (c *AdminController) ListTicketsByEmail(w http.ResponseWriter, r *http.Request) {
	var req ByEmailRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	tickets, err := c.Redemption.ListByEmail(r.Context(), req.Email, req.Limit)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, tickets)
}
