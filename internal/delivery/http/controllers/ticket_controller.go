package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventticketing/internal/delivery/http/helpers"
	"eventticketing/internal/domain"
)

type TicketController struct {
	Logger     *slog.Logger
	Redemption domain.RedemptionService
	Issuance   domain.IssuanceService
}

func NewTicketController(logger *slog.Logger, redemption domain.RedemptionService, issuance domain.IssuanceService) *TicketController {
	return &TicketController{
		Logger:     logger,
		Redemption: redemption,
		Issuance:   issuance,
	}
}

// ValidateRequest is the request body for POST /tickets/validate.
type ValidateRequest struct {
	Token string `json:"token"`
}

// Validate implements helpers.Validator.
func (v ValidateRequest) Validate() []string {
	if strings.TrimSpace(v.Token) == "" {
		return []string{"token is required"}
	}
	return nil
}

// ValidateSuccessResponse is the success response envelope for POST /tickets/validate (200).
type ValidateSuccessResponse struct {
	Data  *domain.RedeemOutcome `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ValidateTicket godoc
// @Summary Validate and redeem a scanned ticket
// @Description Redeems the scanned token for the event the scanner key belongs to. Exactly one call per ticket returns VALID; every later call returns ALREADY_USED with the original use stamp. Tokens outside the key's event scope report NOT_FOUND.
// @Tags tickets
// @Accept json
// @Produce json
// @Security ScannerKeyAuth
// @Param body body controllers.ValidateRequest true "Scanned payload"
// @Success 200 {object} controllers.ValidateSuccessResponse "data contains status and, for VALID/ALREADY_USED, the ticket"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets/validate [post]
func (c *TicketController) ValidateTicket(w http.ResponseWriter, r *http.Request) {
	secret := helpers.BearerToken(r)
	if secret == "" {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "missing bearer token")
		return
	}

	var req ValidateRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	key, err := c.Redemption.Authorize(r.Context(), secret)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	outcome, err := c.Redemption.Redeem(r.Context(), req.Token, key)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, outcome)
}

// IssueRequest is the request body for POST /tickets/issue.
type IssueRequest struct {
	TicketTypeID string `json:"ticket_type_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	LinkOnly     bool   `json:"link_only"`
	SkipEmail    bool   `json:"skip_email"`
}

// Validate implements helpers.Validator.
func (i IssueRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(i.TicketTypeID) == "" {
		errs = append(errs, "ticket_type_id is required")
	}
	if strings.TrimSpace(i.Email) == "" {
		errs = append(errs, "email is required")
	}
	return errs
}

// IssueSuccessResponse is the success response envelope for POST /tickets/issue (201).
type IssueSuccessResponse struct {
	Data  *domain.IssueResult `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// IssueTicket godoc
// @Summary Issue a ticket
// @Description Creates a ticket for the given type and recipient, then sends the ticket email. Email delivery is best effort: a failed send still returns 201 with the failure recorded in data.email.
// @Tags tickets
// @Accept json
// @Produce json
// @Security IssueKeyAuth
// @Param body body controllers.IssueRequest true "Issue request"
// @Success 201 {object} controllers.IssueSuccessResponse "data contains the ticket, its URL, and the email outcome"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /tickets/issue [post]
func (c *TicketController) IssueTicket(w http.ResponseWriter, r *http.Request) {
	var req IssueRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := c.Issuance.Issue(r.Context(), req.TicketTypeID, req.Email, req.Name, domain.IssueOptions{
		LinkOnly:  req.LinkOnly,
		SkipEmail: req.SkipEmail,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}
