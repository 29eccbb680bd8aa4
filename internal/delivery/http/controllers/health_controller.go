package controllers

import (
	"database/sql"
	"net/http"

	"eventticketing/internal/delivery/http/helpers"
)

type HealthController struct {
	DB *sql.DB
}

func NewHealthController(db *sql.DB) *HealthController {
	return &HealthController{DB: db}
}

// Healthz godoc
// @Summary Liveness and readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains status ok"
// @Failure 503 {object} helpers.APIResponse "error.code: internal_error"
// @Router /healthz [get]
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	if c.DB != nil {
		if err := c.DB.PingContext(r.Context()); err != nil {
			helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeInternalError, "database unreachable")
			return
		}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
