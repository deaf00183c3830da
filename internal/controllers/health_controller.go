package controllers

import (
	"context"
	"net/http"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/dtos"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

// Pinger is the slice of the connection pool the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController struct {
	db Pinger
}

func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.db.Ping(r.Context()); err != nil {
		utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeInternal, "Database unreachable", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "OK"})
}
