package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"leetstats/internal/core"
	"leetstats/internal/render"
	"leetstats/pkg/models"
)

// lookupAndRender runs a one-shot lookup on a fresh orchestrator and
// renders it onto a fresh board.
func (s *Server) lookupAndRender(ctx context.Context, username string) (core.Result, models.Slots) {
	res, _ := core.NewLookup(s.fetcher).WithTimeout(s.config.APITimeout()).Run(ctx, username)
	board := render.NewBoard()
	core.Present(res, render.New(board))
	return res, board.Snapshot()
}

// getStats returns the display model and rendered slots for a username
func (s *Server) getStats(c *gin.Context) {
	res, slots := s.lookupAndRender(c.Request.Context(), c.Param("username"))
	payload := models.StatsPayload{
		Username: res.Username,
		Model:    res.Model,
		Slots:    slots,
	}

	if !res.OK() {
		appErr := models.NewAppError(res.Err)
		c.JSON(appErr.StatusCode, appErr.ToHTTPError(payload))
		return
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success:   true,
		Data:      payload,
		Timestamp: time.Now(),
	})
}
