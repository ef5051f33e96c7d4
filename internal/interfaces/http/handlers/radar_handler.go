package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KingdaKilla/ti-radar/internal/application/narrative"
	"github.com/KingdaKilla/ti-radar/internal/application/radar"
	"github.com/KingdaKilla/ti-radar/internal/domain/panel"
	"github.com/KingdaKilla/ti-radar/pkg/errors"
)

// RadarHandler serves POST /api/v1/radar: the core multi-panel technology
// analysis.
type RadarHandler struct {
	dc *radar.DataContext
}

// NewRadarHandler creates a new RadarHandler over the given DataContext.
func NewRadarHandler(dc *radar.DataContext) *RadarHandler {
	return &RadarHandler{dc: dc}
}

// ErrorResponse is the JSON body returned for any non-2xx radar response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// Analyze handles POST /api/v1/radar: binds the request body, validates and
// defaults it, runs the eight-panel orchestration, fills the German
// analysis-text fields on the panels that support it, and returns the
// assembled response. A malformed or out-of-range request returns HTTP 422;
// any other failure maps through the originating AppError's code.
func (h *RadarHandler) Analyze(c *gin.Context) {
	var req panel.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(errors.CodeInvalidParam.HTTPStatus(), ErrorResponse{
			Error: "malformed request body: " + err.Error(),
			Code:  int(errors.CodeInvalidParam),
		})
		return
	}

	resp, err := radar.Analyze(c.Request.Context(), h.dc, req)
	if err != nil {
		code := errors.GetCode(err)
		c.JSON(code.HTTPStatus(), ErrorResponse{Error: err.Error(), Code: int(code)})
		return
	}

	narrative.Render(&resp)

	c.JSON(http.StatusOK, resp)
}
