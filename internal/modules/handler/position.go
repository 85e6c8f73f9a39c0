package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projcalc/estimator/internal/modules/serializer"
	"github.com/projcalc/estimator/internal/modules/service"
)

type PositionHandler struct {
	svc service.PositionService
}

func NewPositionHandler(s service.PositionService) *PositionHandler {
	return &PositionHandler{svc: s}
}

// ListPositions godoc
//
//	@Summary		List positions
//	@Description	Names of every position a rate or team member can refer to
//	@Tags			position
//	@Produce		json
//	@Success		200	{object}	serializer.Response{data=[]string}
//	@Router			/positions [get]
func (h *PositionHandler) ListPositions(c *gin.Context) {
	c.JSON(http.StatusOK, serializer.Response{Data: h.svc.List()})
}
