package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/projcalc/estimator/internal/modules/serializer"
	"github.com/projcalc/estimator/internal/modules/service"
)

type RateHandler struct {
	svc service.RateService
}

func NewRateHandler(s service.RateService) *RateHandler {
	return &RateHandler{svc: s}
}

type UpdateRateReq struct {
	RublesPerHour *decimal.Decimal `json:"rubles_per_hour" binding:"required,dpositive,fixed2" swaggertype:"string" example:"1800.50"`
}

// ListRates godoc
//
//	@Summary		List rates
//	@Description	List the hourly rate of every catalog position for a project
//	@Tags			rate
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BasicAuth
//	@Success		200	{object}	serializer.Response{data=[]service.RateOutput}
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_id}/rates [get]
func (h *RateHandler) ListRates(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "project_id", "project_id")
	if !ok {
		return
	}
	out, err := h.svc.List(c.Request.Context(), user.ID, projectID)
	if err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// UpdateRate godoc
//
//	@Summary		Update rate
//	@Description	Change the hourly amount of one position. Every price of the project follows.
//	@Tags			rate
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string			true	"Project ID"	format(uuid)
//	@Param			rate_id		path	string			true	"Rate ID"		format(uuid)
//	@Param			body		body	UpdateRateReq	true	"Rate"
//	@Security		BasicAuth
//	@Success		200	{object}	serializer.Response{data=service.RateOutput}
//	@Failure		400	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_id}/rates/{rate_id} [put]
func (h *RateHandler) UpdateRate(c *gin.Context) {
	req := UpdateRateReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "project_id", "project_id")
	if !ok {
		return
	}
	rateID, ok := pathID(c, "rate_id", "rate_id")
	if !ok {
		return
	}

	out, err := h.svc.Update(c.Request.Context(), service.UpdateRateInput{
		UserID:        user.ID,
		ProjectID:     projectID,
		RateID:        rateID,
		RublesPerHour: *req.RublesPerHour,
	})
	if err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}
