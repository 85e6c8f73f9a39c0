package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/projcalc/estimator/internal/modules/serializer"
	"github.com/projcalc/estimator/internal/modules/service"
)

type MilestoneHandler struct {
	svc service.MilestoneService
}

func NewMilestoneHandler(s service.MilestoneService) *MilestoneHandler {
	return &MilestoneHandler{svc: s}
}

// MilestoneReq dates are RFC 3339. Both are optional; past dates and an end
// before the start are rejected.
type MilestoneReq struct {
	Title         string     `json:"title" binding:"required,notblank,max=255" example:"MVP"`
	Description   string     `json:"description" binding:"required,notblank" example:"First public release"`
	StartDateTime *time.Time `json:"start_date_time" example:"2030-01-10T09:00:00Z"`
	EndDateTime   *time.Time `json:"end_date_time" example:"2030-03-01T18:00:00Z"`
}

func (r MilestoneReq) fields() service.MilestoneFields {
	return service.MilestoneFields{
		Title:         r.Title,
		Description:   r.Description,
		StartDateTime: r.StartDateTime,
		EndDateTime:   r.EndDateTime,
	}
}

// CreateMilestone godoc
//
//	@Summary		Create milestone
//	@Tags			milestone
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string			true	"Project ID"	format(uuid)
//	@Param			body		body	MilestoneReq	true	"Milestone"
//	@Security		BasicAuth
//	@Success		201	{object}	serializer.Response{data=service.MilestoneOutput}
//	@Failure		400	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_id}/milestones [post]
func (h *MilestoneHandler) CreateMilestone(c *gin.Context) {
	req := MilestoneReq{}
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

	out, err := h.svc.Create(c.Request.Context(), service.CreateMilestoneInput{
		UserID:          user.ID,
		ProjectID:       projectID,
		MilestoneFields: req.fields(),
	})
	if err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

// ListMilestones godoc
//
//	@Summary		List milestones
//	@Description	List the milestones of a project with their estimate and price
//	@Tags			milestone
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BasicAuth
//	@Success		200	{object}	serializer.Response{data=[]service.MilestoneOutput}
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_id}/milestones [get]
func (h *MilestoneHandler) ListMilestones(c *gin.Context) {
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

// UpdateMilestone godoc
//
//	@Summary		Update milestone
//	@Tags			milestone
//	@Accept			json
//	@Produce		json
//	@Param			project_id		path	string			true	"Project ID"	format(uuid)
//	@Param			milestone_id	path	string			true	"Milestone ID"	format(uuid)
//	@Param			body			body	MilestoneReq	true	"Milestone"
//	@Security		BasicAuth
//	@Success		200	{object}	serializer.Response{data=service.MilestoneOutput}
//	@Failure		400	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_id}/milestones/{milestone_id} [put]
func (h *MilestoneHandler) UpdateMilestone(c *gin.Context) {
	req := MilestoneReq{}
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
	milestoneID, ok := pathID(c, "milestone_id", "milestone_id")
	if !ok {
		return
	}

	out, err := h.svc.Update(c.Request.Context(), service.UpdateMilestoneInput{
		UserID:          user.ID,
		ProjectID:       projectID,
		MilestoneID:     milestoneID,
		MilestoneFields: req.fields(),
	})
	if err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// DeleteMilestone godoc
//
//	@Summary		Delete milestone
//	@Description	Delete a milestone. Its features stay in the project unassigned; the project estimate is unchanged.
//	@Tags			milestone
//	@Produce		json
//	@Param			project_id		path	string	true	"Project ID"	format(uuid)
//	@Param			milestone_id	path	string	true	"Milestone ID"	format(uuid)
//	@Security		BasicAuth
//	@Success		200	{object}	serializer.Response{}
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_id}/milestones/{milestone_id} [delete]
func (h *MilestoneHandler) DeleteMilestone(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "project_id", "project_id")
	if !ok {
		return
	}
	milestoneID, ok := pathID(c, "milestone_id", "milestone_id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), user.ID, projectID, milestoneID); err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}
