package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/projcalc/estimator/internal/modules/serializer"
	"github.com/projcalc/estimator/internal/modules/service"
)

type TeamMemberHandler struct {
	svc service.TeamMemberService
}

func NewTeamMemberHandler(s service.TeamMemberService) *TeamMemberHandler {
	return &TeamMemberHandler{svc: s}
}

type TeamMemberReq struct {
	Position            string           `json:"position" binding:"required,notblank" example:"SENIOR_DEVELOPER"`
	NumberOfTeamMembers *decimal.Decimal `json:"number_of_team_members" binding:"required,dpositive,fixed2" swaggertype:"string" example:"0.5"`
}

func (r TeamMemberReq) fields() service.TeamMemberFields {
	return service.TeamMemberFields{Position: r.Position, NumberOfTeamMembers: *r.NumberOfTeamMembers}
}

// ListTeamMembers godoc
//
//	@Summary		List team members
//	@Tags			team-member
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BasicAuth
//	@Success		200	{object}	serializer.Response{data=[]service.TeamMemberOutput}
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_id}/team-members [get]
func (h *TeamMemberHandler) ListTeamMembers(c *gin.Context) {
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

// CreateTeamMember godoc
//
//	@Summary		Add team member
//	@Description	Staff a catalog position on the project. Each position appears at most once.
//	@Tags			team-member
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string			true	"Project ID"	format(uuid)
//	@Param			body		body	TeamMemberReq	true	"Team member"
//	@Security		BasicAuth
//	@Success		201	{object}	serializer.Response{data=service.TeamMemberOutput}
//	@Failure		400	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_id}/team-members [post]
func (h *TeamMemberHandler) CreateTeamMember(c *gin.Context) {
	req := TeamMemberReq{}
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

	out, err := h.svc.Create(c.Request.Context(), service.CreateTeamMemberInput{
		UserID:           user.ID,
		ProjectID:        projectID,
		TeamMemberFields: req.fields(),
	})
	if err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

// UpdateTeamMember godoc
//
//	@Summary		Update team member
//	@Tags			team-member
//	@Accept			json
//	@Produce		json
//	@Param			project_id		path	string			true	"Project ID"		format(uuid)
//	@Param			team_member_id	path	string			true	"Team member ID"	format(uuid)
//	@Param			body			body	TeamMemberReq	true	"Team member"
//	@Security		BasicAuth
//	@Success		200	{object}	serializer.Response{data=service.TeamMemberOutput}
//	@Failure		400	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_id}/team-members/{team_member_id} [put]
func (h *TeamMemberHandler) UpdateTeamMember(c *gin.Context) {
	req := TeamMemberReq{}
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
	memberID, ok := pathID(c, "team_member_id", "team_member_id")
	if !ok {
		return
	}

	out, err := h.svc.Update(c.Request.Context(), service.UpdateTeamMemberInput{
		UserID:           user.ID,
		ProjectID:        projectID,
		TeamMemberID:     memberID,
		TeamMemberFields: req.fields(),
	})
	if err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// DeleteTeamMember godoc
//
//	@Summary		Remove team member
//	@Tags			team-member
//	@Produce		json
//	@Param			project_id		path	string	true	"Project ID"		format(uuid)
//	@Param			team_member_id	path	string	true	"Team member ID"	format(uuid)
//	@Security		BasicAuth
//	@Success		200	{object}	serializer.Response{}
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_id}/team-members/{team_member_id} [delete]
func (h *TeamMemberHandler) DeleteTeamMember(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "project_id", "project_id")
	if !ok {
		return
	}
	memberID, ok := pathID(c, "team_member_id", "team_member_id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), user.ID, projectID, memberID); err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}
