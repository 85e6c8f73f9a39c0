package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projcalc/estimator/internal/modules/serializer"
	"github.com/projcalc/estimator/internal/modules/service"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(s service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: s}
}

type ProjectReq struct {
	Title       string `json:"title" binding:"required,notblank,max=255" example:"Billing portal"`
	Description string `json:"description" binding:"required,notblank" example:"Customer self-service billing"`
	Client      string `json:"client" binding:"required,notblank,max=255" example:"ACME"`
}

func (r ProjectReq) fields() service.ProjectFields {
	return service.ProjectFields{Title: r.Title, Description: r.Description, Client: r.Client}
}

// CreateProject godoc
//
//	@Summary		Create project
//	@Description	Create a project owned by the caller. Rates are seeded from the position catalog and the default team is staffed.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			body	body	ProjectReq	true	"Project"
//	@Security		BasicAuth
//	@Success		201	{object}	serializer.Response{data=service.ProjectOutput}
//	@Failure		400	{object}	serializer.Response
//	@Router			/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	req := ProjectReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}

	out, err := h.svc.Create(c.Request.Context(), service.CreateProjectInput{UserID: user.ID, ProjectFields: req.fields()})
	if err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

// ListProjects godoc
//
//	@Summary		List projects
//	@Description	List the caller's projects with their estimate and price
//	@Tags			project
//	@Produce		json
//	@Security		BasicAuth
//	@Success		200	{object}	serializer.Response{data=[]service.ProjectOutput}
//	@Router			/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	out, err := h.svc.List(c.Request.Context(), user.ID)
	if err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// GetProject godoc
//
//	@Summary		Get project
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BasicAuth
//	@Success		200	{object}	serializer.Response{data=service.ProjectOutput}
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "project_id", "project_id")
	if !ok {
		return
	}
	out, err := h.svc.Get(c.Request.Context(), user.ID, projectID)
	if err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// UpdateProject godoc
//
//	@Summary		Update project
//	@Description	Update title, description and client. Estimates are not touched.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string		true	"Project ID"	format(uuid)
//	@Param			body		body	ProjectReq	true	"Project"
//	@Security		BasicAuth
//	@Success		200	{object}	serializer.Response{data=service.ProjectOutput}
//	@Failure		400	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	req := ProjectReq{}
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

	out, err := h.svc.Update(c.Request.Context(), service.UpdateProjectInput{
		UserID:        user.ID,
		ProjectID:     projectID,
		ProjectFields: req.fields(),
	})
	if err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// DeleteProject godoc
//
//	@Summary		Delete project
//	@Description	Delete a project with its milestones, features, rates and team
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BasicAuth
//	@Success		200	{object}	serializer.Response{}
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "project_id", "project_id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), user.ID, projectID); err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

// AuditProject godoc
//
//	@Summary		Audit project totals
//	@Description	Recompute the project and milestone estimates from their features and compare with the stored totals
//	@Tags			project
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Security		BasicAuth
//	@Success		200	{object}	serializer.Response{data=service.AuditReport}
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_id}/audit [get]
func (h *ProjectHandler) AuditProject(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "project_id", "project_id")
	if !ok {
		return
	}
	out, err := h.svc.Audit(c.Request.Context(), user.ID, projectID)
	if err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}
