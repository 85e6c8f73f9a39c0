package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/projcalc/estimator/internal/modules/serializer"
	"github.com/projcalc/estimator/internal/modules/service"
)

type FeatureHandler struct {
	svc service.FeatureService
}

func NewFeatureHandler(s service.FeatureService) *FeatureHandler {
	return &FeatureHandler{svc: s}
}

// FeatureReq carries the three-point estimate in days. Values accept JSON
// numbers or strings with at most two fraction digits.
type FeatureReq struct {
	Title                    string           `json:"title" binding:"required,notblank,max=255" example:"Invoice export"`
	Description              string           `json:"description" binding:"required,notblank" example:"Export invoices to PDF"`
	BestCaseEstimateInDays   *decimal.Decimal `json:"best_case_estimate_in_days" binding:"required,dnonnegative,fixed2" swaggertype:"string" example:"2"`
	MostLikelyEstimateInDays *decimal.Decimal `json:"most_likely_estimate_in_days" binding:"required,dnonnegative,fixed2" swaggertype:"string" example:"4"`
	WorstCaseEstimateInDays  *decimal.Decimal `json:"worst_case_estimate_in_days" binding:"required,dnonnegative,fixed2" swaggertype:"string" example:"8"`
}

func (r FeatureReq) fields() service.FeatureFields {
	return service.FeatureFields{
		Title:                    r.Title,
		Description:              r.Description,
		BestCaseEstimateInDays:   *r.BestCaseEstimateInDays,
		MostLikelyEstimateInDays: *r.MostLikelyEstimateInDays,
		WorstCaseEstimateInDays:  *r.WorstCaseEstimateInDays,
	}
}

type CreateFeatureReq struct {
	MilestoneID *uuid.UUID `json:"milestone_id" swaggertype:"string" format:"uuid"`
	FeatureReq
}

type UpdateFeatureReq struct {
	// null or missing detaches the feature from its milestone
	NewMilestoneID *uuid.UUID `json:"new_milestone_id" swaggertype:"string" format:"uuid"`
	FeatureReq
}

type ListFeaturesReq struct {
	MilestoneID string `form:"milestone_id" binding:"omitempty,uuid"`
}

// CreateFeature godoc
//
//	@Summary		Create feature
//	@Description	Create a feature and add its PERT estimate to the project and, if given, the milestone
//	@Tags			feature
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string				true	"Project ID"	format(uuid)
//	@Param			body		body	CreateFeatureReq	true	"Feature"
//	@Security		BasicAuth
//	@Success		201	{object}	serializer.Response{data=service.FeatureOutput}
//	@Failure		400	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_id}/features [post]
func (h *FeatureHandler) CreateFeature(c *gin.Context) {
	req := CreateFeatureReq{}
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

	out, err := h.svc.Create(c.Request.Context(), service.CreateFeatureInput{
		UserID:        user.ID,
		ProjectID:     projectID,
		MilestoneID:   req.MilestoneID,
		FeatureFields: req.fields(),
	})
	if err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

// ListFeatures godoc
//
//	@Summary		List features
//	@Description	List the features of a project, optionally only those of one milestone
//	@Tags			feature
//	@Produce		json
//	@Param			project_id		path	string	true	"Project ID"	format(uuid)
//	@Param			milestone_id	query	string	false	"Milestone ID"	format(uuid)
//	@Security		BasicAuth
//	@Success		200	{object}	serializer.Response{data=[]service.FeatureOutput}
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_id}/features [get]
func (h *FeatureHandler) ListFeatures(c *gin.Context) {
	req := ListFeaturesReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
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

	var milestoneID *uuid.UUID
	if req.MilestoneID != "" {
		id := uuid.MustParse(req.MilestoneID)
		milestoneID = &id
	}
	out, err := h.svc.List(c.Request.Context(), user.ID, projectID, milestoneID)
	if err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// UpdateFeature godoc
//
//	@Summary		Update feature
//	@Description	Replace the feature's fields and milestone assignment. Running totals move with it.
//	@Tags			feature
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string				true	"Project ID"	format(uuid)
//	@Param			feature_id	path	string				true	"Feature ID"	format(uuid)
//	@Param			body		body	UpdateFeatureReq	true	"Feature"
//	@Security		BasicAuth
//	@Success		200	{object}	serializer.Response{data=service.FeatureOutput}
//	@Failure		400	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_id}/features/{feature_id} [put]
func (h *FeatureHandler) UpdateFeature(c *gin.Context) {
	req := UpdateFeatureReq{}
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
	featureID, ok := pathID(c, "feature_id", "feature_id")
	if !ok {
		return
	}

	out, err := h.svc.Update(c.Request.Context(), service.UpdateFeatureInput{
		UserID:         user.ID,
		ProjectID:      projectID,
		FeatureID:      featureID,
		NewMilestoneID: req.NewMilestoneID,
		FeatureFields:  req.fields(),
	})
	if err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// DeleteFeature godoc
//
//	@Summary		Delete feature
//	@Tags			feature
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	format(uuid)
//	@Param			feature_id	path	string	true	"Feature ID"	format(uuid)
//	@Security		BasicAuth
//	@Success		200	{object}	serializer.Response{}
//	@Failure		404	{object}	serializer.Response
//	@Router			/projects/{project_id}/features/{feature_id} [delete]
func (h *FeatureHandler) DeleteFeature(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	projectID, ok := pathID(c, "project_id", "project_id")
	if !ok {
		return
	}
	featureID, ok := pathID(c, "feature_id", "feature_id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), user.ID, projectID, featureID); err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}
