package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/projcalc/estimator/internal/modules/model"
	"github.com/projcalc/estimator/internal/modules/serializer"
	"github.com/projcalc/estimator/internal/modules/service"
	"github.com/projcalc/estimator/internal/pkg/estimate"
)

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) serializer.Response {
	t.Helper()
	var resp serializer.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestFeatureHandler_CreateFeature(t *testing.T) {
	gin.SetMode(gin.TestMode)
	serializer.SetLogger(zap.NewNop())
	RegisterValidators()

	user := &model.User{ID: uuid.New(), Login: "alice"}
	projectID := uuid.New()
	milestoneID := uuid.New()

	tests := []struct {
		name           string
		user           *model.User
		projectParam   string
		body           string
		setup          func(*MockFeatureService)
		expectedStatus int
		checkResponse  func(*testing.T, serializer.Response)
	}{
		{
			name:         "success",
			user:         user,
			projectParam: projectID.String(),
			body:         `{"title":"Export","description":"PDF export","best_case_estimate_in_days":2,"most_likely_estimate_in_days":"4","worst_case_estimate_in_days":8,"milestone_id":"` + milestoneID.String() + `"}`,
			setup: func(svc *MockFeatureService) {
				svc.On("Create", mock.Anything, mock.MatchedBy(func(in service.CreateFeatureInput) bool {
					return in.UserID == user.ID &&
						in.ProjectID == projectID &&
						in.MilestoneID != nil && *in.MilestoneID == milestoneID &&
						in.BestCaseEstimateInDays.Equal(decimal.NewFromInt(2)) &&
						in.MostLikelyEstimateInDays.Equal(decimal.NewFromInt(4)) &&
						in.WorstCaseEstimateInDays.Equal(decimal.NewFromInt(8))
				})).Return(&service.FeatureOutput{
					ID:             uuid.New(),
					ProjectID:      projectID,
					EstimateInDays: estimate.NewFixed(decimal.RequireFromString("4.33")),
					PriceInRubles:  estimate.NewFixed(decimal.RequireFromString("55424")),
				}, nil)
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp serializer.Response) {
				data := resp.Data.(map[string]interface{})
				assert.Equal(t, "4.33", data["estimate_in_days"])
				assert.Equal(t, "55424.00", data["price_in_rubles"])
			},
		},
		{
			name:           "most likely above worst case",
			user:           user,
			projectParam:   projectID.String(),
			body:           `{"title":"Export","description":"PDF export","best_case_estimate_in_days":2,"most_likely_estimate_in_days":8,"worst_case_estimate_in_days":4}`,
			setup:          func(svc *MockFeatureService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp serializer.Response) {
				require.Len(t, resp.Errors, 1)
				assert.Equal(t, "worst_case_estimate_in_days", resp.Errors[0].Field)
				assert.Equal(t, "INVALID_ESTIMATES", resp.Errors[0].Code)
			},
		},
		{
			name:           "best above most likely",
			user:           user,
			projectParam:   projectID.String(),
			body:           `{"title":"Export","description":"PDF export","best_case_estimate_in_days":5,"most_likely_estimate_in_days":4,"worst_case_estimate_in_days":8}`,
			setup:          func(svc *MockFeatureService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp serializer.Response) {
				require.Len(t, resp.Errors, 1)
				assert.Equal(t, "most_likely_estimate_in_days", resp.Errors[0].Field)
			},
		},
		{
			name:           "three fraction digits",
			user:           user,
			projectParam:   projectID.String(),
			body:           `{"title":"Export","description":"PDF export","best_case_estimate_in_days":"2.005","most_likely_estimate_in_days":4,"worst_case_estimate_in_days":8}`,
			setup:          func(svc *MockFeatureService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp serializer.Response) {
				require.Len(t, resp.Errors, 1)
				assert.Equal(t, "best_case_estimate_in_days", resp.Errors[0].Field)
				assert.Equal(t, "INVALID_AMOUNT", resp.Errors[0].Code)
			},
		},
		{
			name:           "negative estimate",
			user:           user,
			projectParam:   projectID.String(),
			body:           `{"title":"Export","description":"PDF export","best_case_estimate_in_days":-1,"most_likely_estimate_in_days":4,"worst_case_estimate_in_days":8}`,
			setup:          func(svc *MockFeatureService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp serializer.Response) {
				require.NotEmpty(t, resp.Errors)
				assert.Equal(t, "best_case_estimate_in_days", resp.Errors[0].Field)
			},
		},
		{
			name:           "missing estimates",
			user:           user,
			projectParam:   projectID.String(),
			body:           `{"title":"Export","description":"PDF export"}`,
			setup:          func(svc *MockFeatureService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp serializer.Response) {
				require.Len(t, resp.Errors, 3)
				assert.Equal(t, "BLANK_FIELD", resp.Errors[0].Code)
			},
		},
		{
			name:           "blank title",
			user:           user,
			projectParam:   projectID.String(),
			body:           `{"title":"   ","description":"PDF export","best_case_estimate_in_days":2,"most_likely_estimate_in_days":4,"worst_case_estimate_in_days":8}`,
			setup:          func(svc *MockFeatureService) {},
			expectedStatus: http.StatusBadRequest,
			checkResponse: func(t *testing.T, resp serializer.Response) {
				require.Len(t, resp.Errors, 1)
				assert.Equal(t, "title", resp.Errors[0].Field)
			},
		},
		{
			name:           "invalid project id",
			user:           user,
			projectParam:   "not-a-uuid",
			body:           `{"title":"Export","description":"PDF export","best_case_estimate_in_days":2,"most_likely_estimate_in_days":4,"worst_case_estimate_in_days":8}`,
			setup:          func(svc *MockFeatureService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:         "milestone not found",
			user:         user,
			projectParam: projectID.String(),
			body:         `{"title":"Export","description":"PDF export","best_case_estimate_in_days":2,"most_likely_estimate_in_days":4,"worst_case_estimate_in_days":8,"milestone_id":"` + milestoneID.String() + `"}`,
			setup: func(svc *MockFeatureService) {
				svc.On("Create", mock.Anything, mock.Anything).Return(nil, service.ErrMilestoneNotFound)
			},
			expectedStatus: http.StatusNotFound,
			checkResponse: func(t *testing.T, resp serializer.Response) {
				require.Len(t, resp.Errors, 1)
				assert.Equal(t, "milestone_id", resp.Errors[0].Field)
				assert.Equal(t, "MILESTONE_IS_NOT_FOUND_BY_ID", resp.Errors[0].Code)
			},
		},
		{
			name:         "invariant violation is a server error",
			user:         user,
			projectParam: projectID.String(),
			body:         `{"title":"Export","description":"PDF export","best_case_estimate_in_days":2,"most_likely_estimate_in_days":4,"worst_case_estimate_in_days":8}`,
			setup: func(svc *MockFeatureService) {
				svc.On("Create", mock.Anything, mock.Anything).Return(nil, service.ErrAggregateInvariant)
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "unauthenticated",
			user:           nil,
			projectParam:   projectID.String(),
			body:           `{"title":"Export","description":"PDF export","best_case_estimate_in_days":2,"most_likely_estimate_in_days":4,"worst_case_estimate_in_days":8}`,
			setup:          func(svc *MockFeatureService) {},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &MockFeatureService{}
			tt.setup(svc)
			h := NewFeatureHandler(svc)

			rec := serve(tt.user, http.MethodPost, "/projects/:project_id/features",
				"/projects/"+tt.projectParam+"/features", tt.body, h.CreateFeature)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.checkResponse != nil {
				tt.checkResponse(t, decodeResponse(t, rec))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestFeatureHandler_UpdateFeature(t *testing.T) {
	gin.SetMode(gin.TestMode)
	serializer.SetLogger(zap.NewNop())
	RegisterValidators()

	user := &model.User{ID: uuid.New()}
	projectID := uuid.New()
	featureID := uuid.New()
	target := "/projects/" + projectID.String() + "/features/" + featureID.String()
	route := "/projects/:project_id/features/:feature_id"

	t.Run("detaches when new milestone is null", func(t *testing.T) {
		svc := &MockFeatureService{}
		svc.On("Update", mock.Anything, mock.MatchedBy(func(in service.UpdateFeatureInput) bool {
			return in.FeatureID == featureID && in.NewMilestoneID == nil
		})).Return(&service.FeatureOutput{ID: featureID}, nil)

		rec := serve(user, http.MethodPut, route, target,
			`{"title":"t","description":"d","best_case_estimate_in_days":1,"most_likely_estimate_in_days":1,"worst_case_estimate_in_days":1,"new_milestone_id":null}`,
			NewFeatureHandler(svc).UpdateFeature)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("unknown new milestone", func(t *testing.T) {
		svc := &MockFeatureService{}
		svc.On("Update", mock.Anything, mock.Anything).
			Return(nil, service.ErrMilestoneNotFound.WithField("new_milestone_id"))

		rec := serve(user, http.MethodPut, route, target,
			`{"title":"t","description":"d","best_case_estimate_in_days":1,"most_likely_estimate_in_days":2,"worst_case_estimate_in_days":3,"new_milestone_id":"`+uuid.NewString()+`"}`,
			NewFeatureHandler(svc).UpdateFeature)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeResponse(t, rec)
		require.Len(t, resp.Errors, 1)
		assert.Equal(t, "new_milestone_id", resp.Errors[0].Field)
	})

	t.Run("feature not found", func(t *testing.T) {
		svc := &MockFeatureService{}
		svc.On("Update", mock.Anything, mock.Anything).Return(nil, service.ErrFeatureNotFound)

		rec := serve(user, http.MethodPut, route, target,
			`{"title":"t","description":"d","best_case_estimate_in_days":1,"most_likely_estimate_in_days":2,"worst_case_estimate_in_days":3}`,
			NewFeatureHandler(svc).UpdateFeature)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestFeatureHandler_ListFeatures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	user := &model.User{ID: uuid.New()}
	projectID := uuid.New()
	milestoneID := uuid.New()
	route := "/projects/:project_id/features"

	t.Run("filter by milestone", func(t *testing.T) {
		svc := &MockFeatureService{}
		svc.On("List", mock.Anything, user.ID, projectID, mock.MatchedBy(func(id *uuid.UUID) bool {
			return id != nil && *id == milestoneID
		})).Return([]*service.FeatureOutput{{ID: uuid.New()}}, nil)

		rec := serve(user, http.MethodGet, route,
			"/projects/"+projectID.String()+"/features?milestone_id="+milestoneID.String(), "",
			NewFeatureHandler(svc).ListFeatures)

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		assert.Len(t, resp.Data.([]interface{}), 1)
		svc.AssertExpectations(t)
	})

	t.Run("whole project", func(t *testing.T) {
		svc := &MockFeatureService{}
		svc.On("List", mock.Anything, user.ID, projectID, (*uuid.UUID)(nil)).
			Return([]*service.FeatureOutput{}, nil)

		rec := serve(user, http.MethodGet, route, "/projects/"+projectID.String()+"/features", "",
			NewFeatureHandler(svc).ListFeatures)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("invalid milestone filter", func(t *testing.T) {
		svc := &MockFeatureService{}
		rec := serve(user, http.MethodGet, route,
			"/projects/"+projectID.String()+"/features?milestone_id=nope", "",
			NewFeatureHandler(svc).ListFeatures)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestFeatureHandler_DeleteFeature(t *testing.T) {
	gin.SetMode(gin.TestMode)

	user := &model.User{ID: uuid.New()}
	projectID := uuid.New()
	featureID := uuid.New()

	svc := &MockFeatureService{}
	svc.On("Delete", mock.Anything, user.ID, projectID, featureID).Return(nil)

	rec := serve(user, http.MethodDelete, "/projects/:project_id/features/:feature_id",
		"/projects/"+projectID.String()+"/features/"+featureID.String(), "",
		NewFeatureHandler(svc).DeleteFeature)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}
