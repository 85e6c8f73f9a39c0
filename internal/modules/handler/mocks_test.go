package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/projcalc/estimator/internal/modules/model"
	"github.com/projcalc/estimator/internal/modules/service"
)

type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) Create(ctx context.Context, in service.CreateProjectInput) (*service.ProjectOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProjectOutput), args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, userID, projectID uuid.UUID) (*service.ProjectOutput, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProjectOutput), args.Error(1)
}

func (m *MockProjectService) List(ctx context.Context, userID uuid.UUID) ([]*service.ProjectOutput, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*service.ProjectOutput), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, in service.UpdateProjectInput) (*service.ProjectOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProjectOutput), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, userID, projectID uuid.UUID) error {
	args := m.Called(ctx, userID, projectID)
	return args.Error(0)
}

func (m *MockProjectService) Audit(ctx context.Context, userID, projectID uuid.UUID) (*service.AuditReport, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuditReport), args.Error(1)
}

type MockFeatureService struct {
	mock.Mock
}

func (m *MockFeatureService) Create(ctx context.Context, in service.CreateFeatureInput) (*service.FeatureOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FeatureOutput), args.Error(1)
}

func (m *MockFeatureService) Update(ctx context.Context, in service.UpdateFeatureInput) (*service.FeatureOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FeatureOutput), args.Error(1)
}

func (m *MockFeatureService) Delete(ctx context.Context, userID, projectID, featureID uuid.UUID) error {
	args := m.Called(ctx, userID, projectID, featureID)
	return args.Error(0)
}

func (m *MockFeatureService) List(ctx context.Context, userID, projectID uuid.UUID, milestoneID *uuid.UUID) ([]*service.FeatureOutput, error) {
	args := m.Called(ctx, userID, projectID, milestoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*service.FeatureOutput), args.Error(1)
}

type MockMilestoneService struct {
	mock.Mock
}

func (m *MockMilestoneService) Create(ctx context.Context, in service.CreateMilestoneInput) (*service.MilestoneOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MilestoneOutput), args.Error(1)
}

func (m *MockMilestoneService) Update(ctx context.Context, in service.UpdateMilestoneInput) (*service.MilestoneOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.MilestoneOutput), args.Error(1)
}

func (m *MockMilestoneService) Delete(ctx context.Context, userID, projectID, milestoneID uuid.UUID) error {
	args := m.Called(ctx, userID, projectID, milestoneID)
	return args.Error(0)
}

func (m *MockMilestoneService) List(ctx context.Context, userID, projectID uuid.UUID) ([]*service.MilestoneOutput, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*service.MilestoneOutput), args.Error(1)
}

type MockRateService struct {
	mock.Mock
}

func (m *MockRateService) List(ctx context.Context, userID, projectID uuid.UUID) ([]*service.RateOutput, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*service.RateOutput), args.Error(1)
}

func (m *MockRateService) Update(ctx context.Context, in service.UpdateRateInput) (*service.RateOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RateOutput), args.Error(1)
}

type MockTeamMemberService struct {
	mock.Mock
}

func (m *MockTeamMemberService) List(ctx context.Context, userID, projectID uuid.UUID) ([]*service.TeamMemberOutput, error) {
	args := m.Called(ctx, userID, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*service.TeamMemberOutput), args.Error(1)
}

func (m *MockTeamMemberService) Create(ctx context.Context, in service.CreateTeamMemberInput) (*service.TeamMemberOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TeamMemberOutput), args.Error(1)
}

func (m *MockTeamMemberService) Update(ctx context.Context, in service.UpdateTeamMemberInput) (*service.TeamMemberOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TeamMemberOutput), args.Error(1)
}

func (m *MockTeamMemberService) Delete(ctx context.Context, userID, projectID, teamMemberID uuid.UUID) error {
	args := m.Called(ctx, userID, projectID, teamMemberID)
	return args.Error(0)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Create(ctx context.Context, in service.CreateUserInput) (*service.UserOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserOutput), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, callerID, userID uuid.UUID) (*service.UserOutput, error) {
	args := m.Called(ctx, callerID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserOutput), args.Error(1)
}

func (m *MockUserService) Update(ctx context.Context, in service.UpdateUserInput) (*service.UserOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserOutput), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, login, password string) (*model.User, error) {
	args := m.Called(ctx, login, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// serve runs one request through a router that authenticates as user when
// user is not nil.
func serve(user *model.User, method, route, target, body string, h gin.HandlerFunc) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	_, r := gin.CreateTestContext(w)
	if user != nil {
		r.Use(func(c *gin.Context) {
			c.Set(UserKey, user)
			c.Next()
		})
	}
	r.Handle(method, route, h)

	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

