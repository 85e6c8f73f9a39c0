package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/projcalc/estimator/internal/modules/service"
	"github.com/projcalc/estimator/internal/pkg/pricing"
)

func TestPositionHandler_ListPositions(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := NewPositionHandler(service.NewPositionService(pricing.DefaultCatalog()))
	rec := serve(nil, http.MethodGet, "/positions", "/positions", "", h.ListPositions)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeResponse(t, rec).Data.([]interface{})
	assert.Equal(t, []interface{}{
		"REGULAR_DEVELOPER", "SENIOR_DEVELOPER", "PROJECT_MANAGER",
		"QA_ENGINEER", "ARCHITECT", "DEVOPS_ENGINEER",
	}, data)
}
