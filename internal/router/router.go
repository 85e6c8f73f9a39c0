package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/projcalc/estimator/docs"
	"github.com/projcalc/estimator/internal/config"
	"github.com/projcalc/estimator/internal/middleware"
	"github.com/projcalc/estimator/internal/modules/handler"
	"github.com/projcalc/estimator/internal/modules/serializer"
	"github.com/projcalc/estimator/internal/modules/service"
	"github.com/projcalc/estimator/internal/telemetry"
)

type RouterDeps struct {
	Config            *config.Config
	Log               *zap.Logger
	Users             service.UserService
	ProjectHandler    *handler.ProjectHandler
	MilestoneHandler  *handler.MilestoneHandler
	FeatureHandler    *handler.FeatureHandler
	RateHandler       *handler.RateHandler
	TeamMemberHandler *handler.TeamMemberHandler
	UserHandler       *handler.UserHandler
	PositionHandler   *handler.PositionHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	serializer.SetLogger(d.Log)
	handler.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(telemetry.GinMiddleware(d.Config.App.Name))
	}
	r.Use(middleware.TraceID())
	r.Use(middleware.ZapLogger(d.Log))
	r.Use(middleware.CORS(d.Config.AllowedOrigins()))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// public
	v1.POST("/users", d.UserHandler.CreateUser)
	v1.GET("/positions", d.PositionHandler.ListPositions)

	authed := v1.Group("")
	authed.Use(middleware.BasicAuth(d.Users))
	{
		authed.GET("/users", d.UserHandler.GetCurrentUser)
		authed.PUT("/users/:user_id", d.UserHandler.UpdateUser)

		projects := authed.Group("/projects")
		{
			projects.POST("", d.ProjectHandler.CreateProject)
			projects.GET("", d.ProjectHandler.ListProjects)
			projects.GET("/:project_id", d.ProjectHandler.GetProject)
			projects.PUT("/:project_id", d.ProjectHandler.UpdateProject)
			projects.DELETE("/:project_id", d.ProjectHandler.DeleteProject)
			projects.GET("/:project_id/audit", d.ProjectHandler.AuditProject)

			milestones := projects.Group("/:project_id/milestones")
			{
				milestones.POST("", d.MilestoneHandler.CreateMilestone)
				milestones.GET("", d.MilestoneHandler.ListMilestones)
				milestones.PUT("/:milestone_id", d.MilestoneHandler.UpdateMilestone)
				milestones.DELETE("/:milestone_id", d.MilestoneHandler.DeleteMilestone)
			}

			features := projects.Group("/:project_id/features")
			{
				features.POST("", d.FeatureHandler.CreateFeature)
				features.GET("", d.FeatureHandler.ListFeatures)
				features.PUT("/:feature_id", d.FeatureHandler.UpdateFeature)
				features.DELETE("/:feature_id", d.FeatureHandler.DeleteFeature)
			}

			rates := projects.Group("/:project_id/rates")
			{
				rates.GET("", d.RateHandler.ListRates)
				rates.PUT("/:rate_id", d.RateHandler.UpdateRate)
			}

			team := projects.Group("/:project_id/team-members")
			{
				team.POST("", d.TeamMemberHandler.CreateTeamMember)
				team.GET("", d.TeamMemberHandler.ListTeamMembers)
				team.PUT("/:team_member_id", d.TeamMemberHandler.UpdateTeamMember)
				team.DELETE("/:team_member_id", d.TeamMemberHandler.DeleteTeamMember)
			}
		}
	}
	return r
}
