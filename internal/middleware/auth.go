package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/projcalc/estimator/internal/modules/handler"
	"github.com/projcalc/estimator/internal/modules/serializer"
	"github.com/projcalc/estimator/internal/modules/service"
)

// BasicAuth authenticates requests with HTTP Basic credentials against the
// users table and stores the user under handler.UserKey. It also sets the
// user_id attribute on the current span for telemetry filtering.
func BasicAuth(users service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, authSpan := otel.Tracer("middleware").Start(c.Request.Context(), "basic_auth",
			trace.WithAttributes(attribute.String("middleware", "basic_auth")))

		login, password, ok := c.Request.BasicAuth()
		if !ok {
			authSpan.SetAttributes(attribute.Bool("authenticated", false))
			authSpan.End()
			c.Header("WWW-Authenticate", `Basic realm="estimator"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		user, err := users.Authenticate(ctx, login, password)
		if err != nil {
			authSpan.SetAttributes(attribute.Bool("authenticated", false))
			if service.KindOf(err) != service.KindUnauthorized {
				authSpan.RecordError(err)
				authSpan.End()
				c.AbortWithStatusJSON(http.StatusInternalServerError, serializer.DBErr("", err))
				return
			}
			authSpan.End()
			c.Header("WWW-Authenticate", `Basic realm="estimator"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
			return
		}

		rootSpan := trace.SpanFromContext(c.Request.Context())
		if rootSpan.SpanContext().IsValid() {
			rootSpan.SetAttributes(attribute.String("user_id", user.ID.String()))
		}
		authSpan.SetAttributes(
			attribute.String("user_id", user.ID.String()),
			attribute.Bool("authenticated", true),
		)
		authSpan.End()

		c.Set(handler.UserKey, user)
		c.Next()
	}
}
