package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/projcalc/estimator/internal/modules/model"
	"github.com/projcalc/estimator/internal/modules/serializer"
	"github.com/projcalc/estimator/internal/modules/service"
)

// UserKey is the gin context key holding the authenticated *model.User.
const UserKey = "user"

func currentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
		return nil, false
	}
	u, ok := v.(*model.User)
	if !ok || u == nil {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr("Unauthorized"))
		return nil, false
	}
	return u, true
}

// pathID parses the named path parameter; the error response names the
// parameter in snake case.
func pathID(c *gin.Context, param, field string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.FieldErr("invalid "+field,
			serializer.FieldError{Field: field, Code: "INVALID_ID", Msg: "must be a UUID"}))
		return uuid.Nil, false
	}
	return id, true
}

var tagCodes = map[string]string{
	"required":       "BLANK_FIELD",
	"notblank":       "BLANK_FIELD",
	"fixed2":         "INVALID_AMOUNT",
	"dpositive":      "INVALID_AMOUNT",
	"dnonnegative":   "INVALID_ESTIMATES",
	"estimate_order": "INVALID_ESTIMATES",
	"email":          "INVALID_EMAIL",
	"max":            "TOO_LONG",
}

// bindErr reports a failed ShouldBind. Validator failures are attributed
// to their JSON field; malformed bodies get a plain parameter error.
func bindErr(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	fields := make([]serializer.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		code, ok := tagCodes[fe.Tag()]
		if !ok {
			code = "INVALID_VALUE"
		}
		fields = append(fields, serializer.FieldError{Field: fe.Field(), Code: code, Msg: fe.Error()})
	}
	c.JSON(http.StatusBadRequest, serializer.FieldErr("parameter error", fields...))
}

// handleErr writes the response for a service error.
func handleErr(c *gin.Context, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("internal error", err))
		return
	}
	field := []serializer.FieldError{{Field: se.Field, Code: se.Code, Msg: se.Msg}}
	if se.Field == "" {
		field = nil
	}
	switch se.Kind {
	case service.KindNotFound:
		c.JSON(http.StatusNotFound, serializer.NotFoundErr(se.Msg, field...))
	case service.KindValidation:
		c.JSON(http.StatusBadRequest, serializer.FieldErr(se.Msg, field...))
	case service.KindUnauthorized:
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(se.Msg))
	default:
		c.JSON(http.StatusInternalServerError, serializer.DBErr("internal error", err))
	}
}
