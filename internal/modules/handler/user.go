package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projcalc/estimator/internal/modules/serializer"
	"github.com/projcalc/estimator/internal/modules/service"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{svc: s}
}

type CreateUserReq struct {
	Login    string `json:"login" binding:"required,notblank,max=64" example:"alice"`
	Password string `json:"password" binding:"required,notblank,max=72" example:"s3cret-pass"`
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
}

type UpdateUserReq struct {
	Password string `json:"password" binding:"required,notblank,max=72" example:"n3w-pass"`
	Email    string `json:"email" binding:"required,email" example:"alice@example.com"`
}

// CreateUser godoc
//
//	@Summary		Register user
//	@Description	Create an account. Logins are unique.
//	@Tags			user
//	@Accept			json
//	@Produce		json
//	@Param			body	body	CreateUserReq	true	"User"
//	@Success		201	{object}	serializer.Response{data=service.UserOutput}
//	@Failure		400	{object}	serializer.Response
//	@Router			/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	req := CreateUserReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	out, err := h.svc.Create(c.Request.Context(), service.CreateUserInput{
		Login:    req.Login,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, serializer.Response{Data: out})
}

// GetCurrentUser godoc
//
//	@Summary		Current user
//	@Tags			user
//	@Produce		json
//	@Security		BasicAuth
//	@Success		200	{object}	serializer.Response{data=service.UserOutput}
//	@Router			/users [get]
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	out, err := h.svc.Get(c.Request.Context(), user.ID, user.ID)
	if err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// UpdateUser godoc
//
//	@Summary		Update user
//	@Description	Change password and email. Only the caller's own account can be updated.
//	@Tags			user
//	@Accept			json
//	@Produce		json
//	@Param			user_id	path	string			true	"User ID"	format(uuid)
//	@Param			body	body	UpdateUserReq	true	"User"
//	@Security		BasicAuth
//	@Success		200	{object}	serializer.Response{data=service.UserOutput}
//	@Failure		400	{object}	serializer.Response
//	@Failure		404	{object}	serializer.Response
//	@Router			/users/{user_id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	req := UpdateUserReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindErr(c, err)
		return
	}
	user, ok := currentUser(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "user_id", "user_id")
	if !ok {
		return
	}

	out, err := h.svc.Update(c.Request.Context(), service.UpdateUserInput{
		CallerID: user.ID,
		UserID:   userID,
		Password: req.Password,
		Email:    req.Email,
	})
	if err != nil {
		handleErr(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: out})
}
