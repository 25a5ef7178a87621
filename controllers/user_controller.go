package controllers

import (
	"net/http"
	"strconv"

	"lost_and_found_tool/app"
	"lost_and_found_tool/service"

	"github.com/gin-gonic/gin"
)

type UserController struct{ *Srv }

func NewUserController(s *Srv) *UserController { return &UserController{Srv: s} }

// POST /api/users/register (multipart: name, email, phone, password, avatar?)
func (uc *UserController) Register(c *gin.Context) {
	avatar, avatarName, err := readFormFile(c, "avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := uc.Users.Register(c.Request.Context(), service.RegisterInput{
		Name:       c.PostForm("name"),
		Email:      c.PostForm("email"),
		Phone:      c.PostForm("phone"),
		Password:   c.PostForm("password"),
		Avatar:     avatar,
		AvatarName: avatarName,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, app.H{"user": u})
}

// POST /api/users/login
func (uc *UserController) Login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := uc.Users.Authenticate(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		fail(c, err)
		return
	}
	if err := uc.issueSession(c, u.ID); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u})
}

// POST /api/users/logout
func (uc *UserController) Logout(c *gin.Context) {
	uc.clearSession(c)
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /api/users/me
func (uc *UserController) Me(c *gin.Context) {
	p, ok := app.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	u, err := uc.Users.GetUser(c.Request.Context(), p.ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u})
}

// GET /api/users/:id （公开资料）
func (uc *UserController) Profile(c *gin.Context) {
	u, err := uc.Users.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u})
}

// PATCH /api/users/me
func (uc *UserController) UpdateAccount(c *gin.Context) {
	p, _ := app.CurrentPrincipal(c)

	var in struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
		Phone *string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := uc.Users.UpdateAccount(c.Request.Context(), p, service.UpdateAccountInput{
		Name:  in.Name,
		Email: in.Email,
		Phone: in.Phone,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u})
}

// PATCH /api/users/me/avatar (multipart: avatar)
func (uc *UserController) UpdateAvatar(c *gin.Context) {
	p, _ := app.CurrentPrincipal(c)

	avatar, avatarName, err := readFormFile(c, "avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	u, err := uc.Users.UpdateAvatar(c.Request.Context(), p, avatar, avatarName)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"user": u})
}

// GET /api/users?q=alice&page=1&size=20 （仅管理员）
func (uc *UserController) ListUsers(c *gin.Context) {
	p, _ := app.CurrentPrincipal(c)
	q := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := uc.Users.ListUsers(c.Request.Context(), p, q, page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "users": res.Users})
}

// DELETE /api/users/:id （仅管理员）
func (uc *UserController) DeleteUser(c *gin.Context) {
	p, _ := app.CurrentPrincipal(c)
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, app.H{"error": "missing id"})
		return
	}
	if err := uc.Users.DeleteUser(c.Request.Context(), p, id); err != nil {
		fail(c, err)
		return
	}
	// 撤销该用户的所有登录会话
	_ = uc.Sessions.RevokeAllForUser(c.Request.Context(), id)
	c.JSON(http.StatusOK, app.H{"ok": true})
}
