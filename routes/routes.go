package routes

import (
	"lost_and_found_tool/app"
	"lost_and_found_tool/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	uc := controllers.NewUserController(s)
	itemCtl := controllers.NewItemController(s)
	claimCtl := controllers.NewClaimController(s)

	// 复用的中间件
	authMW := app.AuthRequired(a.Sessions, s.Repo)
	adminMW := app.AdminOnly()

	// 上传的图片/凭证直接静态托管
	r.Static("/uploads", a.Config.UploadDir)

	// ------------------------------
	// 用户（公开 + 受保护）
	// ------------------------------
	users := r.Group("/api/users")
	{
		users.POST("/register", uc.Register)
		users.POST("/login", uc.Login)
		users.GET("/:id", uc.Profile)
	}
	usersAuth := users.Group("", authMW)
	{
		usersAuth.POST("/logout", uc.Logout)
		usersAuth.GET("/me", uc.Me)
		usersAuth.PATCH("/me", uc.UpdateAccount)
		usersAuth.PATCH("/me/avatar", uc.UpdateAvatar)
	}
	usersAdmin := users.Group("", authMW, adminMW)
	{
		usersAdmin.GET("", uc.ListUsers) // ?q=&page=&size=
		usersAdmin.DELETE("/:id", uc.DeleteUser)
	}

	// ------------------------------
	// 物品
	// ------------------------------
	items := r.Group("/api/items")
	{
		// 公开浏览
		items.GET("", itemCtl.ListItems)
		items.GET("/:id", itemCtl.GetItem)
		items.GET("/status/:status", itemCtl.ListByStatus)
		items.GET("/category/:category", itemCtl.ListByCategory)
		items.GET("/:id/location", itemCtl.Location)
	}
	itemsAuth := items.Group("", authMW)
	{
		itemsAuth.POST("", itemCtl.CreateItem)
		itemsAuth.PATCH("/:id", itemCtl.UpdateItem)
		itemsAuth.DELETE("/:id", itemCtl.DeleteItem)

		// found 物品直接认领/取消认领
		itemsAuth.POST("/:id/claim", itemCtl.ClaimItem)
		itemsAuth.PATCH("/:id/unclaim", itemCtl.UnclaimItem)

		// lost 物品发起认领申请（进入管理员裁决流程）
		itemsAuth.POST("/:id/claims", claimCtl.SubmitClaim)
	}

	// ------------------------------
	// 认领（lost 物品，需管理员裁决）
	// ------------------------------
	claims := r.Group("/api/claims", authMW)
	{
		claims.GET("", claimCtl.MyClaims)
		claims.GET("/:claimId", claimCtl.GetClaim)
		claims.DELETE("/:claimId/withdraw", claimCtl.Withdraw)
		claims.PATCH("/:claimId", claimCtl.Update)
		claims.DELETE("/:claimId", claimCtl.Delete)
	}

	// 管理员裁决
	admin := r.Group("/admin/claims", authMW, adminMW)
	{
		admin.GET("", claimCtl.AdminList)
		admin.GET("/:claimId", claimCtl.AdminGet)
		admin.PATCH("/status/:claimId", claimCtl.AdminDecide)
	}
}
