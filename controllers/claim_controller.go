// controllers/claim_controller.go
package controllers

import (
	"net/http"

	"lost_and_found_tool/app"

	"github.com/gin-gonic/gin"
)

type ClaimController struct{ *Srv }

func NewClaimController(s *Srv) *ClaimController { return &ClaimController{Srv: s} }

// POST /api/items/:id/claims (multipart: proof, additionalDetails?)
// Lost-item flow: claim goes in pending, admin decides later.
func (cc *ClaimController) SubmitClaim(c *gin.Context) {
	p, _ := app.CurrentPrincipal(c)

	proof, proofName, err := readFormFile(c, "proof")
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	claim, err := cc.Claims.SubmitClaim(c.Request.Context(), p, c.Param("id"), proof, proofName, c.PostForm("additionalDetails"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, claim)
}

// GET /api/claims
func (cc *ClaimController) MyClaims(c *gin.Context) {
	p, _ := app.CurrentPrincipal(c)
	claims, err := cc.Claims.ListOwnClaims(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"claims": claims})
}

// GET /api/claims/:claimId
func (cc *ClaimController) GetClaim(c *gin.Context) {
	p, _ := app.CurrentPrincipal(c)
	claim, err := cc.Claims.GetClaim(c.Request.Context(), p, c.Param("claimId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, claim)
}

// DELETE /api/claims/:claimId/withdraw
func (cc *ClaimController) Withdraw(c *gin.Context) {
	p, _ := app.CurrentPrincipal(c)
	claim, err := cc.Claims.WithdrawClaim(c.Request.Context(), p, c.Param("claimId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, claim)
}

// PATCH /api/claims/:claimId (multipart: proof?, additionalDetails?)
func (cc *ClaimController) Update(c *gin.Context) {
	p, _ := app.CurrentPrincipal(c)

	proof, proofName, err := readFormFile(c, "proof")
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	var details *string
	if v, ok := c.GetPostForm("additionalDetails"); ok {
		details = &v
	}

	claim, err := cc.Claims.UpdateClaim(c.Request.Context(), p, c.Param("claimId"), details, proof, proofName)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, claim)
}

// DELETE /api/claims/:claimId （所有者或管理员）
func (cc *ClaimController) Delete(c *gin.Context) {
	p, _ := app.CurrentPrincipal(c)
	if err := cc.Claims.DeleteClaim(c.Request.Context(), p, c.Param("claimId")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /admin/claims
func (cc *ClaimController) AdminList(c *gin.Context) {
	p, _ := app.CurrentPrincipal(c)
	claims, err := cc.Claims.AdminListClaims(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"claims": claims})
}

// GET /admin/claims/:claimId
func (cc *ClaimController) AdminGet(c *gin.Context) {
	p, _ := app.CurrentPrincipal(c)
	claim, err := cc.Claims.AdminGetClaim(c.Request.Context(), p, c.Param("claimId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, claim)
}

// PATCH /admin/claims/status/:claimId {"status": "approved"|"rejected"}
func (cc *ClaimController) AdminDecide(c *gin.Context) {
	p, _ := app.CurrentPrincipal(c)

	var in struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	claim, err := cc.Claims.AdminDecide(c.Request.Context(), p, c.Param("claimId"), in.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, claim)
}
