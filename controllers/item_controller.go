// controllers/item_controller.go
package controllers

import (
	"net/http"
	"strconv"

	"lost_and_found_tool/app"
	"lost_and_found_tool/service"

	"github.com/gin-gonic/gin"
)

type ItemController struct{ *Srv }

func NewItemController(s *Srv) *ItemController { return &ItemController{Srv: s} }

// POST /api/items (multipart: title, description, category, uniqueIdentifier,
// status, latitude, longitude, image)
func (ic *ItemController) CreateItem(c *gin.Context) {
	p, _ := app.CurrentPrincipal(c)

	image, imageName, err := readFormFile(c, "image")
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	in := service.CreateItemInput{
		Title:            c.PostForm("title"),
		Description:      c.PostForm("description"),
		Category:         c.PostForm("category"),
		UniqueIdentifier: c.PostForm("uniqueIdentifier"),
		Status:           c.PostForm("status"),
		Image:            image,
		ImageName:        imageName,
	}
	if v, err := strconv.ParseFloat(c.PostForm("latitude"), 64); err == nil {
		in.Latitude = &v
	}
	if v, err := strconv.ParseFloat(c.PostForm("longitude"), 64); err == nil {
		in.Longitude = &v
	}

	it, err := ic.Items.CreateItem(c.Request.Context(), p, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, it)
}

// GET /api/items
func (ic *ItemController) ListItems(c *gin.Context) {
	items, err := ic.Items.ListItems(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

// GET /api/items/:id
func (ic *ItemController) GetItem(c *gin.Context) {
	it, err := ic.Items.GetItem(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// GET /api/items/status/:status
func (ic *ItemController) ListByStatus(c *gin.Context) {
	items, err := ic.Items.ListItemsByStatus(c.Request.Context(), c.Param("status"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

// GET /api/items/category/:category
func (ic *ItemController) ListByCategory(c *gin.Context) {
	items, err := ic.Items.ListItemsByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"items": items})
}

// GET /api/items/:id/location
func (ic *ItemController) Location(c *gin.Context) {
	loc, err := ic.Items.ItemLocation(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

// PATCH /api/items/:id
func (ic *ItemController) UpdateItem(c *gin.Context) {
	p, _ := app.CurrentPrincipal(c)

	var in struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		Category    *string  `json:"category"`
		Status      *string  `json:"status"`
		Latitude    *float64 `json:"latitude"`
		Longitude   *float64 `json:"longitude"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	it, err := ic.Items.UpdateItem(c.Request.Context(), p, c.Param("id"), service.UpdateItemInput{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Status:      in.Status,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}

// DELETE /api/items/:id
func (ic *ItemController) DeleteItem(c *gin.Context) {
	p, _ := app.CurrentPrincipal(c)
	if err := ic.Items.DeleteItem(c.Request.Context(), p, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// POST /api/items/:id/claim (multipart: proof, additionalDetails?)
// Found-item direct claim, no admin step.
func (ic *ItemController) ClaimItem(c *gin.Context) {
	p, _ := app.CurrentPrincipal(c)

	proof, proofName, err := readFormFile(c, "proof")
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	claim, err := ic.Claims.ClaimItem(c.Request.Context(), p, c.Param("id"), proof, proofName, c.PostForm("additionalDetails"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, claim)
}

// PATCH /api/items/:id/unclaim
func (ic *ItemController) UnclaimItem(c *gin.Context) {
	p, _ := app.CurrentPrincipal(c)

	it, err := ic.Claims.UnclaimItem(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, it)
}
