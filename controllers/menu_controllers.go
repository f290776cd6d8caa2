package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/restokitchen/pos/assistant"
	"github.com/restokitchen/pos/services"
	"github.com/restokitchen/pos/utils"
)

type MenuController struct {
	Menus  *services.MenuService
	Assist *assistant.Service
}

func NewMenuController(menus *services.MenuService, assist *assistant.Service) *MenuController {
	return &MenuController{Menus: menus, Assist: assist}
}

func menuIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("menu_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid menu_id"))
		return 0, false
	}
	return uint(id), true
}

// GetAllMenus -> catalog snapshot, filterable by ?category= (exact,
// "all" passes everything) and ?search= (case-insensitive substring).
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	menus, err := mc.Menus.List(c.Query("category"), c.Query("search"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

// GetMenuByID -> detail of one catalog entry.
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	id, ok := menuIDParam(c)
	if !ok {
		return
	}

	menu, err := mc.Menus.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

// CreateMenu -> add a catalog entry. Name and a positive price are
// required; the item starts out available.
func (mc *MenuController) CreateMenu(c *gin.Context) {
	var in services.MenuInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menu, err := mc.Menus.Create(in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

// UpdateMenu -> partial edit of a catalog entry.
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	id, ok := menuIDParam(c)
	if !ok {
		return
	}

	var patch services.MenuPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menu, err := mc.Menus.Update(id, patch)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}

// DeleteMenu -> remove a catalog entry. Order lines keep their
// snapshots.
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	id, ok := menuIDParam(c)
	if !ok {
		return
	}

	if err := mc.Menus.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", gin.H{"menu_id": id})
}

// DescribeMenu -> draft a one-sentence description for a dish. Falls
// back to canned copy when the generation API is unreachable.
func (mc *MenuController) DescribeMenu(c *gin.Context) {
	var body struct {
		Name     string `json:"name" binding:"required"`
		Category string `json:"category"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	description := mc.Assist.MenuDescription(c.Request.Context(), body.Name, body.Category)
	utils.RespondJSON(c, http.StatusOK, "Menu description drafted", gin.H{
		"description": description,
	})
}
