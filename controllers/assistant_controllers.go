package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/restokitchen/pos/assistant"
	"github.com/restokitchen/pos/services"
	"github.com/restokitchen/pos/utils"
)

type AssistantController struct {
	Orders *services.OrderService
	Assist *assistant.Service
}

func NewAssistantController(orders *services.OrderService, assist *assistant.Service) *AssistantController {
	return &AssistantController{Orders: orders, Assist: assist}
}

// Ask -> free-text staff query, answered with the current open order
// count as context. Generation failures degrade to a canned reply, so
// this endpoint never errors on the API's behalf.
func (ac *AssistantController) Ask(c *gin.Context) {
	var body struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	openOrders, err := ac.Orders.OpenOrderCount()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	answer := ac.Assist.StaffAnswer(c.Request.Context(), body.Query, openOrders)
	utils.RespondJSON(c, http.StatusOK, "Assistant reply", gin.H{
		"answer": answer,
	})
}
