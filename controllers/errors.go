package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/restokitchen/pos/services"
	"github.com/restokitchen/pos/utils"
)

// respondServiceError maps service errors onto HTTP statuses:
// validation -> 400, lifecycle conflicts -> 409, missing rows -> 404,
// everything else -> 500 (transient store failure, retryable).
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidTable),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrItemIndex),
		errors.Is(err, services.ErrMenuInvalid):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrItemFinished),
		errors.Is(err, services.ErrOrderClosed),
		errors.Is(err, services.ErrPaymentInFlight),
		errors.Is(err, services.ErrVersionConflict):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, gorm.ErrRecordNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
