package handlers

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/leminhha/salespipe/pkg/errors"
	"github.com/leminhha/salespipe/pkg/response"
	appValidator "github.com/leminhha/salespipe/pkg/validator"
)

// bindAndValidate binds the JSON payload into dest and runs struct validation rules.
// When validation fails, an error response with per-field details is written
// and false is returned.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.NewValidation("invalid JSON payload"))
		return false
	}

	if err := appValidator.ValidateStruct(dest); err != nil {
		appErr := appErrors.NewValidation("invalid request payload")
		if ve, ok := err.(appValidator.ValidationErrors); ok {
			appErr = appErr.WithDetails(ve.Fields())
		}
		response.Error(c, appErr)
		return false
	}

	return true
}
