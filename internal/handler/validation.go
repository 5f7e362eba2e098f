package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/course-scheduler/pkg/errors"
	"github.com/noah-isme/course-scheduler/pkg/response"
)

var validate = validator.New()

// bindJSON decodes and validates the request body, writing a 400 on failure.
func bindJSON(c *gin.Context, target interface{}, message string) bool {
	err := c.ShouldBindJSON(target)
	if err == nil {
		err = validate.Struct(target)
	}
	if err != nil {
		response.Error(c, invalid(err, message))
		return false
	}
	return true
}

func invalid(err error, message string) *appErrors.Error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
}
