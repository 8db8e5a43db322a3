package utils

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

// Validate is the shared validator instance used outside iris's own binding.
var Validate = validator.New()

type validationError struct {
	ActualTag string `json:"tag"`
	Namespace string `json:"namespace"`
	Kind      string `json:"kind"`
	Type      string `json:"type"`
	Value     string `json:"value"`
	Param     string `json:"param"`
}

// HandleValidationErrors turns ReadJSON/validator failures into the standard
// 400 envelope, with per-field details when the validator produced them.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		details := make([]validationError, 0, len(errs))
		for _, fieldErr := range errs {
			details = append(details, validationError{
				ActualTag: fieldErr.ActualTag(),
				Namespace: fieldErr.Namespace(),
				Kind:      fieldErr.Kind().String(),
				Type:      fieldErr.Type().String(),
				Value:     fieldErr.Param(),
				Param:     fieldErr.Param(),
			})
		}
		ctx.StatusCode(http.StatusBadRequest)
		ctx.JSON(iris.Map{"success": false, "message": "Validation failed.", "errors": details})
		return
	}

	ctx.StatusCode(http.StatusBadRequest)
	ctx.JSON(iris.Map{"success": false, "message": "Invalid request body."})
}
