package utils

import (
	"net/http"

	"github.com/kataras/iris/v12"
)

func CreateInternalServerError(ctx iris.Context) {
	ctx.StatusCode(http.StatusInternalServerError)
	ctx.JSON(iris.Map{"success": false, "message": "Server error."})
}

func CreateNotFound(ctx iris.Context) {
	ctx.StatusCode(http.StatusNotFound)
	ctx.JSON(iris.Map{"success": false, "message": "Resource not found."})
}

func CreateForbidden(ctx iris.Context) {
	ctx.StatusCode(http.StatusForbidden)
	ctx.JSON(iris.Map{"success": false, "message": "Access denied."})
}

func CreateEmailAlreadyRegistered(ctx iris.Context) {
	ctx.StatusCode(http.StatusConflict)
	ctx.JSON(iris.Map{"success": false, "message": "Email already registered."})
}
