package utils

import (
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// UserIDFromTokenMiddleware extracts the user ID from the verified JWT and
// stores it in the request context for downstream handlers.
func UserIDFromTokenMiddleware(ctx iris.Context) {
	claims := jwt.Get(ctx).(*AccessToken)
	ctx.Values().Set("userID", claims.ID)
	ctx.Values().Set("userRole", claims.Role)
	ctx.Next()
}

// RequireRole gates a route group to one role (landlord or tenant).
func RequireRole(role string) iris.Handler {
	return func(ctx iris.Context) {
		claims := jwt.Get(ctx).(*AccessToken)
		if claims.Role != role {
			ctx.StatusCode(iris.StatusForbidden)
			ctx.JSON(iris.Map{"success": false, "message": "Access denied: " + role + " role required."})
			return
		}
		ctx.Values().Set("userID", claims.ID)
		ctx.Values().Set("userRole", claims.Role)
		ctx.Next()
	}
}
