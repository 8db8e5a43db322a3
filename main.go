package main

import (
	"log"
	"os"

	"github.com/bhumi3292/DreamDwell-web/routes"
	"github.com/bhumi3292/DreamDwell-web/storage"
	"github.com/bhumi3292/DreamDwell-web/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the SPA (http://localhost:3000)
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	app.Get("/", func(ctx iris.Context) {
		ctx.WriteString("DreamDwell backend running...")
	})

	auth := app.Party("/api/auth")
	{
		auth.Post("/register", routes.Register)
		auth.Post("/login", routes.Login)
		auth.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
	}

	landlordOnly := utils.RequireRole("landlord")
	tenantOnly := utils.RequireRole("tenant")

	calendar := app.Party("/api/calendar", accessTokenVerifierMiddleware)
	{
		calendar.Post("/availabilities", landlordOnly, routes.CreateAvailability)
		calendar.Get("/landlord/availabilities", landlordOnly, routes.GetLandlordAvailabilities)
		calendar.Put("/availabilities/{id:uint}", landlordOnly, routes.UpdateAvailability)
		calendar.Delete("/availabilities/{id:uint}", landlordOnly, routes.DeleteAvailability)

		calendar.Get("/properties/{id:uint}/available-slots", tenantOnly, routes.GetAvailableSlotsForProperty)
		calendar.Post("/book-visit", tenantOnly, routes.BookVisit)
		calendar.Get("/tenant/bookings", tenantOnly, routes.GetTenantBookings)

		calendar.Get("/landlord/bookings", landlordOnly, routes.GetLandlordBookings)
		calendar.Put("/bookings/{id:uint}/status", landlordOnly, routes.UpdateBookingStatus)
		calendar.Delete("/bookings/{id:uint}", utils.UserIDFromTokenMiddleware, routes.DeleteBooking)
	}

	chats := app.Party("/api/chats", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
	{
		chats.Post("/create-or-get", routes.CreateOrGetChat)
		chats.Get("/", routes.GetMyChats)
		chats.Get("/ws", routes.ChatWebSocket)
		chats.Get("/{id:uint}", routes.GetChatByID)
		chats.Get("/{id:uint}/messages", routes.GetChatMessages)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}

	log.Println("🏠 DreamDwell server listening on :" + port)
	app.Listen(":" + port)
}
