package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/clayworks/internal/config"
	"github.com/example/clayworks/internal/handlers"
	"github.com/example/clayworks/internal/middleware"
	"github.com/example/clayworks/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	mailer := services.NewMailer(cfg)
	otpService := services.NewOtpService(db, mailer)
	paymentVerifier := services.NewPaymentVerifier(cfg.PaymentKeySecret)
	orderService := services.NewOrderService(db, otpService, paymentVerifier, mailer)
	workshopService := services.NewWorkshopService(db, paymentVerifier, mailer)

	authHandler := handlers.NewAuthHandler(db, cfg, otpService)
	catalogHandler := handlers.NewCatalogHandler(db)
	productHandler := handlers.NewProductHandler(db)
	orderHandler := handlers.NewOrderHandler(db, orderService)
	workshopHandler := handlers.NewWorkshopHandler(db, workshopService)
	contentHandler := handlers.NewContentHandler(db)
	profileHandler := handlers.NewProfileHandler(db)
	paymentHandler := handlers.NewPaymentHandler(cfg)
	adminHandler := handlers.NewAdminHandler(db)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/verify-register", authHandler.VerifyRegister)
	auth.Post("/login", authHandler.Login)
	auth.Post("/req-otp", authHandler.RequestOtp)
	auth.Post("/forgot-password", authHandler.ForgotPassword)
	auth.Post("/reset-password", authHandler.ResetPassword)

	// Public catalog
	api.Get("/categories", catalogHandler.ListCategories)
	api.Get("/categories/:id", catalogHandler.GetCategory)
	api.Get("/products", productHandler.ListProducts)
	api.Get("/products/:id", productHandler.GetProduct)

	// Public workshops. The fixed paths must be registered before the
	// parameterized one or fiber would route them to GetWorkshop.
	api.Get("/workshops", workshopHandler.ListWorkshops)
	api.Get("/workshops/my-registrations", middleware.AuthMiddleware(cfg), workshopHandler.ListMyRegistrations)
	api.Get("/workshops/registrations", middleware.AuthMiddleware(cfg), middleware.RequireAdmin(), workshopHandler.ListAllRegistrations)
	api.Get("/workshops/:id", workshopHandler.GetWorkshop)

	// Payment gateway bootstrap for the checkout widget
	api.Get("/payments/config", paymentHandler.GatewayConfig)

	// Checkout and cancellation are OTP-gated, so guests may call them;
	// a token only matters for the admin cancellation bypass.
	api.Post("/buy", orderHandler.Buy)
	api.Post("/orders/:id/cancel", middleware.OptionalAuth(cfg), orderHandler.Cancel)

	// Public content
	api.Get("/news", contentHandler.ListNews)
	api.Get("/testimonials", contentHandler.ListTestimonials)
	api.Post("/corporate-inquiries", contentHandler.CreateCorporateInquiry)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/orders/my", orderHandler.ListMyOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)

	protected.Post("/workshops/register", workshopHandler.Register)
	protected.Post("/workshops/cancel", workshopHandler.CancelRegistration)

	protected.Get("/profile", profileHandler.GetProfile)
	protected.Put("/profile", profileHandler.UpdateProfile)

	// Admin routes
	admin := protected.Group("", middleware.RequireAdmin())

	admin.Post("/categories", catalogHandler.CreateCategory)
	admin.Put("/categories/:id", catalogHandler.UpdateCategory)
	admin.Delete("/categories/:id", catalogHandler.DeleteCategory)

	admin.Post("/products", productHandler.CreateProduct)
	admin.Put("/products/:id", productHandler.UpdateProduct)
	admin.Delete("/products/:id", productHandler.DeleteProduct)

	admin.Post("/workshops", workshopHandler.CreateWorkshop)
	admin.Put("/workshops/:id", workshopHandler.UpdateWorkshop)
	admin.Delete("/workshops/:id", workshopHandler.DeleteWorkshop)

	admin.Get("/orders", orderHandler.ListAllOrders)
	admin.Put("/orders/:id/tracking", orderHandler.UpdateTracking)

	admin.Post("/news", contentHandler.CreateNews)
	admin.Delete("/news/:id", contentHandler.DeleteNews)
	admin.Post("/testimonials", contentHandler.CreateTestimonial)
	admin.Delete("/testimonials/:id", contentHandler.DeleteTestimonial)
	admin.Get("/corporate-inquiries", contentHandler.ListCorporateInquiries)
	admin.Delete("/corporate-inquiries/:id", contentHandler.DeleteCorporateInquiry)

	admin.Get("/admin/dashboard", adminHandler.DashboardStats)
	admin.Get("/admin/recent-orders", adminHandler.RecentOrders)
	admin.Get("/admin/users", adminHandler.ListAllUsers)
}
