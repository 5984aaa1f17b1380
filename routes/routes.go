package routes

import (
	"backend/controllers"
	"backend/handlers"
	"backend/middleware"
	"backend/models"

	"github.com/gin-gonic/gin"
)

func InitializeRoutes(router *gin.Engine) {
	router.POST("/login", controllers.Login)
	router.Static("/uploads", "./uploads")

	// Customer-facing endpoints gated by the signed booking token.
	public := router.Group("/public")
	{
		public.GET("/bookings/:id", handlers.GetBookingByToken)
		public.POST("/bookings/:id/checkin", handlers.PublicCheckIn)
		public.GET("/bookings/:id/menu", handlers.PublicMenu)
		public.POST("/bookings/:id/orders", handlers.PublicPlaceOrder)
		public.GET("/bookings/:id/invoice", handlers.PublicInvoice)
	}

	// Door kiosks authenticate with their API key and check customers in by
	// scanned QR token.
	kiosk := router.Group("/kiosk")
	kiosk.Use(middleware.KioskAPIKeyMiddleware())
	{
		kiosk.POST("/checkin", controllers.KioskCheckIn)
	}

	admin := router.Group("/admin")
	admin.Use(middleware.AuthMiddleware(models.RoleAdmin))
	{
		admin.GET("/me", controllers.GetMe)
		admin.POST("/staff", controllers.CreateStaff)
		admin.GET("/staff", controllers.ListStaff)

		admin.POST("/desks", controllers.CreateDesk)
		admin.GET("/desks", controllers.ListDesks)
		admin.GET("/desks/:id", controllers.GetDesk)
		admin.PUT("/desks/:id", controllers.UpdateDesk)
		admin.PUT("/desks/:id/status", controllers.SetDeskStatus)

		admin.POST("/items", controllers.AddItem)
		admin.GET("/items", controllers.ListItems)
		admin.GET("/items/lowstock", controllers.ListLowStock)
		admin.GET("/items/:id", controllers.GetItem)
		admin.PUT("/items/:id", controllers.UpdateItem)
		admin.PUT("/items/:id/stock", controllers.AdjustStock)
		admin.PUT("/items/:id/photo", controllers.UploadItemPhoto)

		admin.POST("/bookings", controllers.CreateBooking)
		admin.GET("/bookings", controllers.ListBookings)
		admin.GET("/bookings/:id", controllers.GetBooking)
		admin.PUT("/bookings/:id/status", controllers.UpdateBookingStatus)
		admin.PUT("/bookings/:id/reschedule", controllers.RescheduleBooking)
		admin.DELETE("/bookings/:id", controllers.CancelBooking)

		admin.POST("/bookings/:id/orders", controllers.PlaceOrder)
		admin.GET("/orders", controllers.ListOrders)
		admin.GET("/orders/:id", controllers.GetOrder)
		admin.PUT("/orders/:id/status", controllers.UpdateOrderStatus)
		admin.DELETE("/orders/:id", controllers.DeleteOrder)

		admin.GET("/bookings/:id/invoice", controllers.GetInvoice)
		admin.PUT("/bookings/:id/pay", controllers.MarkPaid)
		admin.PUT("/bookings/:id/refund", controllers.RefundBooking)
		admin.POST("/bookings/:id/checkout", controllers.Checkout)

		admin.GET("/transactions", controllers.ListTransactions)
		admin.GET("/reports/summary", controllers.TransactionSummary)
		admin.GET("/reports/utilization", controllers.DeskUtilization)

		admin.POST("/kioskkeys", controllers.CreateKioskKey)
		admin.GET("/kioskkeys", controllers.ListKioskKeys)
		admin.DELETE("/kioskkeys/:id", controllers.RevokeKioskKey)
	}

	staff := router.Group("/staff")
	staff.Use(middleware.AuthMiddleware(models.RoleAdmin, models.RoleStaff))
	{
		staff.GET("/me", controllers.GetMe)

		staff.GET("/desks", controllers.ListDesks)
		staff.GET("/desks/:id", controllers.GetDesk)

		staff.GET("/items", controllers.ListItems)
		staff.GET("/items/lowstock", controllers.ListLowStock)
		staff.PUT("/items/:id/stock", controllers.AdjustStock)

		staff.POST("/bookings", controllers.CreateBooking)
		staff.GET("/bookings", controllers.ListBookings)
		staff.GET("/bookings/:id", controllers.GetBooking)
		staff.PUT("/bookings/:id/status", controllers.UpdateBookingStatus)

		staff.POST("/bookings/:id/orders", controllers.PlaceOrder)
		staff.GET("/orders", controllers.ListOrders)
		staff.GET("/orders/:id", controllers.GetOrder)
		staff.PUT("/orders/:id/status", controllers.UpdateOrderStatus)

		staff.GET("/bookings/:id/invoice", controllers.GetInvoice)
		staff.POST("/bookings/:id/checkout", controllers.Checkout)
	}
}
