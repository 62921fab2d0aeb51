package routes

import (
	"net/http"

	"cancha/auth"
	"cancha/availability"
	"cancha/booking"
	"cancha/matches"
	"cancha/middleware"
	"cancha/pay"
	"cancha/prices"
	"cancha/ratelim"
	"cancha/receipts"
	"cancha/slots"
	"cancha/venues"
	"cancha/weekly"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/venuepic/*filepath", http.Dir("static/venuepic"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", ratelim.RateLimit(auth.Register))
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
}

func AddVenueRoutes(router *httprouter.Router) {
	router.GET("/api/venues", ratelim.RateLimit(venues.ListVenues))
	router.GET("/api/venues/:id", venues.GetVenue)
	router.POST("/api/venues", middleware.Authenticate(venues.CreateVenue))
	router.PUT("/api/venues/:id", middleware.Authenticate(venues.UpdateVenue))
	router.PUT("/api/venues/:id/photo", middleware.Authenticate(venues.UploadVenuePhoto))

	router.GET("/api/venues/:id/fields", venues.ListFields)
	router.POST("/api/venues/:id/fields", middleware.Authenticate(venues.CreateField))
	router.DELETE("/api/fields/:fieldid", middleware.Authenticate(venues.DeactivateField))
}

func AddSlotRoutes(router *httprouter.Router) {
	router.GET("/api/slots", slots.ListSlots)
	router.POST("/api/slots", middleware.Authenticate(slots.CreateSlot))
	router.DELETE("/api/slots/:id", middleware.Authenticate(slots.DeactivateSlot))
}

func AddPriceRoutes(router *httprouter.Router) {
	router.POST("/api/prices", middleware.Authenticate(prices.SetPrice))
	router.POST("/api/prices/bulk", middleware.Authenticate(prices.BulkPricing))
	router.GET("/api/fields/:fieldid/prices", prices.ListFieldPrices)
}

func AddAvailabilityRoutes(router *httprouter.Router) {
	router.GET("/api/fields/:fieldid/availability/:date", ratelim.RateLimit(availability.GetFieldAvailability))
	router.GET("/api/fields/:fieldid/week", ratelim.RateLimit(weekly.GetWeek))
	router.GET("/api/fields/:fieldid/updates/:date", booking.HandleWS)
}

func AddBookingRoutes(router *httprouter.Router) {
	router.GET("/api/fields/:fieldid/bookings", middleware.Authenticate(booking.ListBookings))
	router.PUT("/api/bookings/:id/state", middleware.Authenticate(booking.UpdateBookingState))
	router.POST("/api/bookings/block", middleware.Authenticate(booking.CreateBlockHandler))
}

func AddMatchRoutes(router *httprouter.Router) {
	router.POST("/api/matches", ratelim.RateLimit(middleware.Authenticate(matches.CreateMatch)))
	router.GET("/api/matches", middleware.Authenticate(matches.ListMatches))
	router.GET("/api/matches/:id", matches.GetMatch)
	router.POST("/api/matches/:id/cancel", middleware.Authenticate(matches.CancelMatch))
	router.POST("/api/matches/:id/complete", middleware.Authenticate(matches.CompleteMatch))
	router.DELETE("/api/matches/:id", middleware.Authenticate(matches.DeleteMatchHandler))

	router.POST("/api/matches/:id/players", middleware.Authenticate(matches.AddPlayer))
	router.DELETE("/api/matches/:id/players/:playerid", middleware.Authenticate(matches.RemovePlayer))

	router.GET("/api/matches/:id/receipt", middleware.Authenticate(receipts.PrintReceipt))
}

func AddPaymentRoutes(router *httprouter.Router) {
	router.POST("/api/matches/:id/payment-intent", ratelim.RateLimit(middleware.Authenticate(pay.CreatePaymentIntent)))
	router.POST("/api/matches/:id/payment-callback", pay.PaymentCallback)
	router.GET("/api/matches/:id/payment", middleware.Authenticate(pay.GetPaymentStatus))
}
