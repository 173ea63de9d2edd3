package router

import (
	"github.com/labstack/echo/v4"

	"helperhive/internal/adapter/api/handler"
)

func SetupBookingRouter(e *echo.Echo, mw Middlewares) {
	bookingHandler := handler.GetBookingHandler()
	reviewHandler := handler.GetReviewHandler()

	bookings := authenticated(e, "/v1/bookings", mw)
	bookings.POST("", bookingHandler.CreateBooking)
	bookings.GET("", bookingHandler.ListBookings)
	bookings.GET("/:bookingId", bookingHandler.GetBooking)
	bookings.GET("/:bookingId/review-eligibility", bookingHandler.ReviewEligibility)
	bookings.POST("/:bookingId/review", reviewHandler.SubmitReview)
	bookings.POST("/:bookingId/:action", bookingHandler.Transition)
}
