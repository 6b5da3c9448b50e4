package routes

import (
	"tripwallet/auth"
	"tripwallet/itinerary"
	"tripwallet/livefeed"
	"tripwallet/middleware"
	"tripwallet/ratelim"
	"tripwallet/syncer"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.POST("/api/auth/anonymous", rateLimiter.Limit(auth.Anonymous))
	router.POST("/api/auth/register", rateLimiter.Limit(auth.Register))
	router.POST("/api/auth/login", rateLimiter.Limit(auth.Login))
	router.POST("/api/auth/logout", auth.LogoutUser)
	router.POST("/api/auth/token/refresh", auth.RefreshToken)
}

func AddItineraryRoutes(router *httprouter.Router, rateLimiter *ratelim.RateLimiter) {
	router.GET("/api/itinerary/items", middleware.Authenticate(itinerary.GetItineraryItems))
	router.POST("/api/itinerary/items", rateLimiter.Limit(middleware.Authenticate(itinerary.CreateItineraryItem)))
	router.PUT("/api/itinerary/items/:id", rateLimiter.Limit(middleware.Authenticate(itinerary.UpdateItineraryItem)))
	router.DELETE("/api/itinerary/items/:id", rateLimiter.Limit(middleware.Authenticate(itinerary.DeleteItineraryItem)))
	router.GET("/api/itinerary/items/:id/calendar", middleware.Authenticate(itinerary.GetItemCalendarLink))
	router.POST("/api/itinerary/publish", rateLimiter.Limit(middleware.Authenticate(itinerary.PublishItinerary)))
	router.GET("/api/itinerary/print", middleware.Authenticate(itinerary.PrintItinerary))

	// shared snapshots are public: the id is the only credential. OptionalAuth
	// lets an authenticated owner see their own snapshot flagged as theirs.
	router.GET("/api/itinerary/shared/:id", middleware.OptionalAuth(itinerary.GetSharedItinerary))
	router.GET("/api/itinerary/shared/:id/qr", itinerary.SharedItineraryQR)
	router.GET("/api/itinerary/shared/:id/print", itinerary.PrintSharedItinerary)
}

func AddLiveRoutes(router *httprouter.Router, st syncer.Store) {
	router.GET("/ws/itinerary", livefeed.ItineraryFeed(st))
}
