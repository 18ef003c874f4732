package routes

import (
	"propmatch_server/controllers"
	"propmatch_server/services"

	"github.com/gorilla/mux"
)

// RegisterMatchRoutes sets up routes for match operations under /api/match
func RegisterMatchRoutes(r *mux.Router, matchService *services.MatchService, queryService *services.MatchQueryService) {
	controller := controllers.NewMatchController(matchService, queryService)

	matchRouter := r.PathPrefix("/api/match").Subrouter()

	matchRouter.HandleFunc("/{buyerId}/match-property/{propertyId}", controller.HandleRequestMatch).Methods("POST")
	matchRouter.HandleFunc("/{userId}/get-matches", controller.HandleGetMatches).Methods("GET")
	matchRouter.HandleFunc("/{userId}/accept-matches/{matchId}", controller.HandleAcceptMatch).Methods("PATCH")
	matchRouter.HandleFunc("/{userId}/reject-matches/{propertyId}", controller.HandleRejectMatch).Methods("PATCH")
}
