package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"propmatch_server/services"
	"propmatch_server/utils"

	"github.com/gorilla/mux"
)

// MatchController handles HTTP requests for the match lifecycle and listing
type MatchController struct {
	MatchService *services.MatchService
	QueryService *services.MatchQueryService
}

// NewMatchController creates a new MatchController instance
func NewMatchController(matchService *services.MatchService, queryService *services.MatchQueryService) *MatchController {
	return &MatchController{MatchService: matchService, QueryService: queryService}
}

// HandleRequestMatch handles a buyer requesting a match on a property
func (mc *MatchController) HandleRequestMatch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	buyerID := vars["buyerId"]
	propertyID := vars["propertyId"]

	if _, err := mc.MatchService.RequestMatch(r.Context(), buyerID, propertyID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Match Request Sent Successfully",
	})
}

// HandleGetMatches handles the paginated, role-filtered match listing
func (mc *MatchController) HandleGetMatches(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID := vars["userId"]

	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	filter := utils.ParseSearchFilter(query)

	matches, meta, err := mc.QueryService.GetMatches(r.Context(), userID, page, limit, filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"meta":    meta,
	})
}

// HandleAcceptMatch handles a seller accepting an outstanding match request
func (mc *MatchController) HandleAcceptMatch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sellerID := vars["userId"]
	matchID := vars["matchId"]

	if _, err := mc.MatchService.AcceptMatch(r.Context(), sellerID, matchID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Match Accepted Successfully",
	})
}

// HandleRejectMatch handles a buyer rejecting a property
func (mc *MatchController) HandleRejectMatch(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	buyerID := vars["userId"]
	propertyID := vars["propertyId"]

	if _, err := mc.MatchService.RejectMatch(r.Context(), buyerID, propertyID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Property rejected successfully",
	})
}

// respondJSON writes a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// respondError maps service errors onto HTTP statuses: missing entities are
// 404, quota and conflict failures are 400, everything else is a 500 with
// the detail kept out of the response.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondJSON(w, http.StatusNotFound, map[string]interface{}{"message": err.Error()})
	case errors.Is(err, services.ErrQuotaExhausted), errors.Is(err, services.ErrConflict):
		respondJSON(w, http.StatusBadRequest, map[string]interface{}{"message": err.Error()})
	default:
		log.Printf("Internal error: %v", err)
		respondJSON(w, http.StatusInternalServerError, map[string]interface{}{"message": "Internal server error"})
	}
}
