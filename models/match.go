package models

// Match statuses. Matched and Rejected are terminal.
const (
	MatchStatusRequested = "Requested"
	MatchStatusMatched   = "Matched"
	MatchStatusRejected  = "Rejected"
)

// MatchLikedBy records the buyer who swiped on the property.
// LikedAt stays empty on the reject-without-request path.
type MatchLikedBy struct {
	BuyerID string `dynamodbav:"buyerId" json:"buyerId"`
	LikedAt string `dynamodbav:"likedAt,omitempty" json:"likedAt,omitempty"`
}

// MatchAcceptedBy records the seller who accepted the request.
type MatchAcceptedBy struct {
	SellerID string `dynamodbav:"sellerId" json:"sellerId"`
	LikedAt  string `dynamodbav:"likedAt" json:"likedAt"`
}

// RejectedBy records the buyer who rejected the property.
type RejectedBy struct {
	BuyerID    string `dynamodbav:"buyerId" json:"buyerId"`
	RejectedAt string `dynamodbav:"rejectedAt" json:"rejectedAt"`
}

// Match is the central entity: one record per (property, requesting buyer).
// PropertyID and BuyerID are kept top-level so the GSIs can key on them;
// BuyerID always mirrors MatchLikedBy.BuyerID.
type Match struct {
	MatchID         string           `dynamodbav:"matchId" json:"matchId"`
	PropertyID      string           `dynamodbav:"propertyId" json:"propertyId"`
	BuyerID         string           `dynamodbav:"buyerId" json:"buyerId"`
	MatchLikedBy    MatchLikedBy     `dynamodbav:"matchLikedBy" json:"matchLikedBy"`
	MatchAcceptedBy *MatchAcceptedBy `dynamodbav:"matchAcceptedBy,omitempty" json:"matchAcceptedBy"`
	RejectedBy      *RejectedBy      `dynamodbav:"rejectedBy,omitempty" json:"rejectedBy"`
	Status          string           `dynamodbav:"status" json:"status"`
	CreatedAt       string           `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt       string           `dynamodbav:"updatedAt" json:"updatedAt"`
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"

// GSIs on the Matches table
const (
	MatchPropertyIndex = "propertyId-index"
	MatchBuyerIndex    = "buyerId-index"
)
