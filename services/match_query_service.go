package services

import (
	"context"
	"fmt"
	"sort"

	"propmatch_server/models"
	"propmatch_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MatchQueryService assembles the paginated, role-filtered match listing.
// Sellers see matches on properties they own; buyers see their own
// non-rejected matches. Read-only: it adds no lifecycle invariants.
type MatchQueryService struct {
	Dynamo   *DynamoService
	Identity *IdentityService
}

// GetMatches resolves the requesting user's role, gathers their matches,
// joins property/buyer/seller summaries, applies the search filter, and
// returns one page sorted by creation time descending.
func (mq *MatchQueryService) GetMatches(
	ctx context.Context,
	userID string,
	page, limit int,
	filter *utils.MatchFilter,
) ([]models.MatchView, models.PaginationMeta, error) {
	kind, err := mq.Identity.ResolveUser(ctx, userID)
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var matches []models.Match
	switch kind {
	case UserKindBuyer:
		matches, err = mq.matchesForBuyer(ctx, userID)
	case UserKindSeller:
		matches, err = mq.matchesForSeller(ctx, userID)
	}
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}

	views := mq.joinViews(ctx, matches)
	if !filter.IsEmpty() {
		filtered := views[:0]
		for _, view := range views {
			if filter.Matches(view) {
				filtered = append(filtered, view)
			}
		}
		views = filtered
	}

	sort.Slice(views, func(i, j int) bool {
		return views[i].CreatedAt > views[j].CreatedAt
	})

	totalItems := len(views)
	totalPages := (totalItems + limit - 1) / limit
	meta := models.PaginationMeta{
		TotalItems: totalItems,
		TotalPages: totalPages,
		Page:       page,
		Limit:      limit,
	}

	start := (page - 1) * limit
	if start >= totalItems {
		return []models.MatchView{}, meta, nil
	}
	end := start + limit
	if end > totalItems {
		end = totalItems
	}
	return views[start:end], meta, nil
}

// matchesForBuyer returns the buyer's own matches, rejected ones excluded.
func (mq *MatchQueryService) matchesForBuyer(ctx context.Context, buyerID string) ([]models.Match, error) {
	items, err := mq.Dynamo.QueryItemsWithIndex(
		ctx,
		models.MatchesTable,
		models.MatchBuyerIndex,
		"buyerId = :buyerId",
		map[string]types.AttributeValue{
			":buyerId":  &types.AttributeValueMemberS{Value: buyerID},
			":rejected": &types.AttributeValueMemberS{Value: models.MatchStatusRejected},
		},
		map[string]string{"#status": "status"},
		"#status <> :rejected",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for buyer %s: %w", buyerID, err)
	}

	var matches []models.Match
	if err := attributevalue.UnmarshalListOfMaps(items, &matches); err != nil {
		return nil, fmt.Errorf("failed to unmarshal buyer matches: %w", err)
	}
	return matches, nil
}

// matchesForSeller returns every match on every property the seller owns.
func (mq *MatchQueryService) matchesForSeller(ctx context.Context, sellerID string) ([]models.Match, error) {
	propertyItems, err := mq.Dynamo.QueryItemsWithIndex(
		ctx,
		models.PropertiesTable,
		models.PropertySellerIndex,
		"sellerId = :sellerId",
		map[string]types.AttributeValue{
			":sellerId": &types.AttributeValueMemberS{Value: sellerID},
		},
		nil,
		"",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties for seller %s: %w", sellerID, err)
	}

	var properties []models.Property
	if err := attributevalue.UnmarshalListOfMaps(propertyItems, &properties); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seller properties: %w", err)
	}

	var matches []models.Match
	for _, property := range properties {
		items, err := mq.Dynamo.QueryItemsWithIndex(
			ctx,
			models.MatchesTable,
			models.MatchPropertyIndex,
			"propertyId = :propertyId",
			map[string]types.AttributeValue{
				":propertyId": &types.AttributeValueMemberS{Value: property.PropertyID},
			},
			nil,
			"",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to list matches for property %s: %w", property.PropertyID, err)
		}
		var propertyMatches []models.Match
		if err := attributevalue.UnmarshalListOfMaps(items, &propertyMatches); err != nil {
			return nil, fmt.Errorf("failed to unmarshal property matches: %w", err)
		}
		matches = append(matches, propertyMatches...)
	}
	return matches, nil
}

// joinViews enriches matches with property, buyer and seller summaries.
// Missing joined records leave nil slots rather than dropping the match.
func (mq *MatchQueryService) joinViews(ctx context.Context, matches []models.Match) []models.MatchView {
	propertyCache := map[string]*models.Property{}
	buyerCache := map[string]*models.Buyer{}
	sellerCache := map[string]*models.Seller{}

	views := make([]models.MatchView, 0, len(matches))
	for _, match := range matches {
		view := models.MatchView{Match: match}

		if property, ok := propertyCache[match.PropertyID]; ok {
			view.Property = property
		} else {
			property, err := mq.Identity.GetProperty(ctx, match.PropertyID)
			if err != nil {
				property = nil
			}
			propertyCache[match.PropertyID] = property
			view.Property = property
		}

		buyerID := match.MatchLikedBy.BuyerID
		if buyer, ok := buyerCache[buyerID]; ok {
			view.Buyer = buyer
		} else {
			buyer, err := mq.Identity.GetBuyer(ctx, buyerID)
			if err != nil {
				buyer = nil
			}
			buyerCache[buyerID] = buyer
			view.Buyer = buyer
		}

		if view.Property != nil {
			if seller, ok := sellerCache[view.Property.SellerID]; ok {
				view.Seller = seller
			} else {
				seller, err := mq.Identity.GetSeller(ctx, view.Property.SellerID)
				if err != nil {
					seller = nil
				}
				sellerCache[view.Property.SellerID] = seller
				view.Seller = seller
			}
		}

		views = append(views, view)
	}
	return views
}
