package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"propmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// MatchService owns the match lifecycle: request, accept, reject. Every
// consuming transition goes through the quota gate before the match record
// is written; a gate failure aborts the whole action with nothing persisted.
// The quota decrement and the match write remain two separate store writes.
type MatchService struct {
	Dynamo   *DynamoService
	Identity *IdentityService
	Quota    *QuotaService
}

// GetMatch retrieves a match by id. Returns ErrNotFound if absent.
func (ms *MatchService) GetMatch(ctx context.Context, matchID string) (*models.Match, error) {
	item, err := ms.Dynamo.GetItem(ctx, models.MatchesTable, map[string]types.AttributeValue{
		"matchId": &types.AttributeValueMemberS{Value: matchID},
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
		}
		return nil, err
	}
	var match models.Match
	if err := attributevalue.UnmarshalMap(item, &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match %s: %w", matchID, err)
	}
	return &match, nil
}

// FindMatchByPropertyAndBuyer looks up the unique match record for a
// (property, buyer) pair. Returns nil without error when no record exists.
func (ms *MatchService) FindMatchByPropertyAndBuyer(ctx context.Context, propertyID, buyerID string) (*models.Match, error) {
	items, err := ms.Dynamo.QueryItemsWithIndex(
		ctx,
		models.MatchesTable,
		models.MatchPropertyIndex,
		"propertyId = :propertyId",
		map[string]types.AttributeValue{
			":propertyId": &types.AttributeValueMemberS{Value: propertyID},
			":buyerId":    &types.AttributeValueMemberS{Value: buyerID},
		},
		nil,
		"buyerId = :buyerId",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up match for property %s: %w", propertyID, err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(items[0], &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match for property %s: %w", propertyID, err)
	}
	return &match, nil
}

// RequestMatch handles a buyer swiping right on a property. One swipe is
// consumed from the buyer's quota before the Requested match is created.
func (ms *MatchService) RequestMatch(ctx context.Context, buyerID, propertyID string) (*models.Match, error) {
	if _, err := ms.Identity.GetBuyer(ctx, buyerID); err != nil {
		return nil, err
	}
	if _, err := ms.Identity.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	existing, err := ms.FindMatchByPropertyAndBuyer(ctx, propertyID, buyerID)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.MatchLikedBy.BuyerID != "" {
		return nil, fmt.Errorf("match already requested for property %s: %w", propertyID, ErrConflict)
	}

	if _, err := ms.Quota.TryConsume(ctx, buyerID, models.QuotaSwipes, 1); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	match := models.Match{
		MatchID:    uuid.NewString(),
		PropertyID: propertyID,
		BuyerID:    buyerID,
		MatchLikedBy: models.MatchLikedBy{
			BuyerID: buyerID,
			LikedAt: now,
		},
		Status:    models.MatchStatusRequested,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := ms.Dynamo.PutItem(ctx, models.MatchesTable, match); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return &match, nil
}

// AcceptMatch handles a seller accepting a buyer's outstanding request. The
// match pack is charged against the requesting buyer, not the seller: the
// buyer's allotment bounds how many sellers may accept their requests.
// Matched and Rejected are terminal, so a second accept conflicts before any
// quota is touched and the buyer is never double-charged.
func (ms *MatchService) AcceptMatch(ctx context.Context, sellerID, matchID string) (*models.Match, error) {
	if _, err := ms.Identity.GetSeller(ctx, sellerID); err != nil {
		return nil, err
	}

	match, err := ms.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchStatusRequested {
		return nil, fmt.Errorf("match %s is already %s: %w", matchID, match.Status, ErrConflict)
	}

	if _, err := ms.Quota.TryConsume(ctx, match.MatchLikedBy.BuyerID, models.QuotaMatchPacks, 1); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	match.MatchAcceptedBy = &models.MatchAcceptedBy{
		SellerID: sellerID,
		LikedAt:  now,
	}
	match.Status = models.MatchStatusMatched
	match.UpdatedAt = now
	if err := ms.Dynamo.PutItem(ctx, models.MatchesTable, *match); err != nil {
		return nil, fmt.Errorf("failed to accept match %s: %w", matchID, err)
	}
	return match, nil
}

// RejectMatch handles a buyer swiping left on a property. One swipe is
// consumed whether or not a prior request exists; without one, the match is
// created directly in the Rejected state.
func (ms *MatchService) RejectMatch(ctx context.Context, buyerID, propertyID string) (*models.Match, error) {
	if _, err := ms.Identity.GetBuyer(ctx, buyerID); err != nil {
		return nil, err
	}
	if _, err := ms.Identity.GetProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	if _, err := ms.Quota.TryConsume(ctx, buyerID, models.QuotaSwipes, 1); err != nil {
		return nil, err
	}

	now := time.Now().UTC().Format(time.RFC3339)

	match, err := ms.FindMatchByPropertyAndBuyer(ctx, propertyID, buyerID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		match = &models.Match{
			MatchID:    uuid.NewString(),
			PropertyID: propertyID,
			BuyerID:    buyerID,
			// Liked timestamp stays empty: the buyer never requested.
			MatchLikedBy: models.MatchLikedBy{BuyerID: buyerID},
			Status:       models.MatchStatusRejected,
			RejectedBy: &models.RejectedBy{
				BuyerID:    buyerID,
				RejectedAt: now,
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
	} else {
		if match.Status == models.MatchStatusRejected {
			return nil, fmt.Errorf("property %s already rejected: %w", propertyID, ErrConflict)
		}
		match.Status = models.MatchStatusRejected
		match.RejectedBy = &models.RejectedBy{
			BuyerID:    buyerID,
			RejectedAt: now,
		}
		match.UpdatedAt = now
	}

	if err := ms.Dynamo.PutItem(ctx, models.MatchesTable, *match); err != nil {
		return nil, fmt.Errorf("failed to reject property %s: %w", propertyID, err)
	}
	return match, nil
}
