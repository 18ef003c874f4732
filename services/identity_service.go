package services

import (
	"context"
	"errors"
	"fmt"

	"propmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// UserKind discriminates the role a user id resolves to.
type UserKind string

const (
	UserKindBuyer  UserKind = "buyer"
	UserKindSeller UserKind = "seller"
)

// IdentityService resolves user ids into a concrete role and serves the
// existence lookups every match operation starts with.
type IdentityService struct {
	Dynamo *DynamoService
}

// GetBuyer fetches a buyer record. Returns ErrNotFound if absent.
func (is *IdentityService) GetBuyer(ctx context.Context, buyerID string) (*models.Buyer, error) {
	item, err := is.Dynamo.GetItem(ctx, models.BuyersTable, map[string]types.AttributeValue{
		"buyerId": &types.AttributeValueMemberS{Value: buyerID},
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, fmt.Errorf("buyer %s: %w", buyerID, ErrNotFound)
		}
		return nil, err
	}
	var buyer models.Buyer
	if err := attributevalue.UnmarshalMap(item, &buyer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal buyer %s: %w", buyerID, err)
	}
	return &buyer, nil
}

// GetSeller fetches a seller record. Returns ErrNotFound if absent.
func (is *IdentityService) GetSeller(ctx context.Context, sellerID string) (*models.Seller, error) {
	item, err := is.Dynamo.GetItem(ctx, models.SellersTable, map[string]types.AttributeValue{
		"sellerId": &types.AttributeValueMemberS{Value: sellerID},
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, fmt.Errorf("seller %s: %w", sellerID, ErrNotFound)
		}
		return nil, err
	}
	var seller models.Seller
	if err := attributevalue.UnmarshalMap(item, &seller); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seller %s: %w", sellerID, err)
	}
	return &seller, nil
}

// GetProperty fetches a property listing. Returns ErrNotFound if absent.
func (is *IdentityService) GetProperty(ctx context.Context, propertyID string) (*models.Property, error) {
	item, err := is.Dynamo.GetItem(ctx, models.PropertiesTable, map[string]types.AttributeValue{
		"propertyId": &types.AttributeValueMemberS{Value: propertyID},
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, fmt.Errorf("property %s: %w", propertyID, ErrNotFound)
		}
		return nil, err
	}
	var property models.Property
	if err := attributevalue.UnmarshalMap(item, &property); err != nil {
		return nil, fmt.Errorf("failed to unmarshal property %s: %w", propertyID, err)
	}
	return &property, nil
}

// ResolveUser determines whether a user id belongs to a buyer or a seller.
// Returns ErrNotFound when the id matches neither.
func (is *IdentityService) ResolveUser(ctx context.Context, userID string) (UserKind, error) {
	if _, err := is.GetBuyer(ctx, userID); err == nil {
		return UserKindBuyer, nil
	} else if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	if _, err := is.GetSeller(ctx, userID); err == nil {
		return UserKindSeller, nil
	} else if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	return "", fmt.Errorf("user %s: %w", userID, ErrNotFound)
}
