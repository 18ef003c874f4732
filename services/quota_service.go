package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"propmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// QuotaService is the admission-control gate for every match-affecting
// action. All consumption goes through a single conditional update on the
// user's subscription record, so concurrent callers can never over-spend a
// counter: the store grants at most the available quantity in total.
type QuotaService struct {
	Dynamo *DynamoService
}

// SwipeGrant is one subscription's share of a replenishment run.
type SwipeGrant struct {
	UserID    string
	Increment int
}

// TryConsume atomically decrements a quota counter on the user's active
// subscription, conditioned on the counter still holding at least amount at
// write time. Returns the updated subscription on success and
// ErrQuotaExhausted when no matching record exists, whether because the
// subscription is not active or the counter is already spent. No partial
// decrement ever occurs.
func (qs *QuotaService) TryConsume(ctx context.Context, userID string, field models.QuotaField, amount int) (*models.Subscription, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("invalid consume amount %d", amount)
	}

	key := map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
	updateExpression := "SET planRestrictions.#field = planRestrictions.#field - :amount"
	conditionExpression := "#status = :active AND planRestrictions.#field >= :amount"
	expressionAttributeNames := map[string]string{
		"#field":  string(field),
		"#status": "status",
	}
	expressionAttributeValues := map[string]types.AttributeValue{
		":amount": &types.AttributeValueMemberN{Value: strconv.Itoa(amount)},
		":active": &types.AttributeValueMemberS{Value: models.SubscriptionStatusActive},
	}

	attrs, err := qs.Dynamo.UpdateItemWithCondition(
		ctx,
		models.SubscriptionsTable,
		key,
		updateExpression,
		conditionExpression,
		expressionAttributeValues,
		expressionAttributeNames,
	)
	if err != nil {
		if errors.Is(err, ErrConditionFailed) {
			return nil, fmt.Errorf("user %s has no %s remaining: %w", userID, field, ErrQuotaExhausted)
		}
		return nil, fmt.Errorf("failed to consume %s for user %s: %w", field, userID, err)
	}

	var subscription models.Subscription
	if err := attributevalue.UnmarshalMap(attrs, &subscription); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subscription for user %s: %w", userID, err)
	}
	return &subscription, nil
}

// ReplenishSwipes submits one transactional write incrementing the swipe
// counter of every granted subscription, each increment still conditioned on
// the subscription being active. The submission is all-or-nothing: if it
// fails, no counter moved and the caller decides when to try again.
func (qs *QuotaService) ReplenishSwipes(ctx context.Context, grants []SwipeGrant) error {
	if len(grants) == 0 {
		return nil
	}

	updates := make([]types.TransactWriteItem, 0, len(grants))
	for _, grant := range grants {
		updates = append(updates, types.TransactWriteItem{
			Update: &types.Update{
				TableName: aws.String(models.SubscriptionsTable),
				Key: map[string]types.AttributeValue{
					"userId": &types.AttributeValueMemberS{Value: grant.UserID},
				},
				UpdateExpression:    aws.String("SET planRestrictions.numberOfSwipes = planRestrictions.numberOfSwipes + :inc"),
				ConditionExpression: aws.String("#status = :active"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":inc":    &types.AttributeValueMemberN{Value: strconv.Itoa(grant.Increment)},
					":active": &types.AttributeValueMemberS{Value: models.SubscriptionStatusActive},
				},
			},
		})
	}

	if err := qs.Dynamo.TransactUpdateItems(ctx, updates); err != nil {
		return fmt.Errorf("failed to replenish swipes for %d subscriptions: %w", len(grants), err)
	}
	return nil
}
