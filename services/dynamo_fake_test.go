package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"propmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// fakeDynamoClient implements DynamoAPI with overridable function fields.
type fakeDynamoClient struct {
	GetItemFunc            func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItemFunc            func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItemFunc         func(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	QueryFunc              func(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	ScanFunc               func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItemsFunc func(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

func (f *fakeDynamoClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.GetItemFunc == nil {
		return nil, errors.New("unexpected GetItem call")
	}
	return f.GetItemFunc(ctx, params, optFns...)
}

func (f *fakeDynamoClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.PutItemFunc == nil {
		return nil, errors.New("unexpected PutItem call")
	}
	return f.PutItemFunc(ctx, params, optFns...)
}

func (f *fakeDynamoClient) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	if f.UpdateItemFunc == nil {
		return nil, errors.New("unexpected UpdateItem call")
	}
	return f.UpdateItemFunc(ctx, params, optFns...)
}

func (f *fakeDynamoClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	if f.QueryFunc == nil {
		return nil, errors.New("unexpected Query call")
	}
	return f.QueryFunc(ctx, params, optFns...)
}

func (f *fakeDynamoClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if f.ScanFunc == nil {
		return nil, errors.New("unexpected Scan call")
	}
	return f.ScanFunc(ctx, params, optFns...)
}

func (f *fakeDynamoClient) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	if f.TransactWriteItemsFunc == nil {
		return nil, errors.New("unexpected TransactWriteItems call")
	}
	return f.TransactWriteItemsFunc(ctx, params, optFns...)
}

// fixture is an in-memory stand-in for the tables this service touches. It
// honors the same conditional-update semantics the real store provides, so
// quota races behave like production.
type fixture struct {
	mu sync.Mutex

	buyers        map[string]models.Buyer
	sellers       map[string]models.Seller
	properties    map[string]models.Property
	plans         map[string]models.Plan
	subscriptions map[string]*models.Subscription
	matches       map[string]models.Match

	transactCalls int
	transactErr   error
}

func newFixture() *fixture {
	return &fixture{
		buyers:        map[string]models.Buyer{},
		sellers:       map[string]models.Seller{},
		properties:    map[string]models.Property{},
		plans:         map[string]models.Plan{},
		subscriptions: map[string]*models.Subscription{},
		matches:       map[string]models.Match{},
	}
}

func (f *fixture) dynamo() *DynamoService {
	return &DynamoService{Client: f.client()}
}

func (f *fixture) matchService() *MatchService {
	ds := f.dynamo()
	return &MatchService{
		Dynamo:   ds,
		Identity: &IdentityService{Dynamo: ds},
		Quota:    &QuotaService{Dynamo: ds},
	}
}

func (f *fixture) queryService() *MatchQueryService {
	ds := f.dynamo()
	return &MatchQueryService{
		Dynamo:   ds,
		Identity: &IdentityService{Dynamo: ds},
	}
}

func (f *fixture) addActiveSubscription(userID string, swipes, matchPacks int) {
	f.subscriptions[userID] = &models.Subscription{
		UserID: userID,
		PlanID: "plan-" + userID,
		Status: models.SubscriptionStatusActive,
		PlanRestrictions: models.PlanRestrictions{
			NumberOfSwipes: swipes,
			MaxMatchPacks:  matchPacks,
		},
	}
}

func (f *fixture) client() *fakeDynamoClient {
	return &fakeDynamoClient{
		GetItemFunc:            f.getItem,
		PutItemFunc:            f.putItem,
		UpdateItemFunc:         f.updateItem,
		QueryFunc:              f.query,
		ScanFunc:               f.scan,
		TransactWriteItemsFunc: f.transactWriteItems,
	}
}

func mustMarshal(item interface{}) map[string]types.AttributeValue {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		panic(err)
	}
	return marshaled
}

func stringValue(attrs map[string]types.AttributeValue, key string) string {
	if attr, ok := attrs[key].(*types.AttributeValueMemberS); ok {
		return attr.Value
	}
	return ""
}

func numberValue(attrs map[string]types.AttributeValue, key string) int {
	if attr, ok := attrs[key].(*types.AttributeValueMemberN); ok {
		n, _ := strconv.Atoi(attr.Value)
		return n
	}
	return 0
}

func (f *fixture) getItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch *params.TableName {
	case models.BuyersTable:
		if buyer, ok := f.buyers[stringValue(params.Key, "buyerId")]; ok {
			return &dynamodb.GetItemOutput{Item: mustMarshal(buyer)}, nil
		}
	case models.SellersTable:
		if seller, ok := f.sellers[stringValue(params.Key, "sellerId")]; ok {
			return &dynamodb.GetItemOutput{Item: mustMarshal(seller)}, nil
		}
	case models.PropertiesTable:
		if property, ok := f.properties[stringValue(params.Key, "propertyId")]; ok {
			return &dynamodb.GetItemOutput{Item: mustMarshal(property)}, nil
		}
	case models.PlansTable:
		if plan, ok := f.plans[stringValue(params.Key, "planId")]; ok {
			return &dynamodb.GetItemOutput{Item: mustMarshal(plan)}, nil
		}
	case models.SubscriptionsTable:
		if subscription, ok := f.subscriptions[stringValue(params.Key, "userId")]; ok {
			return &dynamodb.GetItemOutput{Item: mustMarshal(*subscription)}, nil
		}
	case models.MatchesTable:
		if match, ok := f.matches[stringValue(params.Key, "matchId")]; ok {
			return &dynamodb.GetItemOutput{Item: mustMarshal(match)}, nil
		}
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (f *fixture) putItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if *params.TableName != models.MatchesTable {
		return nil, errors.New("fixture only stores matches via PutItem")
	}
	var match models.Match
	if err := attributevalue.UnmarshalMap(params.Item, &match); err != nil {
		return nil, err
	}
	f.matches[match.MatchID] = match
	return &dynamodb.PutItemOutput{}, nil
}

// updateItem implements the conditional quota decrement on subscriptions:
// the condition is checked and applied under one lock, like the store's own
// per-document atomicity.
func (f *fixture) updateItem(_ context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if *params.TableName != models.SubscriptionsTable {
		return nil, errors.New("fixture only updates subscriptions")
	}

	userID := stringValue(params.Key, "userId")
	subscription, ok := f.subscriptions[userID]
	if !ok {
		return nil, &types.ConditionalCheckFailedException{}
	}

	field := params.ExpressionAttributeNames["#field"]
	amount := numberValue(params.ExpressionAttributeValues, ":amount")

	var counter *int
	switch models.QuotaField(field) {
	case models.QuotaSwipes:
		counter = &subscription.PlanRestrictions.NumberOfSwipes
	case models.QuotaMatchPacks:
		counter = &subscription.PlanRestrictions.MaxMatchPacks
	default:
		return nil, errors.New("unknown quota field: " + field)
	}

	if subscription.Status != models.SubscriptionStatusActive || *counter < amount {
		return nil, &types.ConditionalCheckFailedException{}
	}
	*counter -= amount
	return &dynamodb.UpdateItemOutput{Attributes: mustMarshal(*subscription)}, nil
}

func (f *fixture) query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var items []map[string]types.AttributeValue
	switch *params.IndexName {
	case models.MatchPropertyIndex:
		propertyID := stringValue(params.ExpressionAttributeValues, ":propertyId")
		buyerID := stringValue(params.ExpressionAttributeValues, ":buyerId")
		for _, match := range f.matches {
			if match.PropertyID != propertyID {
				continue
			}
			if buyerID != "" && match.BuyerID != buyerID {
				continue
			}
			items = append(items, mustMarshal(match))
		}
	case models.MatchBuyerIndex:
		buyerID := stringValue(params.ExpressionAttributeValues, ":buyerId")
		excludeRejected := params.FilterExpression != nil && strings.Contains(*params.FilterExpression, ":rejected")
		for _, match := range f.matches {
			if match.BuyerID != buyerID {
				continue
			}
			if excludeRejected && match.Status == models.MatchStatusRejected {
				continue
			}
			items = append(items, mustMarshal(match))
		}
	case models.PropertySellerIndex:
		sellerID := stringValue(params.ExpressionAttributeValues, ":sellerId")
		for _, property := range f.properties {
			if property.SellerID == sellerID {
				items = append(items, mustMarshal(property))
			}
		}
	default:
		return nil, errors.New("unexpected index: " + *params.IndexName)
	}
	return &dynamodb.QueryOutput{Items: items}, nil
}

func (f *fixture) scan(_ context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if *params.TableName != models.SubscriptionsTable {
		return nil, errors.New("fixture only scans subscriptions")
	}
	status := stringValue(params.ExpressionAttributeValues, ":status")

	var items []map[string]types.AttributeValue
	for _, subscription := range f.subscriptions {
		if status != "" && subscription.Status != status {
			continue
		}
		items = append(items, mustMarshal(*subscription))
	}
	return &dynamodb.ScanOutput{Items: items}, nil
}

// transactWriteItems applies subscription increments all-or-nothing.
func (f *fixture) transactWriteItems(_ context.Context, params *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.transactCalls++
	if f.transactErr != nil {
		return nil, f.transactErr
	}

	// Validate every condition before touching anything.
	for _, item := range params.TransactItems {
		if item.Update == nil {
			return nil, errors.New("fixture only supports Update transact items")
		}
		userID := stringValue(item.Update.Key, "userId")
		subscription, ok := f.subscriptions[userID]
		if !ok || subscription.Status != models.SubscriptionStatusActive {
			return nil, &types.TransactionCanceledException{}
		}
	}
	for _, item := range params.TransactItems {
		userID := stringValue(item.Update.Key, "userId")
		increment := numberValue(item.Update.ExpressionAttributeValues, ":inc")
		f.subscriptions[userID].PlanRestrictions.NumberOfSwipes += increment
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}
