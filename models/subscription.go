package models

// Subscription statuses, mirrored from the billing subsystem. Only "active"
// subscriptions are eligible for quota consumption or replenishment.
const (
	SubscriptionStatusActive     = "active"
	SubscriptionStatusCanceled   = "canceled"
	SubscriptionStatusIncomplete = "incomplete"
	SubscriptionStatusPastDue    = "past_due"
	SubscriptionStatusTrialing   = "trialing"
)

// QuotaField names a counter inside PlanRestrictions that the quota gate may
// conditionally decrement.
type QuotaField string

const (
	QuotaSwipes     QuotaField = "numberOfSwipes"
	QuotaMatchPacks QuotaField = "maxMatchPacks"
)

// PlanRestrictions holds the per-user quota counters. Billing validates and
// writes the initial values; this service only performs conditional
// decrements and the scheduled swipe increments.
type PlanRestrictions struct {
	NumberOfSwipes int `dynamodbav:"numberOfSwipes" json:"numberOfSwipes"`
	MaxMatchPacks  int `dynamodbav:"maxMatchPacks" json:"maxMatchPacks"`
}

// Subscription is the active plan record for a user. Owned by billing; at
// most one subscription per user is active at a time.
type Subscription struct {
	UserID               string           `dynamodbav:"userId" json:"userId"`
	PlanID               string           `dynamodbav:"planId" json:"planId"`
	StripeSubscriptionID string           `dynamodbav:"stripeSubscriptionId,omitempty" json:"stripeSubscriptionId,omitempty"`
	StripeCustomerID     string           `dynamodbav:"stripeCustomerId,omitempty" json:"stripeCustomerId,omitempty"`
	Status               string           `dynamodbav:"status" json:"status"`
	StartDate            string           `dynamodbav:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate              string           `dynamodbav:"endDate,omitempty" json:"endDate,omitempty"`
	CurrentPeriodEnd     string           `dynamodbav:"currentPeriodEnd,omitempty" json:"currentPeriodEnd,omitempty"`
	PlanRestrictions     PlanRestrictions `dynamodbav:"planRestrictions" json:"planRestrictions"`
}

// SubscriptionsTable is the DynamoDB table name for subscriptions
const SubscriptionsTable = "Subscriptions"
