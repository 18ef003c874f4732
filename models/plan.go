package models

// Plan defines a subscription tier. The title doubles as the lookup key into
// the swipe replenishment table, so it must stay in sync with billing.
type Plan struct {
	PlanID      string `dynamodbav:"planId" json:"planId"`
	Title       string `dynamodbav:"title" json:"title"`
	Description string `dynamodbav:"description,omitempty" json:"description,omitempty"`
	ProductID   string `dynamodbav:"productId,omitempty" json:"productId,omitempty"`
	PriceID     string `dynamodbav:"priceId,omitempty" json:"priceId,omitempty"`
	Amount      int    `dynamodbav:"amount" json:"amount"`
	Currency    string `dynamodbav:"currency" json:"currency"`
	Interval    string `dynamodbav:"interval" json:"interval"`
	Active      bool   `dynamodbav:"active" json:"active"`
}

// PlansTable is the DynamoDB table name for plans
const PlansTable = "Plans"
