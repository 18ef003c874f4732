package models

// Buyer is an identity record; this service only checks existence and
// projects display summaries.
type Buyer struct {
	BuyerID    string `dynamodbav:"buyerId" json:"buyerId"`
	CustomerID string `dynamodbav:"customerId,omitempty" json:"customerId,omitempty"`
	Name       string `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Email      string `dynamodbav:"email,omitempty" json:"email,omitempty"`
	Phone      string `dynamodbav:"phone,omitempty" json:"phone,omitempty"`
	Avatar     string `dynamodbav:"avatar,omitempty" json:"avatar,omitempty"`
}

// BuyersTable is the DynamoDB table name for buyers
const BuyersTable = "Buyers"
