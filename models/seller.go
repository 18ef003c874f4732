package models

// Seller is an identity record for property owners.
type Seller struct {
	SellerID   string `dynamodbav:"sellerId" json:"sellerId"`
	CustomerID string `dynamodbav:"customerId,omitempty" json:"customerId,omitempty"`
	Name       string `dynamodbav:"name,omitempty" json:"name,omitempty"`
	Email      string `dynamodbav:"email,omitempty" json:"email,omitempty"`
	Phone      string `dynamodbav:"phone,omitempty" json:"phone,omitempty"`
	Avatar     string `dynamodbav:"avatar,omitempty" json:"avatar,omitempty"`
	Agency     string `dynamodbav:"agency,omitempty" json:"agency,omitempty"`
}

// SellersTable is the DynamoDB table name for sellers
const SellersTable = "Sellers"
