package models

// Property availability states
const (
	PropertyAvailable = "Available"
	PropertySold      = "Sold"
	PropertyRented    = "Rented"
)

// Property is a listing owned by exactly one seller.
type Property struct {
	PropertyID     string   `dynamodbav:"propertyId" json:"propertyId"`
	SellerID       string   `dynamodbav:"sellerId" json:"sellerId"`
	Title          string   `dynamodbav:"title" json:"title"`
	Type           string   `dynamodbav:"type" json:"type"` // "Rent" or "Sale"
	Location       string   `dynamodbav:"location" json:"location"`
	Price          float64  `dynamodbav:"price" json:"price"`
	Area           float64  `dynamodbav:"area" json:"area"`
	Bedrooms       int      `dynamodbav:"bedrooms" json:"bedrooms"`
	Bathrooms      int      `dynamodbav:"bathrooms" json:"bathrooms"`
	Floor          int      `dynamodbav:"floor,omitempty" json:"floor,omitempty"`
	Furnished      string   `dynamodbav:"furnished,omitempty" json:"furnished,omitempty"`
	Balcony        bool     `dynamodbav:"balcony,omitempty" json:"balcony,omitempty"`
	Parking        bool     `dynamodbav:"parking,omitempty" json:"parking,omitempty"`
	Amenities      []string `dynamodbav:"amenities,omitempty" json:"amenities,omitempty"`
	Availability   string   `dynamodbav:"availability,omitempty" json:"availability,omitempty"`
	Image          string   `dynamodbav:"image,omitempty" json:"image,omitempty"`
	FeaturedImages []string `dynamodbav:"featuredImages,omitempty" json:"featuredImages,omitempty"`
	Featured       bool     `dynamodbav:"featured,omitempty" json:"featured,omitempty"`
	Description    string   `dynamodbav:"description,omitempty" json:"description,omitempty"`
	CreatedAt      string   `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// PropertiesTable is the DynamoDB table name for property listings
const PropertiesTable = "Properties"

// PropertySellerIndex is the GSI keyed on sellerId
const PropertySellerIndex = "sellerId-index"
