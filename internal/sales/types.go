package sales

// Seller is a member of the sales team being ranked.
type Seller struct {
	ID        string `json:"id" yaml:"id" validate:"required"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
	StartDate string `json:"start_date,omitempty" yaml:"start_date,omitempty"`
	Position  string `json:"position,omitempty" yaml:"position,omitempty"`
}

// Product is a catalog entry. PurchasePrice is the cost basis used for profit.
type Product struct {
	SKU           string  `json:"sku" yaml:"sku" validate:"required"`
	Name          string  `json:"name,omitempty" yaml:"name,omitempty"`
	Category      string  `json:"category,omitempty" yaml:"category,omitempty"`
	PurchasePrice float64 `json:"purchase_price" yaml:"purchase_price"`
	SalePrice     float64 `json:"sale_price" yaml:"sale_price"`
}

// Item is a single line of a receipt. Lines whose SKU is not in the catalog,
// including a blank SKU, are skipped during accumulation.
type Item struct {
	SKU       string  `json:"sku" yaml:"sku"`
	Quantity  int     `json:"quantity" yaml:"quantity"`
	SalePrice float64 `json:"sale_price" yaml:"sale_price"`
	// Discount is a percentage, normally 0-100.
	Discount float64 `json:"discount" yaml:"discount"`
}

// PurchaseRecord is a receipt issued by one seller.
type PurchaseRecord struct {
	ReceiptID     string  `json:"receipt_id,omitempty" yaml:"receipt_id,omitempty"`
	Date          string  `json:"date,omitempty" yaml:"date,omitempty"`
	SellerID      string  `json:"seller_id" yaml:"seller_id" validate:"required"`
	CustomerID    string  `json:"customer_id,omitempty" yaml:"customer_id,omitempty"`
	TotalAmount   float64 `json:"total_amount" yaml:"total_amount"`
	TotalDiscount float64 `json:"total_discount,omitempty" yaml:"total_discount,omitempty"`
	Items         []Item  `json:"items" yaml:"items" validate:"dive"`
}

// Dataset bundles the three input collections of one analysis run.
type Dataset struct {
	Sellers         []Seller         `json:"sellers" yaml:"sellers" validate:"required,min=1,dive"`
	Products        []Product        `json:"products" yaml:"products" validate:"required,min=1,dive"`
	PurchaseRecords []PurchaseRecord `json:"purchase_records" yaml:"purchase_records" validate:"required,min=1,dive"`
}

// SellerSnapshot is the read-only view of a ranked seller handed to a BonusStrategy.
// Revenue and Profit are not rounded yet.
type SellerSnapshot struct {
	SellerID   string
	Name       string
	Revenue    float64
	Profit     float64
	SalesCount int
}

// TopProduct is one entry of a seller's best-selling products.
type TopProduct struct {
	SKU      string `json:"sku" yaml:"sku"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

// SellerReport is the final, rounded statistics line for one seller.
type SellerReport struct {
	SellerID    string       `json:"seller_id" yaml:"seller_id"`
	Name        string       `json:"name" yaml:"name"`
	Revenue     float64      `json:"revenue" yaml:"revenue"`
	Profit      float64      `json:"profit" yaml:"profit"`
	SalesCount  int          `json:"sales_count" yaml:"sales_count"`
	TopProducts []TopProduct `json:"top_products" yaml:"top_products"`
	Bonus       float64      `json:"bonus" yaml:"bonus"`
}
