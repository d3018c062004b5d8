package dataset

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/sales-report/internal/sales"
)

// SynthOptions sizes a generated dataset.
type SynthOptions struct {
	Sellers  int
	Products int
	Records  int
	// MaxItems caps the number of lines per receipt.
	MaxItems int
	Seed     uint64
	// Start is the date of the first receipt; receipts advance one day at a time.
	Start time.Time
}

func (o SynthOptions) normalised() SynthOptions {
	if o.Sellers <= 0 {
		o.Sellers = 5
	}
	if o.Products <= 0 {
		o.Products = 20
	}
	if o.Records <= 0 {
		o.Records = 100
	}
	if o.MaxItems <= 0 {
		o.MaxItems = 5
	}
	if o.Start.IsZero() {
		o.Start = time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	}
	return o
}

var (
	firstNames = []string{"Anna", "Ivan", "Olga", "Pavel", "Marina", "Sergey", "Elena", "Dmitry"}
	lastNames  = []string{"Ivanova", "Petrov", "Smirnova", "Kuznetsov", "Sokolova", "Popov", "Volkova"}
	categories = []string{"Kitchen", "Garden", "Toys", "Electronics", "Books"}
)

// Synthesize builds a valid random dataset. The same options always yield the same dataset.
func Synthesize(opts SynthOptions) *sales.Dataset {
	opts = opts.normalised()
	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[:], opts.Seed)
	src := rand.NewChaCha8(seed)
	rng := rand.New(src)

	ds := &sales.Dataset{
		Sellers:         make([]sales.Seller, 0, opts.Sellers),
		Products:        make([]sales.Product, 0, opts.Products),
		PurchaseRecords: make([]sales.PurchaseRecord, 0, opts.Records),
	}
	for i := 1; i <= opts.Sellers; i++ {
		ds.Sellers = append(ds.Sellers, sales.Seller{
			ID:        fmt.Sprintf("seller_%d", i),
			FirstName: firstNames[rng.IntN(len(firstNames))],
			LastName:  lastNames[rng.IntN(len(lastNames))],
			StartDate: opts.Start.AddDate(0, -rng.IntN(24), 0).Format(time.DateOnly),
			Position:  "Seller",
		})
	}
	for i := 1; i <= opts.Products; i++ {
		purchase := float64(100+rng.IntN(9900)) / 100
		ds.Products = append(ds.Products, sales.Product{
			SKU:           fmt.Sprintf("SKU_%03d", i),
			Name:          fmt.Sprintf("Product %d", i),
			Category:      categories[rng.IntN(len(categories))],
			PurchasePrice: purchase,
			SalePrice:     sales.Round2(purchase * (1.2 + rng.Float64())),
		})
	}
	for i := 0; i < opts.Records; i++ {
		receiptID, err := uuid.NewRandomFromReader(src)
		if err != nil {
			receiptID = uuid.New()
		}
		record := sales.PurchaseRecord{
			ReceiptID:  receiptID.String(),
			Date:       opts.Start.AddDate(0, 0, i).Format(time.DateOnly),
			SellerID:   ds.Sellers[rng.IntN(len(ds.Sellers))].ID,
			CustomerID: fmt.Sprintf("customer_%d", 1+rng.IntN(opts.Records)),
		}
		lines := 1 + rng.IntN(opts.MaxItems)
		var total, discount float64
		for j := 0; j < lines; j++ {
			product := ds.Products[rng.IntN(len(ds.Products))]
			item := sales.Item{
				SKU:       product.SKU,
				Quantity:  1 + rng.IntN(5),
				SalePrice: product.SalePrice,
				Discount:  float64(rng.IntN(4) * 5),
			}
			gross := item.SalePrice * float64(item.Quantity)
			net := gross * (1 - item.Discount/100)
			total += net
			discount += gross - net
			record.Items = append(record.Items, item)
		}
		record.TotalAmount = sales.Round2(total)
		record.TotalDiscount = sales.Round2(discount)
		ds.PurchaseRecords = append(ds.PurchaseRecords, record)
	}
	return ds
}
