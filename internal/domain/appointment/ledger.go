package appointment

import (
	"math"

	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// LineItemInput is one consumption line as supplied by a caller; the price is
// taken from the catalog when the line is built.
type LineItemInput struct {
	CatalogItemID uint `json:"catalog_item_id" binding:"required"`
	Quantity      int  `json:"quantity" binding:"required,min=1"`
}

// BuildLineItems snapshots catalog prices into line items. Every referenced
// item must be present in catalog.
func BuildLineItems(
	appointmentID uint,
	inputs []LineItemInput,
	catalog map[uint]models.CatalogItem,
) ([]models.AppointmentLineItem, error) {
	out := make([]models.AppointmentLineItem, 0, len(inputs))
	for _, in := range inputs {
		if in.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		item, ok := catalog[in.CatalogItemID]
		if !ok {
			return nil, ErrCatalogItemNotFound
		}
		out = append(out, models.AppointmentLineItem{
			AppointmentID: appointmentID,
			CatalogItemID: item.ID,
			Name:          item.Name,
			Quantity:      in.Quantity,
			UnitPrice:     item.Price,
		})
	}
	return out, nil
}

func LineItemsTotal(items []models.AppointmentLineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.UnitPrice * float64(it.Quantity)
	}
	return roundCents(sum)
}

// SettledTotal is base + Σ(unit price × quantity). A nil base counts as zero.
func SettledTotal(base *float64, items []models.AppointmentLineItem) float64 {
	var b float64
	if base != nil {
		b = *base
	}
	return roundCents(b + LineItemsTotal(items))
}

// BasePrice is the service price an appointment settles from: the catalog
// price of its service, or nil for service-less sales.
func BasePrice(service *models.CatalogItem) *float64 {
	if service == nil {
		return nil
	}
	p := service.Price
	return &p
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
