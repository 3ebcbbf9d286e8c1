// Package payload classifies order candidates and assembles the partner
// fulfilment API's order document.
package payload

import (
	"strconv"
	"strings"
	"time"

	"github.com/printhaus/fulfilbridge/internal/domain"
)

// Item type discriminators on the partner wire format.
const (
	ItemTypePrintJob = "print_job"
	ItemTypeTextual  = "textual"
)

// thumbAttributeName is the attribute name the thumbnail URL is carried
// under on outbound items.
const thumbAttributeName = "thumbnail"

// saleDatetimeLayout is the partner API's timestamp format, always UTC.
const saleDatetimeLayout = "2006-01-02 15:04:05"

// PartnerOrder is the outbound order document. Field names are fixed by the
// partner API and must not change.
type PartnerOrder struct {
	ExternalRef  string        `json:"external_ref"`
	CompanyRefID string        `json:"company_ref_id"`
	SaleDatetime string        `json:"sale_datetime,omitempty"`
	CustomerName string        `json:"customer_name,omitempty"`
	Email        string        `json:"email,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	Address1     string        `json:"address1,omitempty"`
	Address2     string        `json:"address2,omitempty"`
	City         string        `json:"city,omitempty"`
	Zip          string        `json:"zip,omitempty"`
	State        string        `json:"state,omitempty"`
	Country      string        `json:"country,omitempty"`
	Items        []PartnerItem `json:"items"`
}

// PartnerItem is one outbound order item, either a print job or a textual
// personalised item.
type PartnerItem struct {
	Type             string      `json:"type"`
	ExternalRef      string      `json:"external_ref"`
	PrintJobID       string      `json:"print_job_id,omitempty"`
	Quantity         int         `json:"quantity"`
	SKU              string      `json:"sku,omitempty"`
	Description      string      `json:"description,omitempty"`
	TextualProductID int64       `json:"textual_product_id"`
	Attributes       []Attribute `json:"attributes"`
}

// Attribute is a name/value pair on an outbound item.
type Attribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Kind is the classification of one candidate.
type Kind int

const (
	KindSkip Kind = iota
	KindPrintJob
	KindTextual
)

// Classify decides how a candidate maps to an outbound item. The dispatch
// pre-check and Build both call this, so the mapping check and the built
// payload cannot disagree.
//
// A non-empty print job id always wins over textual content; a line with
// neither a print job id nor any non-private non-empty property is skipped.
func Classify(c domain.Candidate) Kind {
	if strings.TrimSpace(c.Bits.PrintJobID) != "" {
		return KindPrintJob
	}
	for _, p := range c.Item.Properties {
		if !domain.IsPrivateProperty(p.Name) && strings.TrimSpace(p.Value) != "" {
			return KindTextual
		}
	}
	return KindSkip
}

// Options tunes payload assembly.
type Options struct {
	// DefaultProductID is used when a candidate's SKU has no mapping entry.
	// Nil means no fallback; the caller is expected to have verified the
	// mapping beforehand.
	DefaultProductID *int64
}

// Build assembles the partner order document over all candidates, deriving
// the personalised subset itself and dropping the rest. It never fails:
// missing product mappings are the caller's pre-check responsibility.
func Build(order domain.Order, candidates []domain.Candidate, skuMap map[string]int64, opts Options) PartnerOrder {
	out := PartnerOrder{
		ExternalRef: orderRef(order),
		Items:       []PartnerItem{},
	}

	out.SaleDatetime = saleDatetime(order)
	out.CustomerName = customerName(order)

	if order.Email != "" {
		out.Email = order.Email
	} else if order.Customer != nil {
		out.Email = order.Customer.Email
	}

	if addr := order.ShippingAddress; addr != nil {
		out.Phone = addr.Phone
		out.Address1 = addr.Address1
		out.Address2 = addr.Address2
		out.City = addr.City
		out.Zip = addr.Zip
		out.State = addr.Province
		out.Country = addr.Country
	}
	if out.Phone == "" && order.Customer != nil {
		out.Phone = order.Customer.Phone
	}

	for _, c := range candidates {
		switch Classify(c) {
		case KindPrintJob:
			out.Items = append(out.Items, printJobItem(c, skuMap, opts))
		case KindTextual:
			if item, ok := textualItem(c, skuMap, opts); ok {
				out.Items = append(out.Items, item)
			}
		}
	}

	return out
}

func printJobItem(c domain.Candidate, skuMap map[string]int64, opts Options) PartnerItem {
	item := PartnerItem{
		Type:             ItemTypePrintJob,
		ExternalRef:      strconv.FormatInt(c.Item.ID, 10),
		PrintJobID:       c.Bits.PrintJobID,
		Quantity:         quantity(c.Item),
		SKU:              c.Item.SKU,
		Description:      c.Item.Title,
		TextualProductID: resolveProductID(c.Item.SKU, skuMap, opts),
		Attributes:       []Attribute{},
	}
	if c.Bits.Thumb != "" {
		item.Attributes = append(item.Attributes, Attribute{Name: thumbAttributeName, Value: c.Bits.Thumb})
	}
	return item
}

// textualItem builds a personalised textual item from the candidate's
// non-private properties. Names are deduplicated case-insensitively, first
// occurrence wins, original order preserved. A thumbnail attribute is
// appended unless one is already present under that name. A line whose
// filtered attribute list comes out empty is treated as non-personalised.
func textualItem(c domain.Candidate, skuMap map[string]int64, opts Options) (PartnerItem, bool) {
	attrs := []Attribute{}
	seen := map[string]bool{}
	for _, p := range c.Item.Properties {
		if domain.IsPrivateProperty(p.Name) || strings.TrimSpace(p.Value) == "" {
			continue
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			continue
		}
		seen[key] = true
		attrs = append(attrs, Attribute{Name: p.Name, Value: p.Value})
	}
	if len(attrs) == 0 {
		return PartnerItem{}, false
	}
	if c.Bits.Thumb != "" && !seen[strings.ToLower(thumbAttributeName)] {
		attrs = append(attrs, Attribute{Name: thumbAttributeName, Value: c.Bits.Thumb})
	}

	return PartnerItem{
		Type:             ItemTypeTextual,
		ExternalRef:      strconv.FormatInt(c.Item.ID, 10),
		Quantity:         quantity(c.Item),
		SKU:              c.Item.SKU,
		Description:      c.Item.Title,
		TextualProductID: resolveProductID(c.Item.SKU, skuMap, opts),
		Attributes:       attrs,
	}, true
}

func resolveProductID(sku string, skuMap map[string]int64, opts Options) int64 {
	if id, ok := skuMap[domain.NormalizeSKU(sku)]; ok {
		return id
	}
	if opts.DefaultProductID != nil {
		return *opts.DefaultProductID
	}
	return 0
}

// quantity passes the supplied value through, defaulting to 1 only when the
// field was absent.
func quantity(item domain.LineItem) int {
	if item.Quantity == nil {
		return 1
	}
	return *item.Quantity
}

func orderRef(order domain.Order) string {
	if order.Name != "" {
		return order.Name
	}
	return strconv.FormatInt(order.ID, 10)
}

// saleDatetime renders the order's processed (else created) timestamp in
// the partner format. Absent or unparseable timestamps yield an empty
// string, which omits the field on the wire.
func saleDatetime(order domain.Order) string {
	for _, raw := range []string{order.ProcessedAt, order.CreatedAt} {
		if raw == "" {
			continue
		}
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			return ts.UTC().Format(saleDatetimeLayout)
		}
	}
	return ""
}

// customerName prefers the shipping address name, then first and last name
// joined by a space, else empty.
func customerName(order domain.Order) string {
	if order.ShippingAddress != nil && order.ShippingAddress.Name != "" {
		return order.ShippingAddress.Name
	}
	if order.Customer != nil {
		name := strings.TrimSpace(order.Customer.FirstName + " " + order.Customer.LastName)
		if name != "" {
			return name
		}
	}
	return ""
}
