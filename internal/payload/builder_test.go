package payload

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printhaus/fulfilbridge/internal/domain"
)

func intPtr(i int) *int     { return &i }
func i64Ptr(i int64) *int64 { return &i }

func printJobCandidate(sku, printJobID, thumb string) domain.Candidate {
	return domain.Candidate{
		Item: domain.LineItem{ID: 11, SKU: sku, Title: "Framed print"},
		Bits: domain.DesignBits{PrintJobID: printJobID, Thumb: thumb},
	}
}

func TestClassify_PrintJobWinsOverTextual(t *testing.T) {
	c := domain.Candidate{
		Item: domain.LineItem{Properties: []domain.Property{{Name: "Top line", Value: "HELLO"}}},
		Bits: domain.DesignBits{PrintJobID: "PJ1"},
	}
	assert.Equal(t, KindPrintJob, Classify(c))
}

func TestClassify_TextualNeedsNonPrivateNonEmpty(t *testing.T) {
	textual := domain.Candidate{
		Item: domain.LineItem{Properties: []domain.Property{{Name: "Top line", Value: "HELLO"}}},
	}
	assert.Equal(t, KindTextual, Classify(textual))

	onlyPrivate := domain.Candidate{
		Item: domain.LineItem{Properties: []domain.Property{{Name: "_meta", Value: "x"}}},
	}
	assert.Equal(t, KindSkip, Classify(onlyPrivate))

	onlyEmpty := domain.Candidate{
		Item: domain.LineItem{Properties: []domain.Property{{Name: "Top line", Value: "  "}}},
	}
	assert.Equal(t, KindSkip, Classify(onlyEmpty))
}

func TestClassify_NoPropertiesNoPrintJob(t *testing.T) {
	assert.Equal(t, KindSkip, Classify(domain.Candidate{}))
}

func TestBuild_PrintJobItem(t *testing.T) {
	order := domain.Order{ID: 1001, Name: "#1001"}
	skuMap := map[string]int64{"abc-1": 42}

	out := Build(order, []domain.Candidate{printJobCandidate("ABC-1", "PJ1", "")}, skuMap, Options{})

	require.Len(t, out.Items, 1)
	item := out.Items[0]
	assert.Equal(t, ItemTypePrintJob, item.Type)
	assert.Equal(t, "PJ1", item.PrintJobID)
	assert.Equal(t, int64(42), item.TextualProductID)
	assert.Equal(t, "ABC-1", item.SKU)
	assert.Equal(t, 1, item.Quantity)
	assert.Equal(t, []Attribute{}, item.Attributes)
}

func TestBuild_PrintJobThumbnailAttribute(t *testing.T) {
	out := Build(domain.Order{ID: 1}, []domain.Candidate{
		printJobCandidate("ABC-1", "PJ1", "https://cdn.example.com/t.png"),
	}, map[string]int64{"abc-1": 42}, Options{})

	require.Len(t, out.Items, 1)
	assert.Equal(t, []Attribute{{Name: "thumbnail", Value: "https://cdn.example.com/t.png"}}, out.Items[0].Attributes)
}

func TestBuild_PrintJobDefaultProductID(t *testing.T) {
	out := Build(domain.Order{ID: 1}, []domain.Candidate{
		printJobCandidate("UNMAPPED", "PJ1", ""),
	}, map[string]int64{}, Options{DefaultProductID: i64Ptr(7)})

	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(7), out.Items[0].TextualProductID)
}

func TestBuild_TextualItemAttributes(t *testing.T) {
	c := domain.Candidate{
		Item: domain.LineItem{
			ID:       22,
			SKU:      "MUG-9",
			Quantity: intPtr(3),
			Properties: []domain.Property{
				{Name: "Top line", Value: "HELLO"},
				{Name: "TOP LINE", Value: "dupe, dropped"},
				{Name: "_printref", Value: "private, dropped"},
				{Name: "Bottom line", Value: "IVC"},
				{Name: "Empty", Value: ""},
			},
		},
		Bits: domain.DesignBits{Thumb: "https://cdn.example.com/t.png"},
	}

	out := Build(domain.Order{ID: 1}, []domain.Candidate{c}, map[string]int64{"mug-9": 5}, Options{})

	require.Len(t, out.Items, 1)
	item := out.Items[0]
	assert.Equal(t, ItemTypeTextual, item.Type)
	assert.Equal(t, 3, item.Quantity)
	assert.Equal(t, int64(5), item.TextualProductID)
	assert.Equal(t, []Attribute{
		{Name: "Top line", Value: "HELLO"},
		{Name: "Bottom line", Value: "IVC"},
		{Name: "thumbnail", Value: "https://cdn.example.com/t.png"},
	}, item.Attributes)
}

func TestBuild_TextualExistingThumbnailNotDuplicated(t *testing.T) {
	c := domain.Candidate{
		Item: domain.LineItem{
			ID: 22,
			Properties: []domain.Property{
				{Name: "Thumbnail", Value: "customer supplied"},
			},
		},
		Bits: domain.DesignBits{Thumb: "https://cdn.example.com/t.png"},
	}

	out := Build(domain.Order{ID: 1}, []domain.Candidate{c}, nil, Options{})

	require.Len(t, out.Items, 1)
	assert.Equal(t, []Attribute{{Name: "Thumbnail", Value: "customer supplied"}}, out.Items[0].Attributes)
}

func TestBuild_SkipsNonPersonalised(t *testing.T) {
	c := domain.Candidate{
		Item: domain.LineItem{
			ID: 33,
			Properties: []domain.Property{
				{Name: "_meta", Value: "x"},
			},
		},
	}

	out := Build(domain.Order{ID: 1}, []domain.Candidate{c}, nil, Options{})
	assert.Empty(t, out.Items)
}

func TestBuild_SaleDatetime(t *testing.T) {
	out := Build(domain.Order{ID: 1, ProcessedAt: "2026-03-04T10:30:45+02:00"}, nil, nil, Options{})
	assert.Equal(t, "2026-03-04 08:30:45", out.SaleDatetime)
}

func TestBuild_SaleDatetimeFallsBackToCreatedAt(t *testing.T) {
	out := Build(domain.Order{ID: 1, CreatedAt: "2026-03-04T10:30:45Z"}, nil, nil, Options{})
	assert.Equal(t, "2026-03-04 10:30:45", out.SaleDatetime)
}

func TestBuild_SaleDatetimeOmittedWhenUnparseable(t *testing.T) {
	out := Build(domain.Order{ID: 1, ProcessedAt: "yesterday-ish"}, nil, nil, Options{})
	assert.Equal(t, "", out.SaleDatetime)

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sale_datetime")
}

func TestBuild_CustomerNameResolution(t *testing.T) {
	shipping := domain.Order{
		ID:              1,
		ShippingAddress: &domain.Address{Name: "Ship Name"},
		Customer:        &domain.Customer{FirstName: "Jo", LastName: "Vander"},
	}
	assert.Equal(t, "Ship Name", Build(shipping, nil, nil, Options{}).CustomerName)

	fromCustomer := domain.Order{
		ID:       1,
		Customer: &domain.Customer{FirstName: "Jo", LastName: "Vander"},
	}
	assert.Equal(t, "Jo Vander", Build(fromCustomer, nil, nil, Options{}).CustomerName)

	assert.Equal(t, "", Build(domain.Order{ID: 1}, nil, nil, Options{}).CustomerName)
}

func TestBuild_ExternalRefPrefersName(t *testing.T) {
	assert.Equal(t, "#1001", Build(domain.Order{ID: 1001, Name: "#1001"}, nil, nil, Options{}).ExternalRef)
	assert.Equal(t, "1001", Build(domain.Order{ID: 1001}, nil, nil, Options{}).ExternalRef)
}

func TestBuild_WireFieldNames(t *testing.T) {
	out := Build(domain.Order{ID: 1001, Name: "#1001", ProcessedAt: "2026-03-04T10:30:45Z"}, []domain.Candidate{
		printJobCandidate("ABC-1", "PJ1", ""),
	}, map[string]int64{"abc-1": 42}, Options{})
	out.CompanyRefID = "CO-9"

	data, err := json.Marshal(out)
	require.NoError(t, err)

	for _, field := range []string{
		`"external_ref"`, `"company_ref_id"`, `"sale_datetime"`, `"items"`,
		`"type":"print_job"`, `"print_job_id":"PJ1"`, `"textual_product_id":42`,
		`"quantity":1`, `"attributes":[]`,
	} {
		assert.Contains(t, string(data), field)
	}
}
