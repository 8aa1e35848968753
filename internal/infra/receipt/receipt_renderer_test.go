package receipt

import (
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReceiptData() service.ReceiptData {
	return service.ReceiptData{
		OrderID: "ORD-20260831120000-abcd1234",
		Date:    time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		Lines: []service.ReceiptLine{
			{ProductName: "Widget <deluxe>", Quantity: 2, UnitPrice: 80, LineTotal: 160},
			{ProductName: "Pen", Quantity: 3, UnitPrice: 5, LineTotal: 15},
		},
		GrandTotal: 175,
	}
}

func TestHTMLRenderer_Render(t *testing.T) {
	renderer := NewHTMLRenderer(&config.Config{
		Receipt: &config.ReceiptConfig{BaseURL: "https://shop.example.com/", QRSize: 128},
	})

	html, err := renderer.Render(testReceiptData())
	require.NoError(t, err)
	doc := string(html)

	assert.Contains(t, doc, "ORD-20260831120000-abcd1234")
	assert.Contains(t, doc, "2026-08-31 12:00 UTC")
	assert.Contains(t, doc, "Grand total: 175.00")
	assert.Contains(t, doc, "data:image/png;base64,")
	// Product names are escaped, not interpreted as markup.
	assert.Contains(t, doc, "Widget &lt;deluxe&gt;")
	assert.NotContains(t, doc, "<deluxe>")
}

func TestHTMLRenderer_RenderWithoutBaseURL(t *testing.T) {
	renderer := NewHTMLRenderer(&config.Config{})

	html, err := renderer.Render(testReceiptData())
	require.NoError(t, err)
	assert.Contains(t, string(html), "data:image/png;base64,")
}
