// Package receipt renders order receipts as self-contained HTML documents.
package receipt

import (
	"encoding/base64"
	"fmt"
	"html"
	"strings"

	"github.com/skip2/go-qrcode"

	"storefront/config"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
)

const defaultQRSize = 160

// htmlRenderer implements service.ReceiptRenderer. The output is a pure
// function of the receipt data and the configured storefront base URL.
type htmlRenderer struct {
	baseURL string
	qrSize  int
}

// NewHTMLRenderer is the constructor for htmlRenderer.
func NewHTMLRenderer(cfg *config.Config) service.ReceiptRenderer {
	baseURL := ""
	qrSize := defaultQRSize
	if cfg.Receipt != nil {
		baseURL = strings.TrimRight(cfg.Receipt.BaseURL, "/")
		if cfg.Receipt.QRSize > 0 {
			qrSize = cfg.Receipt.QRSize
		}
	}

	return &htmlRenderer{
		baseURL: baseURL,
		qrSize:  qrSize,
	}
}

// Render produces an itemized HTML receipt with an embedded QR code linking
// to the order page.
func (r *htmlRenderer) Render(data service.ReceiptData) ([]byte, error) {
	qrPNG, err := r.orderQR(data.OrderID)
	if err != nil {
		return nil, err
	}

	var doc strings.Builder
	doc.WriteString("<!DOCTYPE html><html><body>")
	fmt.Fprintf(&doc, "<h2>Receipt for order %s</h2>", html.EscapeString(data.OrderID))
	fmt.Fprintf(&doc, "<p>Date: %s</p>", data.Date.UTC().Format("2006-01-02 15:04 UTC"))

	doc.WriteString("<table border=\"1\" cellpadding=\"4\"><tr><th>Item</th><th>Qty</th><th>Unit price</th><th>Total</th></tr>")
	for _, line := range data.Lines {
		fmt.Fprintf(&doc, "<tr><td>%s</td><td>%d</td><td>%.2f</td><td>%.2f</td></tr>",
			html.EscapeString(line.ProductName), line.Quantity, line.UnitPrice, line.LineTotal)
	}
	doc.WriteString("</table>")

	fmt.Fprintf(&doc, "<p><strong>Grand total: %.2f</strong></p>", data.GrandTotal)
	fmt.Fprintf(&doc, "<img alt=\"order QR\" src=\"data:image/png;base64,%s\"/>",
		base64.StdEncoding.EncodeToString(qrPNG))
	doc.WriteString("</body></html>")

	return []byte(doc.String()), nil
}

// orderQR encodes the order page URL (or the bare order id when no base URL
// is configured) as a PNG QR code.
func (r *htmlRenderer) orderQR(orderID string) ([]byte, error) {
	content := orderID
	if r.baseURL != "" {
		content = fmt.Sprintf("%s/orders/%s", r.baseURL, orderID)
	}

	qrCode, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(r.qrSize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}
