package service

import "time"

// ReceiptLine is one itemized row of a receipt.
type ReceiptLine struct {
	ProductName string
	Quantity    int
	UnitPrice   float64
	LineTotal   float64
}

// ReceiptData is the input of receipt rendering, a pure function of the
// committed checkout.
type ReceiptData struct {
	OrderID    string
	Date       time.Time
	Lines      []ReceiptLine
	GrandTotal float64
}

// ReceiptRenderer builds the receipt document delivered to the buyer.
type ReceiptRenderer interface {
	// Render produces the receipt document (HTML with an embedded QR code
	// linking to the order page) from the checkout data.
	Render(data ReceiptData) ([]byte, error)
}
