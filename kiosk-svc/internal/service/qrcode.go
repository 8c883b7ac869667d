package service

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

type QRGenerator interface {
	Generate(orderID int) ([]byte, error)
}

// DefaultQRGenerator encodes the pickup page of an order as a PNG.
type DefaultQRGenerator struct {
	BaseURL string
}

func (g DefaultQRGenerator) Generate(orderID int) ([]byte, error) {
	return qrcode.Encode(g.PickupURL(orderID), qrcode.Medium, 256)
}

func (g DefaultQRGenerator) PickupURL(orderID int) string {
	return fmt.Sprintf("%s/pickup.html?order_id=%d", strings.TrimRight(g.BaseURL, "/"), orderID)
}

// QRLink is the API path that serves the stored code.
func QRLink(orderID int) string {
	return fmt.Sprintf("/api/orders/%d/qrcode", orderID)
}
