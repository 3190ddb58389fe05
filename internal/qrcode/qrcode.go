package qrcode

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

// Tracker renders PNG QR codes pointing at an order's tracking page.
type Tracker struct {
	baseURL string
	size    int
	level   qrcode.RecoveryLevel
}

// NewTracker builds a Tracker. level is one of L, M, Q, H; anything else is M.
func NewTracker(baseURL string, size int, level string) *Tracker {
	var lv qrcode.RecoveryLevel
	switch strings.ToUpper(level) {
	case "L":
		lv = qrcode.Low
	case "Q":
		lv = qrcode.High
	case "H":
		lv = qrcode.Highest
	default:
		lv = qrcode.Medium
	}
	if size <= 0 {
		size = 256
	}
	return &Tracker{baseURL: strings.TrimRight(baseURL, "/"), size: size, level: lv}
}

// URL is the public tracking address of an order.
func (t *Tracker) URL(orderID int64) string {
	return fmt.Sprintf("%s/track_delivery/%d", t.baseURL, orderID)
}

func (t *Tracker) PNG(orderID int64) ([]byte, error) {
	code, err := qrcode.New(t.URL(orderID), t.level)
	if err != nil {
		return nil, errors.Wrap(err, "create qr code")
	}
	png, err := code.PNG(t.size)
	if err != nil {
		return nil, errors.Wrap(err, "encode qr png")
	}
	return png, nil
}
