// Package barcode provides implementations of the domain.BarcodeGenerator
// port. Tickets carry their token as the barcode payload, so generation is a
// matter of producing a URL the email template can embed.
package barcode

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"eventticketing/internal/domain"
)

// URLGenerator builds barcode image URLs from a template. The template must
// contain the placeholder {token}, e.g.
// "https://barcode.example.is/qr?data={token}".
type URLGenerator struct {
	template string
}

func NewURLGenerator(template string) (*URLGenerator, error) {
	if !strings.Contains(template, "{token}") {
		return nil, fmt.Errorf("barcode URL template must contain {token}")
	}
	return &URLGenerator{template: template}, nil
}

func (g *URLGenerator) Generate(_ context.Context, token string) (string, error) {
	return strings.ReplaceAll(g.template, "{token}", url.QueryEscape(token)), nil
}

// NoopGenerator is used when no barcode endpoint is configured. Emails fall
// back to the plain ticket link.
type NoopGenerator struct{}

func (NoopGenerator) Generate(_ context.Context, _ string) (string, error) {
	return "", nil
}

var (
	_ domain.BarcodeGenerator = (*URLGenerator)(nil)
	_ domain.BarcodeGenerator = NoopGenerator{}
)
