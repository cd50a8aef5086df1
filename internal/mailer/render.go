package mailer

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"shop-fulfillment/internal/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// ErrNoTemplate is returned for event types that have no email, such as picked-up.
var ErrNoTemplate = errors.New("no email template for event")

const defaultBrand = "Orter Clothing"

type mail struct {
	file    string
	subject func(ev models.OrderEvent, brand string) string
}

var mails = map[models.EventType]mail{
	models.EventOrderConfirmed: {"confirmation", func(_ models.OrderEvent, brand string) string {
		return "Order Confirmation - " + brand
	}},
	models.EventOrderCancelled: {"cancellation", func(_ models.OrderEvent, brand string) string {
		return "Order Cancelled - " + brand
	}},
	models.EventOrderShipped: {"tracking", func(models.OrderEvent, string) string {
		return "Your Order Has Been Shipped"
	}},
	models.EventOrderReadyForPickup: {"ready_for_pickup", func(models.OrderEvent, string) string {
		return "Your Order is Ready for Pickup"
	}},
	models.EventOrderDelivered: {"delivered", func(ev models.OrderEvent, _ string) string {
		return "Order Delivered - " + ev.OrderNumber
	}},
}

type view struct {
	Event  models.OrderEvent
	Brand  string
	Year   int
	Pickup bool
}

type Renderer struct {
	brand string
	sets  map[models.EventType]*template.Template
}

type RendererOption func(*Renderer)

func WithBrand(name string) RendererOption {
	return func(r *Renderer) {
		if name != "" {
			r.brand = name
		}
	}
}

// NewRenderer parses every template up front. Relative image paths are
// resolved against assetBaseURL.
func NewRenderer(assetBaseURL string, opts ...RendererOption) (*Renderer, error) {
	r := &Renderer{brand: defaultBrand, sets: make(map[models.EventType]*template.Template, len(mails))}
	for _, opt := range opts {
		opt(r)
	}

	funcs := template.FuncMap{
		"asset": assetURL(assetBaseURL),
		"money": func(d decimal.Decimal) string { return "Rs. " + d.StringFixed(2) },
		"date":  func(t time.Time) string { return t.Format("January 2, 2006") },
		"upper": func(v any) string { return strings.ToUpper(fmt.Sprint(v)) },
	}
	for t, m := range mails {
		set, err := template.New(m.file).Funcs(funcs).ParseFS(templateFS, "templates/layout.tmpl", "templates/"+m.file+".tmpl")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", m.file, err)
		}
		r.sets[t] = set
	}
	return r, nil
}

// Render returns the subject and HTML body for ev.
func (r *Renderer) Render(ev models.OrderEvent) (subject, body string, err error) {
	m, ok := mails[ev.Type]
	if !ok {
		return "", "", fmt.Errorf("%w %q", ErrNoTemplate, ev.Type)
	}
	var buf bytes.Buffer
	v := view{
		Event:  ev,
		Brand:  r.brand,
		Year:   ev.OccurredAt.Year(),
		Pickup: ev.DeliveryType == models.DeliveryTypePickup,
	}
	if err := r.sets[ev.Type].ExecuteTemplate(&buf, "layout", v); err != nil {
		return "", "", fmt.Errorf("render %s: %w", m.file, err)
	}
	return m.subject(ev, r.brand), buf.String(), nil
}

func assetURL(base string) func(string) string {
	base = strings.TrimRight(base, "/")
	return func(p string) string {
		if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") || base == "" {
			return p
		}
		return base + "/" + strings.TrimLeft(p, "/")
	}
}
