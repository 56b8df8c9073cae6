package ipg

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// MethodID identifies this gateway as an order's payment method.
	MethodID = "firstdata_ipg"

	SandboxEndpoint    = "https://test.ipg-online.com/connect/gateway/processing"
	ProductionEndpoint = "https://ipg-online.com/connect/gateway/processing"

	TxnTypeSale = "sale"
	ModePayOnly = "payonly"
)

// Settings is the merchant configuration the builder signs with.
type Settings struct {
	StoreID      string
	SharedSecret string
	Timezone     string
	Currency     string
	Sandbox      bool
	// CheckoutURL is the storefront checkout page the return URLs hang off.
	CheckoutURL string
}

// Order is the slice of an order the gateway request needs.
type Order struct {
	ID    string
	Key   string
	Total decimal.Decimal
}

type Field struct {
	Name  string
	Value string
}

// GatewayRequest is one signed payment attempt. It is never persisted.
type GatewayRequest struct {
	Endpoint           string
	OrderID            string
	TxnType            string
	Timezone           string
	TxnDateTime        string
	HashAlgorithm      string
	Hash               string
	StoreName          string
	Mode               string
	ChargeTotal        string
	Currency           string
	ResponseSuccessURL string
	ResponseFailURL    string
}

// Fields returns the form fields in the order they are posted.
func (r *GatewayRequest) Fields() []Field {
	return []Field{
		{Name: "ponumber", Value: r.OrderID},
		{Name: "txntype", Value: r.TxnType},
		{Name: "timezone", Value: r.Timezone},
		{Name: "txndatetime", Value: r.TxnDateTime},
		{Name: "hash_algorithm", Value: r.HashAlgorithm},
		{Name: "hash", Value: r.Hash},
		{Name: "storename", Value: r.StoreName},
		{Name: "mode", Value: r.Mode},
		{Name: "chargetotal", Value: r.ChargeTotal},
		{Name: "currency", Value: r.Currency},
		{Name: "responseSuccessURL", Value: r.ResponseSuccessURL},
		{Name: "responseFailURL", Value: r.ResponseFailURL},
	}
}

func (r *GatewayRequest) Values() url.Values {
	values := url.Values{}
	for _, f := range r.Fields() {
		values.Set(f.Name, f.Value)
	}
	return values
}

func Endpoint(sandbox bool) string {
	if sandbox {
		return SandboxEndpoint
	}
	return ProductionEndpoint
}

// FormatAmount renders a total with two fractional digits and a '.'
// separator, rounding half away from zero.
func FormatAmount(total decimal.Decimal) string {
	return total.StringFixed(2)
}

// OrderReceivedURL is the storefront thank-you page for an order. The order
// key rides along so anonymous requests can be tied to the order.
func OrderReceivedURL(checkoutURL, orderID, orderKey string) string {
	return strings.TrimRight(checkoutURL, "/") + "/order-received/" + url.PathEscape(orderID) + "/?key=" + url.QueryEscape(orderKey)
}

func ReturnURL(checkoutURL, orderID, orderKey, stat string) string {
	return OrderReceivedURL(checkoutURL, orderID, orderKey) + "&" + StatusParam + "=" + stat
}

type Option func(*Builder)

// WithClock replaces time.Now, mainly for fixtures.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) {
		b.now = now
	}
}

// Builder turns orders into signed gateway requests.
type Builder struct {
	settings Settings
	location *time.Location
	now      func() time.Time
}

func NewBuilder(settings Settings, opts ...Option) (*Builder, error) {
	loc, err := LoadLocation(settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("ipg builder: %w", err)
	}

	b := &Builder{
		settings: settings,
		location: loc,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *Builder) Endpoint() string {
	return Endpoint(b.settings.Sandbox)
}

// Build signs a fresh request for o. The clock is read once so that
// txndatetime and the hash always describe the same instant.
func (b *Builder) Build(o Order) *GatewayRequest {
	amount := FormatAmount(o.Total)
	timestamp := FormatTimestamp(b.now(), b.location)

	return &GatewayRequest{
		Endpoint:           b.Endpoint(),
		OrderID:            o.ID,
		TxnType:            TxnTypeSale,
		Timezone:           b.settings.Timezone,
		TxnDateTime:        timestamp,
		HashAlgorithm:      HashAlgorithm,
		Hash:               CreateHash(b.settings.StoreID, timestamp, amount, b.settings.Currency, b.settings.SharedSecret),
		StoreName:          b.settings.StoreID,
		Mode:               ModePayOnly,
		ChargeTotal:        amount,
		Currency:           b.settings.Currency,
		ResponseSuccessURL: ReturnURL(b.settings.CheckoutURL, o.ID, o.Key, StatSuccess),
		ResponseFailURL:    ReturnURL(b.settings.CheckoutURL, o.ID, o.Key, StatFail),
	}
}
