package notification

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/dustin/go-humanize"
	errors "github.com/frahmantamala/ipg-checkout/internal"
	"github.com/frahmantamala/ipg-checkout/internal/core/common/validation"
	"github.com/frahmantamala/ipg-checkout/internal/ipg"
	"github.com/frahmantamala/ipg-checkout/internal/order"
)

const (
	TemplateCompletedOrder = "customer_completed_order"
	TemplateOnHoldOrder    = "customer_on_hold_order"
)

// ValidateTemplate checks a template name taken from outside the process,
// such as a command-line flag.
func ValidateTemplate(name string) *errors.AppError {
	validator := validation.NewValidator()
	validator.Field("template", name).
		Required().
		OneOf(TemplateCompletedOrder, TemplateOnHoldOrder)
	return validator.Validate()
}

type content struct {
	subject *template.Template
	body    *template.Template
}

var templateSources = map[string][2]string{
	TemplateCompletedOrder: {
		"Payment received for order #{{.OrderID}}",
		`Hi,

We have received your payment of {{.Total}} for order #{{.OrderID}}.
Muchas gracias por tu pago! Tu orden está siendo procesada.
`,
	},
	TemplateOnHoldOrder: {
		"Order #{{.OrderID}} is waiting for payment",
		`Hi,

Your order #{{.OrderID}} for {{.Total}} is on hold until the payment is confirmed.
{{- if .Instructions}}

{{.Instructions}}
{{- end}}
`,
	},
}

type templateData struct {
	OrderID      int64
	Total        string
	Status       string
	Instructions string
}

// Renderer turns an order into an email for a named template.
type Renderer struct {
	templates    map[string]content
	instructions string
}

func NewRenderer(instructions string) *Renderer {
	templates := make(map[string]content, len(templateSources))
	for name, src := range templateSources {
		templates[name] = content{
			subject: template.Must(template.New(name + ".subject").Parse(src[0])),
			body:    template.Must(template.New(name + ".body").Parse(src[1])),
		}
	}
	return &Renderer{
		templates:    templates,
		instructions: strings.TrimSpace(instructions),
	}
}

func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

func (r *Renderer) Render(name string, o *order.Order) (*Message, error) {
	tpl, ok := r.templates[name]
	if !ok {
		return nil, errors.ErrUnknownTemplate
	}

	data := templateData{
		OrderID: o.ID,
		Total:   FormatTotal(o),
		Status:  o.Status,
	}
	// Instructions only belong to gateway orders that are still waiting.
	if o.PaymentMethod == ipg.MethodID && o.HasStatus(order.StatusOnHold) {
		data.Instructions = r.instructions
	}

	var subject, body bytes.Buffer
	if err := tpl.subject.Execute(&subject, data); err != nil {
		return nil, fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := tpl.body.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("render %s body: %w", name, err)
	}

	return &Message{
		To:      o.BillingEmail,
		Subject: subject.String(),
		Body:    body.String(),
	}, nil
}

// FormatTotal renders a total for people, e.g. "$1,234.50".
func FormatTotal(o *order.Order) string {
	return "$" + humanize.FormatFloat("#,###.##", o.Total.Round(2).InexactFloat64())
}
