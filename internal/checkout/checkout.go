package checkout

import (
	"github.com/frahmantamala/ipg-checkout/internal/ipg"
)

const (
	NoteSuccess = "IPG Success"
	NoteFailed  = "IPG Failed"

	ConfirmationMessage = "Muchas gracias por tu pago! Tu orden está siendo procesada"
	SubmitLabel         = "PAGAR"

	ResultSuccess = "success"
)

// Settings is what the storefront shows about the gateway.
type Settings struct {
	Enabled      bool
	Title        string
	Description  string
	Instructions string
	CheckoutURL  string
}

// ReturnView is what the order-received page shows: either the
// confirmation or a signed form that sends the buyer to the gateway.
type ReturnView struct {
	OrderID int64
	Status  string
	Total   string
	Title   string
	Paid    bool
	Message string
	Label   string
	Request *ipg.GatewayRequest
}

type PaymentResult struct {
	Result   string `json:"result"`
	Redirect string `json:"redirect"`
}

type PaymentMethod struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
