package flutterwave

// Status values returned by the API envelope and by transactions
const (
	StatusSuccess         = "success"
	TransactionSuccessful = "successful"
	TransactionFailed     = "failed"
)

// Customer identifies the payer on the hosted checkout page
type Customer struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Customizations brand the hosted checkout page
type Customizations struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// PaymentRequest is the body of POST /v3/payments
type PaymentRequest struct {
	TxRef          string         `json:"tx_ref"`
	Amount         int64          `json:"amount"`
	Currency       string         `json:"currency"`
	RedirectURL    string         `json:"redirect_url"`
	Customer       Customer       `json:"customer"`
	Customizations Customizations `json:"customizations"`
}

// PaymentResponse carries the hosted checkout link
type PaymentResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Link string `json:"link"`
	} `json:"data"`
}

// Transaction is a charge as reported by verify calls and webhooks
type Transaction struct {
	ID            int64    `json:"id"`
	TxRef         string   `json:"tx_ref"`
	FlwRef        string   `json:"flw_ref"`
	Amount        float64  `json:"amount"`
	ChargedAmount float64  `json:"charged_amount"`
	Currency      string   `json:"currency"`
	Status        string   `json:"status"`
	Customer      Customer `json:"customer"`
}

// TransactionResponse is the envelope of the verify endpoints
type TransactionResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    Transaction `json:"data"`
}

// Successful reports whether both the call and the charge succeeded
func (r TransactionResponse) Successful() bool {
	return r.Status == StatusSuccess && r.Data.Status == TransactionSuccessful
}
