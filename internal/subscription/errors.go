package subscription

import "fmt"

// InsufficientBalanceError rejects a subscription whose fund minimum exceeds
// the client's available balance. It carries the amounts the caller needs to
// render the rejection; httputil surfaces them through Details.
type InsufficientBalanceError struct {
	Balance   int64 `json:"balance"`
	Required  int64 `json:"required"`
	Shortfall int64 `json:"shortfall"`
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: have %d, need %d (short %d)", e.Balance, e.Required, e.Shortfall)
}

// Details returns the diagnostic amounts for the error response body.
func (e *InsufficientBalanceError) Details() any {
	return *e
}
