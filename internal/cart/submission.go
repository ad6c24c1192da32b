package cart

// Submission is the payload handed to the sales backend to realize the
// cart as a sale or order.
type Submission struct {
	Items         []SubmissionItem `json:"items"`
	TotalAmount   float64          `json:"totalAmount"`
	PaymentMethod string           `json:"paymentMethod"`
}

// SubmissionItem carries the active unit price plus, when the cashier
// overrode it, the override amount on its own field so the backend can
// audit listed price against charged price.
type SubmissionItem struct {
	ProductID   string   `json:"productId"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unitPrice"`
	CustomPrice *float64 `json:"customPrice,omitempty"`
}

// BuildSubmission projects the current line items into a submission
// payload. It is a pure read: the cart is left exactly as it was, so a
// failed submission can be retried with an identical payload. Clearing
// after a confirmed sale is the caller's step.
func (c *Cart) BuildSubmission(paymentMethod string) Submission {
	items := make([]SubmissionItem, 0, len(c.items))
	for _, it := range c.items {
		si := SubmissionItem{
			ProductID: it.Product.ID,
			Quantity:  it.Quantity,
			UnitPrice: it.Price.Amount(),
		}
		if it.Price.Overridden() {
			amount := it.Price.Amount()
			si.CustomPrice = &amount
		}
		items = append(items, si)
	}

	return Submission{
		Items:         items,
		TotalAmount:   c.Total(),
		PaymentMethod: paymentMethod,
	}
}
