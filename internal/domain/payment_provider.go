package domain

// PaymentProvider bridges to the external payment collaborator. CreateOrder
// returns the handle the client completes the payment with; the asynchronous
// result comes back through the payment confirmation endpoint.
type PaymentProvider interface {
	CreateOrder(booking *Booking, user *User) (*PaymentOrder, error)
}
