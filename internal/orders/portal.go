package orders

import "context"

// Session is the authentication artifact a Portal produces, it is only valid for the
// operation it was created for and is never stored.
type Session interface {
	// Describe returns a description of the session that is safe to log.
	Describe() string
}

// Portal is one integration surface of the food-delivery portal.
type Portal interface {
	// Login exchanges credentials for a session, resolving anything else the later calls
	// need (like the restaurant id).
	Login(ctx context.Context, creds Credentials) (Session, error)
	// Orders returns the open orders with their details merged in where available.
	Orders(ctx context.Context, session Session) ([]Order, error)
	// UpdateStatus moves an order to the transition's target status.
	UpdateStatus(ctx context.Context, session Session, transition StatusTransition) error
}
