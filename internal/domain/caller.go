package domain

// CallerContext is the verified identity attached to every request by
// the auth middleware and passed explicitly into service operations.
type CallerContext struct {
	Email   string
	IsAdmin bool
}
