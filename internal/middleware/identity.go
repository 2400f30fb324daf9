package middleware

// identity.go holds small helpers over the claims that JWTAuth stores
// in the Echo context.

import "github.com/labstack/echo/v4"

// Principal describes the authenticated caller as far as the claims go.
type Principal struct {
	UserID     string
	Role       string
	CustomerID string
}

// CurrentPrincipal reads the claim values JWTAuth stored in context.
// Fields are empty when the request carried no token.
func CurrentPrincipal(c echo.Context) Principal {
	var p Principal
	if v, ok := c.Get("user_id").(string); ok {
		p.UserID = v
	}
	if v, ok := c.Get("role").(string); ok {
		p.Role = v
	}
	if v, ok := c.Get("customer_id").(string); ok {
		p.CustomerID = v
	}
	return p
}

// IsStaff reports whether the principal holds a staff role rather than
// a customer one.
func (p Principal) IsStaff() bool {
	switch p.Role {
	case "Admin", "Manager", "User":
		return true
	}
	return false
}

// currentUserID identifies the caller for rate-limit bucketing.
func currentUserID(c echo.Context) string {
	if v, ok := c.Get("user_id").(string); ok && v != "" {
		return v
	}
	return "anon"
}
