package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poojapath/puja-booking/internal/model"
)

var testTokenCfg = TokenConfig{
	Key:         "unit-test-signing-key",
	Issuer:      "puja-booking",
	Audience:    "puja-booking-clients",
	ExpiryHours: 24,
}

func parseClaims(t *testing.T, raw string) jwt.MapClaims {
	t.Helper()
	tok, err := jwt.Parse(raw, func(tk *jwt.Token) (interface{}, error) {
		return []byte(testTokenCfg.Key), nil
	}, jwt.WithIssuer(testTokenCfg.Issuer), jwt.WithAudience(testTokenCfg.Audience))
	require.NoError(t, err)
	require.True(t, tok.Valid)
	claims, ok := tok.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

func TestNewStaffToken_Claims(t *testing.T) {
	u := model.User{
		UserID:   "4dc7e1a8-0000-4000-8000-000000000001",
		Username: "admin",
		Email:    "admin@example.com",
		Role:     model.RoleAdmin,
	}

	access, err := NewStaffToken(testTokenCfg, u)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), access.Exp, time.Minute)

	claims := parseClaims(t, access.Token)
	assert.Equal(t, u.UserID, claims["sub"])
	assert.Equal(t, "admin", claims["username"])
	assert.Equal(t, "admin@example.com", claims["email"])
	assert.Equal(t, model.RoleAdmin, claims["role"])
}

func TestNewCustomerToken_Claims(t *testing.T) {
	email := "devotee@example.com"
	c := model.Customer{
		CustomerID:    "4dc7e1a8-0000-4000-8000-000000000002",
		FirstName:     "Asha",
		LastName:      "Iyer",
		ContactNumber: "9876543210",
		Email:         &email,
	}

	access, err := NewCustomerToken(testTokenCfg, c)
	require.NoError(t, err)

	claims := parseClaims(t, access.Token)
	assert.Equal(t, c.CustomerID, claims["sub"])
	assert.Equal(t, c.CustomerID, claims["customer_id"])
	assert.Equal(t, "Asha Iyer", claims["name"])
	assert.Equal(t, email, claims["email"])
	assert.Equal(t, "9876543210", claims["contact"])
	assert.Equal(t, model.RoleCustomer, claims["role"])
}

func TestNewCustomerToken_NoEmail(t *testing.T) {
	c := model.Customer{
		CustomerID:    "4dc7e1a8-0000-4000-8000-000000000003",
		FirstName:     "Ravi",
		LastName:      "Sharma",
		ContactNumber: "9123456780",
	}

	access, err := NewCustomerToken(testTokenCfg, c)
	require.NoError(t, err)

	claims := parseClaims(t, access.Token)
	assert.Equal(t, "", claims["email"])
}
