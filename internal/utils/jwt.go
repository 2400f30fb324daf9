package utils // package utils provides helper functions for hashing and token issuance

import (
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens

    "github.com/poojapath/puja-booking/internal/model"
)

// AccessToken represents a signed HS256 JWT along with its expiry.  The
// Token field contains the serialized JWT string; Exp records the UTC
// expiration so handlers can echo it back to clients.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// TokenConfig carries the signing parameters shared by both principal
// types.  Issuer and audience are embedded in every token and re-checked
// by the auth middleware; ExpiryHours defaults to 24 at the config layer.
type TokenConfig struct {
    Key         string
    Issuer      string
    Audience    string
    ExpiryHours int
}

// NewStaffToken builds and signs a JWT for a staff user.  Claims: sub
// (user GUID), username, email, role, plus iss/aud/exp/iat.
func NewStaffToken(cfg TokenConfig, u model.User) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(cfg.ExpiryHours) * time.Hour)
    claims := jwt.MapClaims{
        "sub":      u.UserID,
        "username": u.Username,
        "email":    u.Email,
        "role":     u.Role,
        "iss":      cfg.Issuer,
        "aud":      cfg.Audience,
        "exp":      exp.Unix(),
        "iat":      now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(cfg.Key))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// NewCustomerToken builds and signs a JWT for a self-service customer.
// The customer GUID is carried twice: as the subject and as an explicit
// "customer_id" claim, so authorization code can read it by name without
// caring which principal type issued the token.  Role is always the
// fixed "Customer" claim.
func NewCustomerToken(cfg TokenConfig, c model.Customer) (AccessToken, error) {
    email := ""
    if c.Email != nil {
        email = *c.Email
    }
    now := time.Now().UTC()
    exp := now.Add(time.Duration(cfg.ExpiryHours) * time.Hour)
    claims := jwt.MapClaims{
        "sub":         c.CustomerID,
        "name":        c.FullName(),
        "email":       email,
        "contact":     c.ContactNumber,
        "role":        model.RoleCustomer,
        "customer_id": c.CustomerID,
        "iss":         cfg.Issuer,
        "aud":         cfg.Audience,
        "exp":         exp.Unix(),
        "iat":         now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(cfg.Key))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}
