package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// hmacHeader is the fixed JOSE header for HS256 compact tokens.
const hmacHeader = `{"alg":"HS256","typ":"JWT"}`

type hmacClaims struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Iat    int64  `json:"iat"`
	Exp    int64  `json:"exp"`
}

// HMACCodec signs and verifies session tokens using only the portable
// crypto primitives (HMAC-SHA-256, base64url, JSON). It produces tokens
// interchangeable with JWTCodec given the same secret.
type HMACCodec struct {
	secret []byte
	ttl    time.Duration
}

func NewHMACCodec(secret string, ttl time.Duration) *HMACCodec {
	return &HMACCodec{secret: []byte(secret), ttl: ttl}
}

func (c *HMACCodec) Sign(identity Identity) (string, error) {
	now := time.Now()
	payload, err := json.Marshal(hmacClaims{
		UserID: identity.ID,
		Name:   identity.Name,
		Email:  identity.Email,
		Iat:    now.Unix(),
		Exp:    now.Add(c.ttl).Unix(),
	})
	if err != nil {
		return "", err
	}

	signingInput := base64.RawURLEncoding.EncodeToString([]byte(hmacHeader)) +
		"." + base64.RawURLEncoding.EncodeToString(payload)

	return signingInput + "." + c.signature(signingInput), nil
}

func (c *HMACCodec) Verify(token string) *Identity {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil
	}

	signingInput := parts[0] + "." + parts[1]
	expected := c.signature(signingInput)
	if !hmac.Equal([]byte(expected), []byte(parts[2])) {
		return nil
	}

	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil
	}
	var header struct {
		Alg string `json:"alg"`
	}
	if err := json.Unmarshal(headerJSON, &header); err != nil || header.Alg != "HS256" {
		return nil
	}

	payloadJSON, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil
	}
	var claims hmacClaims
	if err := json.Unmarshal(payloadJSON, &claims); err != nil {
		return nil
	}

	if claims.Exp == 0 || time.Now().Unix() >= claims.Exp {
		return nil
	}

	return &Identity{ID: claims.UserID, Name: claims.Name, Email: claims.Email}
}

func (c *HMACCodec) signature(signingInput string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(signingInput))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
