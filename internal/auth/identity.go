package auth

// Identity is the set of admin claims carried inside a session token.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Codec signs an identity into a bearer token and verifies a presented
// token back into an identity. Verify returns nil for any invalid token:
// bad signature, malformed structure, wrong algorithm, or past expiry.
//
// Both implementations emit standard HS256 compact JWTs with the claims
// {id, name, email, iat, exp}, so tokens signed by one codec verify under
// the other as long as they share the same secret.
type Codec interface {
	Sign(identity Identity) (string, error)
	Verify(token string) *Identity
}
