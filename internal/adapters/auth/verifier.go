package auth

import "crypto/subtle"

// StaticVerifier checks admin bearer tokens against a single configured
// secret. It replaces any ambient "is the admin logged in" global: the
// token travels with the request and the check is injected where needed.
type StaticVerifier struct {
	token string
}

func NewStaticVerifier(token string) *StaticVerifier {
	return &StaticVerifier{token: token}
}

func (v *StaticVerifier) Verify(token string) bool {
	if v.token == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(v.token), []byte(token)) == 1
}
