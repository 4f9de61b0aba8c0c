package auth

import (
	"encoding/base64"
	"encoding/json"
)

// DefaultProjectID is the fallback used across the local wiring when
// GOOGLE_CLOUD_PROJECT is unset; the token's issuer and audience must agree
// with the project the emulator is running under.
const DefaultProjectID = "local-project-id"

// GenerateEmulatorToken mints an unsigned bearer token for a local viewer.
// The Firebase Auth Emulator accepts alg=none tokens, so the signature
// segment stays empty; such a token is useless against real Firebase Auth.
// The far-future exp keeps a pasted Swagger token valid for the whole dev
// session.
func GenerateEmulatorToken(projectID, viewerUID string) string {
	if projectID == "" {
		projectID = DefaultProjectID
	}

	claims := map[string]any{
		"iss":       "https://securetoken.google.com/" + projectID,
		"aud":       projectID,
		"sub":       viewerUID,
		"user_id":   viewerUID,
		"auth_time": 1,
		"iat":       1,
		"exp":       9999999999,
	}
	payload, _ := json.Marshal(claims)

	return segment([]byte(`{"alg":"none","typ":"JWT"}`)) + "." + segment(payload) + "."
}

func segment(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
