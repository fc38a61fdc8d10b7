package session

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/seren-dev/songhop/internal/models"
	"github.com/seren-dev/songhop/internal/shared"
)

// callbackResult is the tagged outcome of decoding one callback payload.
// The raw JSON never escapes this boundary: callers see either a complete
// profile/token pair or an error.
type callbackResult struct {
	profile *models.Profile
	token   string
	err     error
}

// decodeCallback unpacks the base64+JSON bundle the service appends to the
// redirect. A payload missing either the profile or the token is malformed;
// so is anything that fails to decode. All failure modes collapse into
// [shared.ErrMalformedCallback] — raw decode errors are logged upstream,
// never shown.
func decodeCallback(encoded string) callbackResult {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return callbackResult{err: fmt.Errorf("%w: %v", shared.ErrMalformedCallback, err)}
	}

	var payload struct {
		User  *models.Profile `json:"user"`
		Token string          `json:"token"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return callbackResult{err: fmt.Errorf("%w: %v", shared.ErrMalformedCallback, err)}
	}

	if payload.User == nil || payload.Token == "" {
		return callbackResult{err: fmt.Errorf("%w: incomplete payload", shared.ErrMalformedCallback)}
	}

	return callbackResult{profile: payload.User, token: payload.Token}
}
