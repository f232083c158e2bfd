package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// SessionHeaderName is the gRPC metadata key identifying the client session
// that login attempts are counted against.
const SessionHeaderName = "session_id"
