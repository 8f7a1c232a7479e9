package common

// AccessTokenHeaderName is the gRPC metadata key carrying the access token
// on inbound requests.
const AccessTokenHeaderName = "access_token"

// TokenSize is the number of random bytes behind every access and refresh
// token. Tokens are hex encoded, so their text form is twice as long.
const TokenSize = 32
