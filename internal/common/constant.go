package common

// AuthHeaderName is the HTTP header carrying the bearer access token.
const AuthHeaderName = "Authorization"

// MaxMessageLen is the maximum length of a wall message, in characters.
const MaxMessageLen = 256

// MaxImageBytes is the maximum accepted image size. Larger files are
// rejected before any storage call is attempted.
const MaxImageBytes = 5 << 20
