package auth

import "errors"

// ErrInvalidCredentials is returned when the email/password pair does not
// match a stored user. Unknown email and wrong password are deliberately
// indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrDuplicate is returned when trying to create a user with an email that already exists
var ErrDuplicate = errors.New("user with this email already exists")

// ErrUserNotFound is returned when a user id resolves to no stored user.
var ErrUserNotFound = errors.New("user not found")

// ErrGenAccessToken is returned when we cannot create a JWT.
var ErrGenAccessToken = errors.New("failed to generate access token")

// ErrUnsupportedJWTAlg is returned at boot when the configured signing
// algorithm is not supported.
var ErrUnsupportedJWTAlg = errors.New("unsupported JWT algorithm")

// ErrInvalidTokenMissingUserID is returned when a verified token lacks the user_id claim.
var ErrInvalidTokenMissingUserID = errors.New("invalid token: missing user_id claim")

// ErrInvalidTokenMissingEmail is returned when a verified token lacks the email claim.
var ErrInvalidTokenMissingEmail = errors.New("invalid token: missing email claim")
