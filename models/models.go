// Package models defines the data structures exchanged with a remote
// authentication service: login submissions, authentication results,
// accounts and their privilege trees.
package models

// AuthInfo represents a login submission built from user input.
// It is transient: constructed per attempt and never persisted as-is.
type AuthInfo struct {
	// Step marks the phase of a multi-step flow. A non-zero value means
	// a second factor is being submitted and Passcode is required.
	Step int `json:"step,omitempty"`
	// Username is the login name entered by the user.
	Username string `json:"username"`
	// Password is the plaintext password entered by the user.
	Password string `json:"password"`
	// Passcode is the one-time code for the second factor, if any.
	Passcode string `json:"passcode,omitempty"`
	// IP is optional client address metadata forwarded to the server.
	IP string `json:"ip,omitempty"`
	// SenderType identifies the submitting device or channel.
	SenderType string `json:"senderType,omitempty"`
}

// AuthResult is the outcome of a single authentication call.
type AuthResult struct {
	// Status is the enumerated outcome of the attempt.
	Status AuthStatus `json:"status"`
	// User carries the authenticated profile on success.
	User *Account `json:"user,omitempty"`
	// Message is an optional server-provided explanation.
	Message string `json:"message,omitempty"`
}

// Account is the server-issued profile of an authenticated user.
type Account struct {
	UserID      string `json:"userId,omitempty"`
	Username    string `json:"username,omitempty"`
	Contact     string `json:"contact,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	// PasswordExpiredTime is when the current password stops being valid.
	PasswordExpiredTime *FlexTime `json:"passwordExpiredTime,omitempty"`
	// Token is the session credential issued by the server.
	Token string `json:"token,omitempty"`
	// TokenExpiredTime is when Token stops being valid.
	TokenExpiredTime *FlexTime `json:"tokenExpiredTime,omitempty"`
	NewUser          bool      `json:"newUser,omitempty"`
	UserType         string    `json:"userType,omitempty"`
	Roles            []string  `json:"roles,omitempty"`
	// Privileges is the capability tree granted to the account.
	Privileges []Privilege `json:"privileges,omitempty"`
	Language   string      `json:"language,omitempty"`
	DateFormat string      `json:"dateFormat,omitempty"`
	TimeFormat string      `json:"timeFormat,omitempty"`
	Gender     Gender      `json:"gender,omitempty"`
	ImageURL   string      `json:"imageUrl,omitempty"`
}

// Gender is the declared gender of an account.
type Gender string

const (
	Male    Gender = "M"
	Female  Gender = "F"
	Unknown Gender = "U"
)

// Privilege is a node in the capability tree granted to an account.
// Depth is unbounded; the data is caller-supplied and trusted.
type Privilege struct {
	ID string `json:"id,omitempty"`
	// Name is the display name of the capability. Always present.
	Name     string `json:"name"`
	Resource string `json:"resource,omitempty"`
	Path     string `json:"path,omitempty"`
	Icon     string `json:"icon,omitempty"`
	// Sequence orders the node among its siblings.
	Sequence int `json:"sequence,omitempty"`
	// Children are the nested capabilities, ordered by Sequence.
	Children []Privilege `json:"children,omitempty"`
}

// AuthStatus is the closed set of authentication outcomes. The numeric
// values are part of the wire contract: some deployments transmit the
// status as a raw integer, so they must never be renumbered.
type AuthStatus int

const (
	// StatusSuccess means the user authenticated.
	StatusSuccess AuthStatus = 0
	// StatusSuccessAndReactivated means a dormant account authenticated
	// and was reactivated in the process.
	StatusSuccessAndReactivated AuthStatus = 1
	// StatusTwoFactorRequired means the password was accepted and a
	// one-time passcode must be submitted next.
	StatusTwoFactorRequired AuthStatus = 2
	// StatusFail is a generic authentication failure.
	StatusFail AuthStatus = 3
	// StatusWrongPassword means the password did not match.
	StatusWrongPassword AuthStatus = 4
	// StatusPasswordExpired means the password is too old to be used.
	StatusPasswordExpired AuthStatus = 5
	// StatusAccessTimeLocked means login was attempted outside the
	// account's allowed access window.
	StatusAccessTimeLocked AuthStatus = 6
	// StatusLocked means the account is locked, e.g. after repeated
	// failed attempts.
	StatusLocked AuthStatus = 7
	// StatusSuspended means the account was suspended by an operator.
	StatusSuspended AuthStatus = 8
	// StatusDisabled means the account was permanently disabled.
	StatusDisabled AuthStatus = 9
	// StatusSystemError means the attempt failed for an internal reason
	// unrelated to the submitted credentials.
	StatusSystemError AuthStatus = 10
)
