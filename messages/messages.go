// Package messages resolves authentication outcomes and transport
// failures to user-facing text through a localization lookup.
package messages

import (
	"errors"
	"fmt"

	"github.com/dkoval/authkit/models"
)

// Resources resolves localized text by key.
type Resources interface {
	Value(key string) string
}

// GetMessage maps an authentication status to its display message.
// Statuses without a dedicated message, including the success variants,
// resolve to the generic authentication failure text.
func GetMessage(status models.AuthStatus, r Resources) string {
	switch status {
	case models.StatusFail:
		return r.Value("fail_authentication")
	case models.StatusWrongPassword:
		return r.Value("fail_wrong_password")
	case models.StatusAccessTimeLocked:
		return r.Value("fail_access_time_locked")
	case models.StatusPasswordExpired:
		return r.Value("fail_expired_password")
	case models.StatusSuspended:
		return r.Value("fail_suspended_account")
	case models.StatusLocked:
		return r.Value("fail_locked_account")
	case models.StatusDisabled:
		return r.Value("fail_disabled_account")
	default:
		return r.Value("fail_authentication")
	}
}

// ResolveMessage maps an arbitrary status through a caller-supplied
// status-to-resource-key table. The status is rendered with fmt.Sprint
// to form the table key, so integer statuses look up by their decimal
// form. When the table is nil, the status is missing from it, or the
// resource is empty, the generic authentication failure text is
// returned.
func ResolveMessage(status any, r Resources, table map[string]string) string {
	if table != nil {
		if key, ok := table[fmt.Sprint(status)]; ok {
			if v := r.Value(key); v != "" {
				return v
			}
		}
	}
	return r.Value("fail_authentication")
}

// ErrorMessage is a titled display message for a transport failure.
type ErrorMessage struct {
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

// statusCoder is implemented by transport errors that carry an
// HTTP-like status code, such as *client.Error.
type statusCoder interface {
	StatusCode() int
}

// GetErrorMessage maps a transport failure to a titled display message
// by its status code: 503 resolves to the service-unavailable text and
// everything else, including a nil error, to the internal-error text.
func GetErrorMessage(err error, r Resources) ErrorMessage {
	msg := r.Value("error_internal")
	var sc statusCoder
	if err != nil && errors.As(err, &sc) {
		switch sc.StatusCode() {
		case 500:
			msg = r.Value("error_internal")
		case 503:
			msg = r.Value("error_service_unavailable")
		}
	}
	return ErrorMessage{
		Title:   r.Value("error"),
		Message: msg,
	}
}
