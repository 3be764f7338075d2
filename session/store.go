// Package session propagates an authenticated account into
// caller-owned storage through sink callbacks.
package session

import "github.com/dkoval/authkit/models"

// Store pushes account into the caller's storage via the two sinks.
//
// A nil account is the logout path: both sinks are invoked with their
// empty value. Otherwise setAccount receives the account, and when the
// account carries a non-empty privilege list setPrivileges is invoked
// twice, first with nil and then with the list. Observers therefore
// always see a clear-then-set transition and never merge an old tree
// with a new one. An account without privileges leaves the privilege
// sink untouched.
//
// Either sink may be nil, in which case it is skipped.
func Store(account *models.Account, setAccount func(*models.Account), setPrivileges func([]models.Privilege)) {
	if account == nil {
		if setAccount != nil {
			setAccount(nil)
		}
		if setPrivileges != nil {
			setPrivileges(nil)
		}
		return
	}
	if setAccount != nil {
		setAccount(account)
	}
	if setPrivileges != nil && len(account.Privileges) != 0 {
		setPrivileges(nil)
		setPrivileges(account.Privileges)
	}
}
