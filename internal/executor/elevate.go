package executor

import "errors"

// ErrNoPrivileges is returned when an operation requires administrator
// rights but no elevation mechanism is available.
var ErrNoPrivileges = errors.New("this operation requires administrator privileges, but no elevation mechanism is available")

// CanElevate returns true if the process can obtain elevated rights.
func CanElevate() bool {
	return isRoot() || canElevate()
}

// CheckPrivileges returns an error if privileges cannot be elevated when needed.
func CheckPrivileges(needsElevation bool) error {
	if !needsElevation {
		return nil
	}
	if !CanElevate() {
		return ErrNoPrivileges
	}
	return nil
}
