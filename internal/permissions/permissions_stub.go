//go:build !darwin

package permissions

// EnsurePermissions does nothing outside macOS; camera access there is
// governed by device node permissions and shows up as an open error.
func EnsurePermissions() error {
	return nil
}
