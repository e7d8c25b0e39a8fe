// Package paths provides centralized path handling for hostprep.
// It implements XDG Base Directory compliance for configuration and state,
// resolves the provisioning root directory (where list files live), and
// resolves the repository clone root.
package paths
