// Package platform hides the permission differences between Unix and
// Windows. On Windows, permission bits are not enforced.
package platform
