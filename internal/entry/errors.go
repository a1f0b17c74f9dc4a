package entry

import "errors"

// Error taxonomy for scan, drill-down and deletion operations. These
// are per-path terminal outcomes; none of them aborts a batch or
// crashes the process.
var (
	// ErrSecurityRejected marks a path that resolves outside the
	// allowed boundary. Such paths are never touched.
	ErrSecurityRejected = errors.New("path outside allowed boundary")

	// ErrNotFound marks a path that vanished between a scan and the
	// requested action.
	ErrNotFound = errors.New("path not found")

	// ErrPermissionDenied is surfaced only after both the unprivileged
	// and the elevated attempt failed.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrElevationCancelled marks a deletion skipped because the
	// operator declined the credential prompt for its batch.
	ErrElevationCancelled = errors.New("elevation cancelled")
)
