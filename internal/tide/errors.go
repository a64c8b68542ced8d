package tide

import "errors"

// ErrRemoteUnavailable is the single signal every remote failure mode is
// normalized to: network errors, malformed payloads, quota exhaustion,
// missing or rejected credentials. The orchestrator recovers from it by
// falling back to the harmonic model; it is never surfaced to end users
// as a failure.
var ErrRemoteUnavailable = errors.New("remote tide source unavailable")
