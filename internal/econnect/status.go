package econnect

// Status codes named in the provider documentation. The gateway passes
// status codes through unchecked; these exist so callers don't spell them.
const (
	// JobStatusDistributionReadyFor releases a job that was prepared with
	// pinProcessSilent=FALSE.
	JobStatusDistributionReadyFor = "DISTRIBUTION_READY_FOR"

	DocumentStatusWarningUserInteractionRequired = "WARNING_USER_INTERACTION_REQUIRED"
)
