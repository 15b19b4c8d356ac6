package domain

type ResourceStatus string

const (
	ResourceStatusLoading  ResourceStatus = "loading"
	ResourceStatusReady    ResourceStatus = "ready"
	ResourceStatusFallback ResourceStatus = "fallback"
)
