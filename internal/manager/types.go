package manager

// LoadState is the lifecycle state of the model handle.
type LoadState string

const (
	StateIdle    LoadState = "idle" // no load attempted yet
	StateLoading LoadState = "loading"
	StateFailed  LoadState = "failed"
	StateLoaded  LoadState = "loaded"
)
