// Package manager owns the single model handle of the process and coordinates
// provisioning, loading and access to it. It is structured into small files by
// concern:
//
//   - manager.go: core Manager type, constructor, getters, Close.
//   - config.go: ManagerConfig and package defaults; New applies defaults.
//   - types.go: LoadState.
//   - errors.go: ModelLoadError.
//   - ensure.go: EnsureLoaded/Preload; the load guard (singleflight).
//   - admission.go: engine slot acquisition.
//   - infer.go: Generate and Chat with request defaults.
//   - status_report.go: Health/Status/Ready/Models reporting.
//   - events.go, eventpub_*.go: lifecycle events.
//   - metrics.go: Prometheus collectors.
//
// The engine itself lives in internal/llm; artifacts are fetched through
// internal/provision.
package manager
