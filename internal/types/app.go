package types

// App represents a launchable application as seen by the launcher.
// The platform package manager produces these; the engine only filters them.
type App struct {
	Label       string `json:"label"`
	PackageName string `json:"packageName"`
}
