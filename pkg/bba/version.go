package bba

var (
	Version     = "v0.0.0-in-progress"
	EngineBuild = "8736"
)

// WrapperVersion returns the semantic version populated at build time via
// ldflags. In development it defaults to v0.0.0-in-progress.
func WrapperVersion() string {
	return Version
}

// EngineVersion returns the build identifier of the engine release this
// module is pinned against. It tracks the engine, not this module, and only
// moves when the wrapper is revalidated against a new engine drop.
func EngineVersion() string {
	return EngineBuild
}
