// Package app wires the registry, the operator state and the solve cycle
// together. It is driven by the CLI and by its own HTTP front end, and holds
// no package-level state: every App owns its logger, registry and State.
package app
