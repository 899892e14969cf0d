// Package process starts converter processes in their own process group so
// that cancelling a conversion also stops the engine pandoc spawned.
package process
