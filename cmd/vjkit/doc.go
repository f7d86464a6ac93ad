// Package main hosts the vjkit CLI entrypoint and command tree.
//
// The Cobra-based commands cover running the pipeline with the standard
// effect stack and a terminal status display, enumerating capture
// devices, and inspecting gradient asset directories. Configuration
// resolution and logging setup live here so subcommands stay
// declarative; the pipeline itself is assembled from the root vjkit
// package.
//
// Keep this package lean: new functionality belongs in the library
// packages first, surfaced here through dedicated commands or flags.
package main
