// Package main hosts the mlhdclean CLI entrypoint and command graph.
//
// The Cobra-based command tree exposes the cleaning run, reference catalog
// import and inspection, one-off MBID resolution, preflight checks, and
// configuration scaffolding. It centralizes configuration resolution and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
