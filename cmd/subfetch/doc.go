// Package main hosts the subfetch CLI entrypoint and command graph.
//
// The Cobra-based command tree covers scanning folders for videos without
// subtitles, running the bounded download pool, checking and installing the
// Python-side dependencies, browsing recorded run history, and configuration
// scaffolding. It centralizes configuration resolution and structured logging
// setup so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
