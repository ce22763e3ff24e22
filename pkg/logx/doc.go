// Package logx is a thin structured-logging layer over zerolog.
//
// It exposes a small Logger value with explicit Field helpers so call sites
// stay readable without importing zerolog directly. The Service owns the
// sinks (console and optional file) and supports swapping level and outputs
// at runtime via Apply, which is how config hot reload changes log verbosity
// without restarting the daemon.
//
// The zero Logger value is a safe no-op.
package logx
