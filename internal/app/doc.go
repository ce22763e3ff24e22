// Package app wires configuration, storage, the delivery engine and the
// poll loop into one runnable daemon.
package app
