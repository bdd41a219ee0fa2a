// Package cli provides the interactive Chatter command-line client.
//
// It wires configuration, local storage, the HTTP API client, and the
// session reconciler into an interactive REPL. On startup the last known
// identity is restored from the local cache and confirmed against the
// server in the background; the prompt reflects the current session state.
//
// Key features:
//   - Register / Login / Logout against the Chatter server
//   - whoami / users backed by the server API
//   - Local post board, contact book, favorites and message history kept
//     on this device
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
