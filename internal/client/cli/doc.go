// Package cli provides the interactive AgriTrack command-line client.
//
// It wires configuration, the REST API client, the local session store, and an
// interactive REPL for tracking agricultural products along the supply chain.
//
// Key features:
//   - Login / Register / Logout with a persisted session
//   - List, search, and show products with their tracking timeline
//   - Add tracking stages, gated by the account's stage permissions
//   - Farms, dashboard stats, CSV export, and a live product watch
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
