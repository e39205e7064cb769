// Package gateway speaks the wallet backend's request/response contract.
//
// The backend owns balances, ledgers, and credential verification; this
// package only carries requests across that boundary and maps non-success
// responses to [StatusError] values carrying the server's message.
//
// # Architecture boundaries
//
// This package owns wire shapes and transport. It does NOT hold session
// state, retry, or interpret authorization failures — the root payease
// package decides what a 401 means for the session.
package gateway
