// Package ltmhttp exposes the Analysis API (§4.6) over HTTP and
// WebSocket (§10.6): a gorilla/mux router serves point-in-time JSON
// lookups, and a websocket hub streams each step's snapshot to connected
// dashboards as a run progresses. This transport only re-presents data
// the core already computed; it never feeds back into link or loop
// scoring.
//
// Grounded on cryptorun's internal/interfaces/http.Server (router setup,
// middleware chain, JSON response helper) for the HTTP half, and on
// yoghaf-market-indikator's internal/broadcast.Hub/Client (register/
// unregister channels, per-client buffered send, non-blocking fan-out
// that drops rather than blocks a slow client) for the WebSocket half —
// adapted from MsgPack snapshot frames to JSON step snapshots, since this
// module has no equivalent throughput pressure to justify a binary wire
// format.
package ltmhttp
