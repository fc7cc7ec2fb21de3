package model

// Package model defines the domain data structures shared across the server:
// the reduced video/format projection sent to the browser, download requests,
// progress events, and the transfer-session state enum. Structures are
// designed for direct JSON rendering and explicit state transitions.
