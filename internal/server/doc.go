package server

// Package server is the HTTP boundary: the gin engine, the three API
// endpoints (/info, /progress, /download) and the static front-end. It maps
// the typed tool errors onto wire responses and ties each download session's
// lifetime to its request context.
