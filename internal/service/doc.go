// Package service implements the business logic of blogauto.
//
// SurfaceService owns one mirrored text surface and one presence simulator per
// editing session. It wires the simulator's notification hooks to the draft
// repository and to the EventBus, and draws every visual change into a shared
// render.Document plus an Events renderer, so connected browsers can replay
// indicators and badges.
//
// # Event System
//
// Services publish events via EventBus for real-time updates to connected
// clients via Server-Sent Events (SSE) and WebSocket. Events carry the id of
// the surface they belong to so transports can filter per session.
package service
