// Package presence simulates collaborative presence on a text surface.
//
// A Simulator attaches to a Surface, shows a coloured indicator for the local
// author and, on every tick, may fabricate a short-lived simulated collaborator.
// It also drives the transient "writing" and "saved" status badges.
//
// Nothing here talks to a real peer. Visual changes go to a Renderer, and the
// two notification points (content update, cursor update) go to Hooks, so that
// a transport can be wired in by the caller.
//
// # Timers
//
// All delays are scheduled on a clock.Clock. The simulator keeps a handle for
// every pending callback (the recurring tick, peer expiries, badge fade/removal
// and hook notifications) and cancels all of them on Teardown.
//
// # Concurrency
//
// Timer callbacks run on their own goroutines. A single mutex serialises every
// mutation so each callback runs to completion before the next one mutates
// state. Renderers are called with the lock held and must not call back into
// the simulator. Hooks and surface listeners run without the lock.
package presence
