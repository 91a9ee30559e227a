// Package realtime pushes named events to authenticated WebSocket clients.
//
// A Registry maps a user id to that user's live connections. The Gateway
// admits a connection only after its bearer credential verifies and the
// subject resolves to an existing user; the connection leaves the registry
// when the socket closes. Emit on a user with no connections is a no-op.
//
// Every frame is a JSON envelope:
//
//	{"event": "notification", "data": {...}}
//
// With several API replicas, RedisRelay publishes events on a pub/sub
// channel and each replica forwards them to its own registry.
package realtime
