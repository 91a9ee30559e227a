// Package redis connects to Redis for the cross-instance real-time relay.
//
// Redis is optional for the API: when REDIS_URL is empty the process keeps
// every real-time push local. Connect pings with retries so the API does not
// start half-wired.
package redis
