// Package requestid attaches a correlation id to every HTTP request and
// exposes it to structured logging through LoggerExtractor.
package requestid
