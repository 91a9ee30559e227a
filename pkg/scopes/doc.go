// Package scopes matches dotted permission strings with wildcard support.
//
// "notifications.read" is granted by itself, by "notifications.*" and by "*".
package scopes
