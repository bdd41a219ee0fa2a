// Package common contains shared constants and sentinel errors used across
// Chatter components.
package common

// SessionCookieName is the cookie that carries the opaque session token
// between the browser (or CLI client) and the server.
const SessionCookieName = "chatter_session"
