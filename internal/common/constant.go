// Package common contains shared constants and sentinel errors used across
// Health Rocket components.
package common

// APIKeyHeaderName is the HTTP header carrying the project API key on every
// request from the client.
const APIKeyHeaderName = "X-Api-Key"
