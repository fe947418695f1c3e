// Package services defines interface [Service] for upstream music catalog
// queries and provides the Spotify Web API implementation.
//
// Every query takes a bearer access token obtained from the auth broker;
// the service itself holds no credential state. Responses are narrowed to
// the record types in [github.com/lmfernandez/tastify/internal/models]
// before they leave the package.
//
// [APIService] is a raw HTTP client for the tastify server itself, used by
// the CLI to poke a running instance.
package services
