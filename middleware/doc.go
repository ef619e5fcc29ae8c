// Package middleware exposes HTTP middleware adapters for hydrating sealed
// cookie sessions before application handlers run.
//
// # Adapters
//
//   - [Hydrate] restores the session once per request and injects it into
//     the request context for [FromContext].
//   - [ParseCookies] pre-parses the Cookie header into the mapping that
//     Session.Restore consults before the raw header, standing in for
//     upstream cookie-parsing middleware.
//
// # Architecture boundaries
//
// This package translates HTTP plumbing into Manager calls. It does NOT
// seal, unseal, or interpret session contents; all decisions are delegated
// to ironsession.Manager.
package middleware
