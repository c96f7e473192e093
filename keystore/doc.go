// Package keystore provides a client for resolving platform-managed
// secrets. Projects store sensitive values behind key paths; Resolve
// exchanges a key path for the value, and GenerateSignedURL exchanges a
// protected resource reference for a short-lived public URL. Both calls
// authenticate with the project token, so the client belongs in backend
// code only.
package keystore
