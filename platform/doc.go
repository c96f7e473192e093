// Package platform carries the shared REST plumbing for backend capability
// clients: the hardened HTTP client, the project identity headers, and the
// typed JSON POST helper every wrapper builds on.
package platform
