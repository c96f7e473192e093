/*
Package koji provides the root configuration surface shared by the Koji
client SDK packages.

The package exposes New to validate project configuration and produce the
RuntimeConfig consumed by the backend capability clients (database,
keystore), LoadEnvironment to read the configuration the platform injects
through environment variables, and the error kinds shared across the SDK.
*/
package koji
