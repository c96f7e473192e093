package remix

// Event names exchanged with the host frame during customization sessions.
const (
	// EventReady announces that the client is initialized and listening.
	EventReady = "Ready"

	// EventIsRemixing is the host's readiness signal. The first one opens
	// the store for writes; later repeats are harmless.
	EventIsRemixing = "IsRemixing"

	// EventSetValue pushes the full customization tree to the host.
	EventSetValue = "SetValue"

	// EventDidChangeVcc acknowledges a pushed customization change.
	EventDidChangeVcc = "DidChangeVcc"

	// EventFinish asks the host to advance the session from editing to
	// preview.
	EventFinish = "Finish"

	// EventCancel abandons the customization session.
	EventCancel = "Cancel"

	// EventEncryptValue asks the host to encrypt a value.
	EventEncryptValue = "EncryptValue"

	// EventValueEncrypted carries the host's encryption result.
	EventValueEncrypted = "ValueEncrypted"

	// EventDecryptValue asks the host to decrypt a previously encrypted
	// value.
	EventDecryptValue = "DecryptValue"

	// EventValueDecrypted carries the host's decryption result.
	EventValueDecrypted = "ValueDecrypted"
)
