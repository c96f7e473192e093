/*
Package remix manages the customization data of a hosted Koji application
and keeps the host frame synchronized with local edits.

A store is seeded once with Init, which deep-merges the hosting
environment's overrides over the application's defaults: mappings merge
key by key, sequences from the overlay replace the defaults' sequences
wholesale. The same merge drives Set. After seeding, the store announces
itself with a Ready event and begins accepting reads immediately.

Writes are gated. The host opens the store for writes by sending its
IsRemixing signal; until then Set and Finish fail with an error matching
koji.ErrState, since changes made earlier would never be registered on
the host. IsReady and Ready expose the latch.

	b, _ := bridge.New(bridge.Config{})
	defer b.Close()

	store, _ := remix.New(remix.Config{Bridge: b, Overrides: overrides})
	defer store.Close()

	store.Init(remix.ValueTree{
		"title":  "Sticker Maker",
		"colors": remix.ValueTree{"background": "#000"},
	})

	<-store.Ready()
	ok, err := store.Set(ctx, remix.ValueTree{
		"colors": remix.ValueTree{"background": "#fff"},
	})

Every successful write pushes the entire merged tree to the host and
waits for the host's acknowledgment. Reads never touch the host.
*/
package remix
