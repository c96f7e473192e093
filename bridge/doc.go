/*
Package bridge exchanges structured messages with the host frame that
embeds a Koji application.

Messages are JSON envelopes carrying an event name and a payload. The
bridge delivers them over a Transport: the default GuestTransport speaks
the waPC guest interface used when the client runs embedded inside the
frame, and SocketTransport connects over a websocket for out-of-frame
runs such as local development.

Replies from the host are correlated by event name. SendAndAwait
registers a one-shot listener for the reply event before the request
goes out, and each inbound message resolves at most one waiter, oldest
first. Long-lived subscriptions use On.

	b, err := bridge.New(bridge.Config{})
	if err != nil {
		// handle error
	}
	defer b.Close()

	reply, err := b.SendAndAwait(ctx, bridge.Message{
		Event: "SetValue",
		Data:  map[string]any{"newValue": tree},
	}, "DidChangeVcc")

Because correlation is name-based, callers should keep at most one
request per distinct reply event name in flight at a time.
*/
package bridge
