/*
Package hostmock provides a friendly pretend host frame for bridge tests.

It's designed primarily for SDK development and advanced tests where you
want to validate exactly what a component is sending to its host frame,
without needing a real frame running. No real frames were harmed in the
making of these tests.

Why use hostmock?

  - Inspect traffic: every outbound message is captured and available via Sent.
  - Validate envelopes: plug in a Validator to assert event names and payloads.
  - Script replies: map outbound event names to host responses, or simulate failures.
  - Push events: Emit delivers unsolicited host messages, EmitRaw delivers raw bytes.

Quick start

	frame, _ := hostmock.New(hostmock.Config{
	  Script: map[string]hostmock.Responder{
	    "SetValue": func(msg bridge.Message) *bridge.Message {
	      return &bridge.Message{Event: "DidChangeVcc", Data: map[string]any{"ok": true}}
	    },
	  },
	  Validator: func(msg bridge.Message) error {
	    // Assert envelope fields here
	    return nil
	  },
	})

	// Inject into the component under test
	b, _ := bridge.New(bridge.Config{Transport: frame})

Behavior

  - If Fail is true and Error is set, Send returns that error.
  - If Fail is true and Error is nil, Send returns ErrOperationFailed.
  - Otherwise Send decodes the envelope, runs Validator when provided,
    records the message, and emits the scripted reply when one exists.
  - With Strict set, events missing from Script fail with ErrUnexpectedEvent.

Tips

  - Use table-driven tests for different scripting and validation cases.
  - Keep the validator small and focused: decode, assert, return.
  - Leave Script entries out when you want fire-and-forget events to pass through.
*/
package hostmock
