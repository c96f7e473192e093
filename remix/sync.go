package remix

import (
	"context"

	"github.com/ruskid/koji-core/bridge"
)

// treePath is the fixed host-side location customization pushes write to.
var treePath = []string{"remixData"}

// push sends the full tree to the host and reports whether the host
// acknowledged with a non-empty payload. Pushes always carry the whole
// tree, never a diff, and are never marked skippable.
func (r *Remix) push(ctx context.Context, tree ValueTree) (bool, error) {
	reply, err := r.bridge.SendAndAwait(ctx, bridge.Message{
		Event: EventSetValue,
		Data: map[string]any{
			"path":       treePath,
			"newValue":   tree,
			"skipUpdate": false,
		},
	}, EventDidChangeVcc)
	if err != nil {
		return false, err
	}

	return len(reply) > 0, nil
}
