package remix

import "testing"

func BenchmarkMerge(b *testing.B) {
	base := ValueTree{
		"title": "Sticker Maker",
		"colors": ValueTree{
			"background": "#000",
			"foreground": "#111",
			"accents":    []any{"#f00", "#0f0", "#00f"},
		},
		"layout": ValueTree{
			"rows":    4,
			"columns": 3,
			"cells":   ValueTree{"padding": 2, "margin": 1},
		},
	}
	overlay := ValueTree{
		"colors": ValueTree{"background": "#fff", "accents": []any{"#abc"}},
		"layout": ValueTree{"cells": ValueTree{"padding": 4}},
	}

	b.Run("Merge", func(b *testing.B) {
		b.ResetTimer()
		for range b.N {
			Merge(base, overlay)
		}
	})

	b.Run("Lookup", func(b *testing.B) {
		tree := Merge(base, overlay)
		b.ResetTimer()
		for range b.N {
			if _, ok := lookup(tree, []string{"layout", "cells", "padding"}); !ok {
				b.Fatal("lookup failed")
			}
		}
	})
}
