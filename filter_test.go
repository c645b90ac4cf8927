package layerfx

import "testing"

func TestQueueRangeContains(t *testing.T) {
	tests := []struct {
		name  string
		q     QueueRange
		queue int
		want  bool
	}{
		{"all low", QueueAll, 0, true},
		{"all split", QueueAll, 2500, true},
		{"all high", QueueAll, 5000, true},
		{"all below min", QueueAll, -1, false},
		{"all above max", QueueAll, 5001, false},
		{"opaque low", QueueOpaque, 1000, true},
		{"opaque at split", QueueOpaque, 2500, true},
		{"opaque above split", QueueOpaque, 2501, false},
		{"transparent at split", QueueTransparent, 2500, false},
		{"transparent above split", QueueTransparent, 2501, true},
		{"transparent max", QueueTransparent, 5000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Contains(tt.queue); got != tt.want {
				t.Errorf("%v.Contains(%d) = %v, want %v", tt.q, tt.queue, got, tt.want)
			}
		})
	}
}

func TestLayerMaskMatches(t *testing.T) {
	m := LayerMask(1<<2 | 1<<5)
	if !m.Matches(1 << 2) {
		t.Error("mask should match layer 2")
	}
	if m.Matches(1 << 3) {
		t.Error("mask should not match layer 3")
	}
	if LayerNone.Matches(LayerAll) {
		t.Error("LayerNone should match nothing")
	}
	if !LayerAll.Matches(1 << 31) {
		t.Error("LayerAll should match layer 31")
	}
}

func TestFilterSettingsMatches(t *testing.T) {
	fs := FilterSettings{Queue: QueueTransparent, Layers: 1 << 4}
	tests := []struct {
		name string
		item DrawItem
		want bool
	}{
		{"match", DrawItem{Layer: 1 << 4, Queue: 3000, Tag: TagForward}, true},
		{"legacy tag", DrawItem{Layer: 1 << 4, Queue: 3000, Tag: TagLegacyForward}, true},
		{"untagged is default unlit", DrawItem{Layer: 1 << 4, Queue: 3000}, true},
		{"deferred tag", DrawItem{Layer: 1 << 4, Queue: 3000, Tag: "Deferred"}, false},
		{"wrong layer", DrawItem{Layer: 1 << 3, Queue: 3000, Tag: TagForward}, false},
		{"opaque queue", DrawItem{Layer: 1 << 4, Queue: 2000, Tag: TagForward}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fs.Matches(tt.item); got != tt.want {
				t.Errorf("Matches(%+v) = %v, want %v", tt.item, got, tt.want)
			}
		})
	}
}

func TestCullResultsFilter(t *testing.T) {
	cull := CullResults{Items: []DrawItem{
		{Layer: 1 << 0, Queue: 2000, Tag: TagForward, Payload: "a"},
		{Layer: 1 << 1, Queue: 2000, Tag: TagForward, Payload: "b"},
		{Layer: 1 << 0, Queue: 3000, Tag: TagForward, Payload: "c"},
		{Layer: 1 << 0, Queue: 2000, Tag: "Deferred", Payload: "d"},
	}}

	fs := FilterSettings{Queue: QueueOpaque, Layers: 1 << 0}
	got := cull.Filter(fs)
	if len(got) != 1 || got[0] != "a" {
		t.Errorf("Filter() = %v, want [a]", got)
	}

	// A mask selecting no populated layer yields an empty, still valid list.
	none := cull.Filter(FilterSettings{Queue: QueueAll, Layers: 1 << 9})
	if len(none) != 0 {
		t.Errorf("Filter(empty mask) = %v, want empty", none)
	}
}
