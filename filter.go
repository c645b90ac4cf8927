package layerfx

import "github.com/gogpu/layerfx/graph"

// QueueRange selects a band of the render queue.
type QueueRange int

const (
	// QueueAll matches every queue value.
	QueueAll QueueRange = iota
	// QueueOpaque matches queue values up to and including the
	// opaque/transparent split.
	QueueOpaque
	// QueueTransparent matches queue values above the split.
	QueueTransparent
)

// Render queue bounds. The opaque band ends at queueSplit inclusive;
// everything above it is transparent.
const (
	queueMin   = 0
	queueSplit = 2500
	queueMax   = 5000
)

// String returns the queue range name.
func (q QueueRange) String() string {
	switch q {
	case QueueAll:
		return "All"
	case QueueOpaque:
		return "Opaque"
	case QueueTransparent:
		return "Transparent"
	}
	return "Unknown"
}

// Contains reports whether a queue value falls inside the range.
// Values outside [0, 5000] never match.
func (q QueueRange) Contains(queue int) bool {
	if queue < queueMin || queue > queueMax {
		return false
	}
	switch q {
	case QueueOpaque:
		return queue <= queueSplit
	case QueueTransparent:
		return queue > queueSplit
	}
	return true
}

// LayerMask selects scene layers by bit. Layer n is bit 1<<n.
type LayerMask uint32

const (
	// LayerNone selects nothing.
	LayerNone LayerMask = 0
	// LayerAll selects every layer.
	LayerAll LayerMask = ^LayerMask(0)
)

// Matches reports whether the mask selects any of the item's layers.
func (m LayerMask) Matches(layers LayerMask) bool {
	return m&layers != 0
}

// ShaderTag names the lighting path a draw item's shader participates in.
type ShaderTag string

// Forward-compatible shader tags. The layer render pass draws any item
// tagged for a forward pass, including the legacy unlit tags, so older
// content keeps rendering.
const (
	TagForward       ShaderTag = "Forward"
	TagForwardOnly   ShaderTag = "ForwardOnly"
	TagLegacyForward ShaderTag = "LegacyForward"
	TagDefaultUnlit  ShaderTag = "DefaultUnlit"
)

// forwardTags is the tag set the layer render pass accepts.
var forwardTags = map[ShaderTag]bool{
	TagForward:       true,
	TagForwardOnly:   true,
	TagLegacyForward: true,
	TagDefaultUnlit:  true,
}

// FilterSettings selects the draw items a Pass renders. Immutable after
// construction: a Pass keeps the settings it was built with for its whole
// lifetime.
type FilterSettings struct {
	Queue  QueueRange
	Layers LayerMask
}

// Matches reports whether a draw item passes the layer and queue filter
// and carries a forward-compatible shader tag. An untagged item is
// treated as default unlit.
func (fs FilterSettings) Matches(item DrawItem) bool {
	if !fs.Layers.Matches(item.Layer) {
		return false
	}
	if !fs.Queue.Contains(item.Queue) {
		return false
	}
	tag := item.Tag
	if tag == "" {
		tag = TagDefaultUnlit
	}
	return forwardTags[tag]
}

// DrawItem is one visible draw call from the host's culling results.
// Payload is executor-interpreted: the software executor draws payloads
// implementing its Drawable interface, the GPU executor its own kinds.
type DrawItem struct {
	Layer   LayerMask
	Queue   int
	Tag     ShaderTag
	Payload any
}

// CullResults is the set of draw items visible to the active camera this
// frame. The host produces it; passes only filter it.
type CullResults struct {
	Items []DrawItem
}

// Filter returns the payloads of the items matching the settings, in
// stable order, ready for graph.Builder.CreateRendererList. An empty
// result is a valid renderer list.
func (c CullResults) Filter(fs FilterSettings) []graph.DrawPayload {
	var out []graph.DrawPayload
	for _, item := range c.Items {
		if fs.Matches(item) {
			out = append(out, item.Payload)
		}
	}
	return out
}
