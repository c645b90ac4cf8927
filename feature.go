package layerfx

import (
	"log/slog"
	"slices"
)

// PassEvent is the insertion timing of a pass within the host's frame:
// the host runs enqueued passes in event order, so an AfterSkybox pass
// sees the skybox but none of the transparents.
type PassEvent int

const (
	// BeforeOpaques runs before any opaque geometry is drawn.
	BeforeOpaques PassEvent = iota
	// AfterOpaques runs once the opaque queue has been drawn.
	AfterOpaques
	// AfterSkybox runs after the skybox, before any transparents.
	AfterSkybox
	// BeforeTransparents runs just ahead of the transparent queue.
	BeforeTransparents
	// AfterTransparents runs after the scene is fully rendered.
	AfterTransparents
	// BeforePostProcess runs ahead of the post-processing chain.
	BeforePostProcess
	// AfterPostProcess runs last, on the post-processed image.
	AfterPostProcess
)

// String returns the event name.
func (e PassEvent) String() string {
	switch e {
	case BeforeOpaques:
		return "BeforeOpaques"
	case AfterOpaques:
		return "AfterOpaques"
	case AfterSkybox:
		return "AfterSkybox"
	case BeforeTransparents:
		return "BeforeTransparents"
	case AfterTransparents:
		return "AfterTransparents"
	case BeforePostProcess:
		return "BeforePostProcess"
	case AfterPostProcess:
		return "AfterPostProcess"
	}
	return "Unknown"
}

// PassFactory builds a pass from filter settings. Feature uses it so
// alternative pass implementations can reuse the configuration and
// lifecycle surface without subclassing anything.
type PassFactory interface {
	Build(filter FilterSettings) (*Pass, error)
}

// PassFactoryFunc adapts a function to the PassFactory interface.
type PassFactoryFunc func(filter FilterSettings) (*Pass, error)

// Build calls f.
func (f PassFactoryFunc) Build(filter FilterSettings) (*Pass, error) { return f(filter) }

// FeatureOption configures a Feature during creation.
type FeatureOption func(*featureOptions)

// featureOptions holds optional configuration for Feature creation.
type featureOptions struct {
	queue    QueueRange
	layers   LayerMask
	material *Material
	event    PassEvent
	factory  PassFactory
	log      *slog.Logger
}

// WithQueueRange selects the render-queue band the feature's pass draws.
// Default is QueueAll.
func WithQueueRange(q QueueRange) FeatureOption {
	return func(o *featureOptions) { o.queue = q }
}

// WithLayers selects the scene layers the feature's pass draws.
// Default is LayerAll.
func WithLayers(m LayerMask) FeatureOption {
	return func(o *featureOptions) { o.layers = m }
}

// WithMaterial sets the composite material. Required: NewFeature fails
// without one.
func WithMaterial(m *Material) FeatureOption {
	return func(o *featureOptions) { o.material = m }
}

// WithEvent sets the pass insertion timing. Default is AfterTransparents,
// so the composite sees the fully rendered scene.
func WithEvent(e PassEvent) FeatureOption {
	return func(o *featureOptions) { o.event = e }
}

// WithFactory substitutes the pass construction. The default factory
// builds the standard two-sub-pass layer/composite pass.
func WithFactory(f PassFactory) FeatureOption {
	return func(o *featureOptions) { o.factory = f }
}

// WithLogger routes the feature's pass diagnostics to l instead of the
// package logger.
func WithLogger(l *slog.Logger) FeatureOption {
	return func(o *featureOptions) { o.log = l }
}

// Feature is the configuration and lifecycle wrapper around one Pass: it
// translates user-facing settings into a constructed pass at creation
// time and enqueues that pass into the host's frame list once per frame.
type Feature struct {
	pass *Pass
}

// NewFeature validates the configuration and constructs the feature's
// pass. A missing material is a configuration error, not a recoverable
// condition: the caller fixes the configuration and constructs again.
func NewFeature(opts ...FeatureOption) (*Feature, error) {
	o := featureOptions{
		queue:  QueueAll,
		layers: LayerAll,
		event:  AfterTransparents,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.material == nil && o.factory == nil {
		return nil, ErrNoMaterial
	}

	filter := FilterSettings{Queue: o.queue, Layers: o.layers}
	factory := o.factory
	if factory == nil {
		material, event := o.material, o.event
		factory = PassFactoryFunc(func(fs FilterSettings) (*Pass, error) {
			return NewPass(fs, material, event), nil
		})
	}
	pass, err := factory.Build(filter)
	if err != nil {
		return nil, err
	}
	if o.log != nil {
		pass.SetLogger(o.log)
	}
	return &Feature{pass: pass}, nil
}

// Pass returns the feature's constructed pass.
func (f *Feature) Pass() *Pass { return f.pass }

// Enqueue registers the feature's pass into the frame list. The list
// deduplicates, so calling Enqueue more than once within a frame still
// records the pass exactly once.
func (f *Feature) Enqueue(fl *FrameList) {
	fl.Add(f.pass)
}

// FrameList collects the passes to run for one frame. The zero value is
// ready to use; build a fresh list every frame.
type FrameList struct {
	passes []*Pass
}

// Add appends a pass, ignoring a pass already in the list.
func (fl *FrameList) Add(p *Pass) {
	if p == nil || slices.Contains(fl.passes, p) {
		return
	}
	fl.passes = append(fl.passes, p)
}

// Len returns the number of enqueued passes.
func (fl *FrameList) Len() int { return len(fl.passes) }

// Passes returns the enqueued passes in event order. Passes sharing an
// event keep their enqueue order.
func (fl *FrameList) Passes() []*Pass {
	out := slices.Clone(fl.passes)
	slices.SortStableFunc(out, func(a, b *Pass) int {
		return int(a.Event()) - int(b.Event())
	})
	return out
}
