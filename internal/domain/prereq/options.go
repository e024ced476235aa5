package prereq

// BridgeSources lists the units allowed to feed prerequisites into a unit.
type BridgeSources interface {
	BridgeSources(unitID string) []string
}

// Option configures a Builder.
type Option func(*Builder)

// WithBridgeSources sets the per-unit bridge whitelist used by the
// cross-unit pass.
func WithBridgeSources(b BridgeSources) Option {
	return func(bld *Builder) {
		bld.bridges = b
	}
}

// WithRigourThreshold sets how demanding a stranded root must be before the
// cross-unit pass looks for a prerequisite. Non-positive values are ignored.
func WithRigourThreshold(v int) Option {
	return func(bld *Builder) {
		if v > 0 {
			bld.rigour = v
		}
	}
}
