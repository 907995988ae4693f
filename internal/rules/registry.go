package rules

// DefaultRegistry returns the standard rule set in registration order.
//
// Order is significant: samplers and the mutation loop walk rules in this
// order, and the sketch-generation strategies rely on the veto rule sitting
// last so it can be excluded by slicing off the tail.
func DefaultRegistry() []Rule {
	return []Rule{
		NewInline(),
		NewMultiLevelTiling(),
		NewUnroll(),
		NewSkip(),
	}
}
