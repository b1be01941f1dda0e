package rules

// Rule is one (predicate, effect) pair. Rules are evaluated in order
// against a mutable context; the effect of an earlier rule is visible to
// the predicates of later ones.
type Rule[T any] struct {
	Name string
	When func(*T) bool
	Then func(*T)
}

// Apply evaluates the rules in order and returns the names of the rules
// that fired. Nil predicates always fire; nil effects are no-ops.
func Apply[T any](ctx *T, rules []Rule[T]) []string {
	var fired []string
	for _, r := range rules {
		if r.When != nil && !r.When(ctx) {
			continue
		}
		if r.Then != nil {
			r.Then(ctx)
		}
		if r.Name != "" {
			fired = append(fired, r.Name)
		}
	}
	return fired
}
