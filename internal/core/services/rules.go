package services

// rule is one entry of an ordered decision list: when match reports
// true, decide produces the outcome and evaluation stops.
type rule[In, Out any] struct {
	name   string
	match  func(In) bool
	decide func(In) Out
}

// firstMatch evaluates rules in order and returns the outcome of the
// first one that matches, together with its name. When nothing
// matches it returns fallback and an empty name.
func firstMatch[In, Out any](rules []rule[In, Out], in In, fallback Out) (Out, string) {
	for _, r := range rules {
		if r.match(in) {
			return r.decide(in), r.name
		}
	}
	return fallback, ""
}

// always returns a constant outcome regardless of input.
func always[In, Out any](out Out) func(In) Out {
	return func(In) Out { return out }
}
