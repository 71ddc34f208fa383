package renderpass

// Tables handed to the validator are explicit-length slices, but an entry equal
// to the table's End value still terminates it early.

func visitTokenTerminated[T comparable](items []T, end T, visit func(T) bool) {
	visitTerminatedFunc(items, func(it T) bool { return it == end }, visit)
}

func visitTerminatedFunc[T any](items []T, isEnd func(T) bool, visit func(T) bool) {
	for _, it := range items {
		if isEnd(it) || !visit(it) {
			return
		}
	}
}

// tokenTerminated returns the part of items before the first end token.
func tokenTerminated[T comparable](items []T, end T) []T {
	return terminatedFunc(items, func(it T) bool { return it == end })
}

func terminatedFunc[T any](items []T, isEnd func(T) bool) []T {
	for i, it := range items {
		if isEnd(it) {
			return items[:i:i]
		}
	}
	return items[:len(items):len(items)]
}
