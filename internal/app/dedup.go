package app

// Dedupe keeps the first record for every key and returns the survivors in
// input order together with the number of records removed.
func Dedupe[T any, K comparable](in []T, key func(T) K) ([]T, int) {
	seen := make(map[K]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		k := key(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out, len(in) - len(out)
}
