package repository

// ChildDiff partitions a submitted child collection against the stored rows:
// New children carry no prior identifier, Changed children exist and differ in
// at least one field, Removed holds stored rows absent from the submission.
// Removed children are soft-deactivated by the caller, never deleted.
type ChildDiff[T any] struct {
	New     []T
	Changed []T
	Removed []T
}

// PartitionChildren computes the reconciliation diff. pubID extracts a child's
// stored identifier ("" for new rows); active reports whether the stored row
// is live; equal reports whether a submitted child matches the stored row
// field-for-field. A submitted child whose identifier is unknown to the stored
// set is treated as new. Resubmitting a deactivated child marks it Changed so
// the caller reactivates it, and already-inactive rows never land in Removed.
func PartitionChildren[T any](stored, submitted []T, pubID func(T) string, active func(T) bool, equal func(stored, submitted T) bool) ChildDiff[T] {
	byID := make(map[string]T, len(stored))
	for _, child := range stored {
		if id := pubID(child); id != "" {
			byID[id] = child
		}
	}

	var diff ChildDiff[T]
	seen := make(map[string]bool, len(submitted))
	for _, child := range submitted {
		id := pubID(child)
		if id == "" {
			diff.New = append(diff.New, child)
			continue
		}
		existing, ok := byID[id]
		if !ok {
			diff.New = append(diff.New, child)
			continue
		}
		seen[id] = true
		if !active(existing) || !equal(existing, child) {
			diff.Changed = append(diff.Changed, child)
		}
	}

	for _, child := range stored {
		if id := pubID(child); id != "" && !seen[id] && active(child) {
			diff.Removed = append(diff.Removed, child)
		}
	}

	return diff
}
