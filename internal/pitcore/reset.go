package pitcore

// ResetPaths removes the listed paths from the index without touching the
// working tree. Paths absent from the index are a no-op.
func (r *Repository) ResetPaths(paths []string) error {
	idx, err := r.ReadIndex()
	if err != nil {
		return err
	}

	for _, arg := range paths {
		relPath, err := r.relWorkPath(arg)
		if err != nil {
			return err
		}
		idx.Unstage(relPath)
	}

	return r.WriteIndex(idx)
}
