package proposal

// CheckVersion compares the version a caller believes is current against the
// stored one. A mismatch means another writer got there first; nothing may be
// written and the caller must re-read before retrying.
//
// The check here is advisory: the store enforces the same predicate inside
// the write itself (`WHERE id = ? AND version = ?`) and treats zero affected
// rows as the conflict signal, so a race between this check and the write
// still cannot lose an update.
func CheckVersion(current, supplied int64) error {
	if current != supplied {
		return ConflictError("version conflict: supplied %d, current %d", supplied, current)
	}
	return nil
}
