package inventory

// TagDelta is the minimal change that turns a tag's current members into
// the target members.
type TagDelta struct {
	ToLink   []uint
	ToUnlink []uint
}

// Empty reports whether applying the delta would change nothing.
func (d TagDelta) Empty() bool {
	return len(d.ToLink) == 0 && len(d.ToUnlink) == 0
}

// Apply returns current with ToLink added and ToUnlink removed, sorted.
func (d TagDelta) Apply(current []uint) []uint {
	members := NewSet(current...)
	for _, id := range d.ToLink {
		members.Add(id)
	}
	for _, id := range d.ToUnlink {
		delete(members, id)
	}
	return Sorted(members)
}

// DiffMembers computes ToLink = target \ current and
// ToUnlink = current \ target. Duplicates in either input are ignored.
func DiffMembers(current, target []uint) TagDelta {
	diff := DiffSets(NewSet(current...), NewSet(target...))
	return TagDelta{
		ToLink:   Sorted(diff.Added),
		ToUnlink: Sorted(diff.Removed),
	}
}
