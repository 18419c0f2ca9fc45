package linker

// namespaceEntry is one name's bucket. One id is a direct resolution;
// two or more form a collision pending disambiguation. A builtin, when
// present, is always ids[0] and keeps the name directly resolvable no
// matter how many user declarations pile onto it.
type namespaceEntry struct {
	ids []GlobalID
}

func (e *namespaceEntry) isCollision() bool { return len(e.ids) >= 2 }

// declareName registers an entity under name. Builtin buckets never
// degrade: the user declaration is recorded for duplicate reporting but
// the builtin stays the direct resolution.
func (l *Linker) declareName(name string, id GlobalID) {
	entry, ok := l.globalNamespace[name]
	if !ok {
		l.globalNamespace[name] = namespaceEntry{ids: []GlobalID{id}}
		return
	}
	entry.ids = append(entry.ids, id)
	l.globalNamespace[name] = entry
}

// lookupName returns the bucket for name, if any.
func (l *Linker) lookupName(name string) (namespaceEntry, bool) {
	entry, ok := l.globalNamespace[name]
	return entry, ok
}

// directResolution returns the single id a name resolves to, or false
// when the name is unknown or an unprotected collision.
func (l *Linker) directResolution(entry namespaceEntry) (GlobalID, bool) {
	if len(entry.ids) == 1 {
		return entry.ids[0], true
	}
	if len(entry.ids) >= 2 && l.isBuiltin(entry.ids[0]) {
		return entry.ids[0], true
	}
	return GlobalID{}, false
}

// removeNames rebuilds every bucket touched by the removed set. Buckets
// shrinking to one id degrade back to direct resolutions; empty buckets
// drop the name.
func (l *Linker) removeNames(removed map[GlobalID]bool) {
	for name, entry := range l.globalNamespace {
		kept := entry.ids[:0]
		for _, id := range entry.ids {
			if !removed[id] {
				kept = append(kept, id)
			}
		}
		if len(kept) == 0 {
			delete(l.globalNamespace, name)
			continue
		}
		entry.ids = kept
		l.globalNamespace[name] = entry
	}
}
