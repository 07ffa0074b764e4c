package nesting

// searchOpen implements spec.md §4.2's `searchOpen(line, from, configs)`:
// it iterates configs in declaration order, keeping a running best match.
// A candidate replaces the incumbent iff the incumbent's own comparator
// says it does not beat the candidate — the asymmetry spec.md calls
// load-bearing, since only the currently-held candidate's comp is ever
// consulted.
func searchOpen(line string, from int, atSOL bool, configs []*Config) (MatchRecord, bool) {
	var best *MatchRecord
	for _, cfg := range configs {
		m, ok := cfg.Open.Find(line, from, atSOL)
		if !ok {
			continue
		}
		candidate := MatchRecord{Match: m, Config: cfg, Role: RoleOpen}
		candidate.AbsoluteIndex = from + m.Index
		candidate.OriginalIndex = candidate.AbsoluteIndex
		if best == nil {
			rec := candidate
			best = &rec
			continue
		}
		if !best.Config.Comp(best.Match, candidate.Match) {
			rec := candidate
			best = &rec
		}
	}
	if best == nil {
		return MatchRecord{}, false
	}
	return *best, true
}

// searchClose finds cfg's own close pattern in line starting at from. It is
// the single-config counterpart to searchOpen, used by the sub-parser and
// mask machine to locate the delimiter that ends the currently active
// region.
func searchClose(line string, from int, atSOL bool, cfg *Config) (MatchRecord, bool) {
	m, ok := cfg.Close.Find(line, from, atSOL)
	if !ok {
		return MatchRecord{}, false
	}
	rec := MatchRecord{Match: m, Config: cfg, Role: RoleClose}
	rec.AbsoluteIndex = from + m.Index
	rec.OriginalIndex = rec.AbsoluteIndex
	return rec, true
}

// higherPriority reports whether candidate should win against incumbent,
// using candidate's own comparator — the shape spec.md §4.2 describes for
// "an open whose comp wins against this mode's pendingEnd" (subparser.go's
// continuation step 2) and "a mask-open [that] wins against endMatch"
// (mask.go's MaskContinuation): the new arrival's comparator decides,
// never the incumbent's.
func higherPriority(candidate, incumbent MatchRecord) bool {
	return candidate.Config.Comp(candidate.Match, incumbent.Match)
}
