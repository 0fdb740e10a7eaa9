package synthesis

// MergeFlags recursively merges src into dst and returns the result. Keys
// holding nested objects merge recursively, scalar leaves take the later
// source, and empty objects are skipped entirely. Neither input is mutated.
func MergeFlags(dst, src FlagBundle) FlagBundle {
	if len(src) == 0 {
		return copyBundle(dst)
	}
	if len(dst) == 0 {
		return copyBundle(src)
	}

	out := copyBundle(dst)
	for key, sv := range src {
		if sub, ok := asBundle(sv); ok {
			if len(sub) == 0 {
				continue
			}
			if existing, ok := asBundle(out[key]); ok {
				out[key] = MergeFlags(existing, sub)
				continue
			}
			out[key] = copyBundle(sub)
			continue
		}
		out[key] = sv
	}
	return out
}

// MergeEffects concatenates pass effects onto base effects with a guard:
// a pass effect carrying status tags is skipped when the base list already
// holds an effect with one of those tags, so condition effects are never
// duplicated. Identifiers already present are skipped as well.
func MergeEffects(base, add []EffectDescriptor) []EffectDescriptor {
	out := make([]EffectDescriptor, len(base))
	copy(out, base)

	ids := make(map[string]bool, len(base))
	statuses := make(map[string]bool)
	for _, e := range base {
		ids[e.ID] = true
		for _, s := range e.Statuses {
			statuses[s] = true
		}
	}

	for _, e := range add {
		if ids[e.ID] {
			continue
		}
		if hasAnyStatus(e, statuses) {
			continue
		}
		ids[e.ID] = true
		for _, s := range e.Statuses {
			statuses[s] = true
		}
		out = append(out, e)
	}
	return out
}

func hasAnyStatus(e EffectDescriptor, statuses map[string]bool) bool {
	for _, s := range e.Statuses {
		if statuses[s] {
			return true
		}
	}
	return false
}

// Merge folds a pass's partial output into the artifact, returning a new
// artifact. Complexity only ever rises.
func (a *Artifact) Merge(p *Partial) *Artifact {
	if p == nil {
		return a
	}

	out := &Artifact{
		Item:       a.Item,
		Effects:    MergeEffects(a.Effects, p.Effects),
		Flags:      MergeFlags(a.Flags, p.Flags),
		Scripts:    append(append([]string{}, a.Scripts...), p.Scripts...),
		Complexity: a.Complexity,
		Quality:    a.Quality,
		Subsystems: append(append([]string{}, a.Subsystems...), p.Subsystem),
	}

	if len(p.ItemState) > 0 {
		out.Item.State = MergeFlags(a.Item.State, p.ItemState)
	}
	if p.Complexity > out.Complexity {
		out.Complexity = p.Complexity
	}
	return out
}

func copyBundle(b map[string]any) FlagBundle {
	out := make(FlagBundle, len(b))
	for k, v := range b {
		if sub, ok := asBundle(v); ok {
			out[k] = copyBundle(sub)
			continue
		}
		out[k] = v
	}
	return out
}

func asBundle(v any) (map[string]any, bool) {
	switch b := v.(type) {
	case FlagBundle:
		return b, true
	case map[string]any:
		return b, true
	default:
		return nil, false
	}
}
