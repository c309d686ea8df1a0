// Package catalog implements conflict detection, reference lookup and
// deduplication over priority-ordered lists of resource/prompt/tool
// references — the pure list algorithms the group model layers on top of.
package catalog

import (
	"github.com/mcpgateway/gateway/internal/gwconfig"
	"github.com/mcpgateway/gateway/internal/urimatch"
)

// ConflictKind names the kind of ambiguity detected between two references.
type ConflictKind string

const (
	ConflictExactDuplicate       ConflictKind = "exact-duplicate"
	ConflictTemplateCoversExact  ConflictKind = "template-covers-exact"
	ConflictExactCoveredTemplate ConflictKind = "exact-covered-by-template"
	ConflictTemplateOverlap      ConflictKind = "template-overlap"
	ConflictDuplicatePromptName  ConflictKind = "duplicate-prompt-name"
)

// ResourceConflict names one conflicting pair of resource references.
type ResourceConflict struct {
	Kind            ConflictKind
	First, Second   gwconfig.ResourceRef
	IndexA, IndexB  int
	IllustrativeURI string
}

// PromptConflict names one conflicting pair of prompt references sharing a
// name.
type PromptConflict struct {
	First, Second  gwconfig.PromptRef
	IndexA, IndexB int
}

// DetectResourceConflicts reports, for every ordered pair (i,j) with i<j, at
// most one conflict classified by URI matcher semantics. The input list is
// never mutated.
func DetectResourceConflicts(list []gwconfig.ResourceRef) []ResourceConflict {
	var out []ResourceConflict
	for i := 0; i < len(list); i++ {
		for j := i + 1; j < len(list); j++ {
			a, b := list[i], list[j]
			aIsTmpl, bIsTmpl := urimatch.IsTemplate(a.URI), urimatch.IsTemplate(b.URI)
			switch {
			case !aIsTmpl && !bIsTmpl:
				if a.URI == b.URI {
					out = append(out, ResourceConflict{Kind: ConflictExactDuplicate, First: a, Second: b, IndexA: i, IndexB: j, IllustrativeURI: a.URI})
				}
			case aIsTmpl && !bIsTmpl:
				if urimatch.Match(b.URI, a.URI).Matches {
					out = append(out, ResourceConflict{Kind: ConflictTemplateCoversExact, First: a, Second: b, IndexA: i, IndexB: j, IllustrativeURI: b.URI})
				}
			case !aIsTmpl && bIsTmpl:
				if urimatch.Match(a.URI, b.URI).Matches {
					out = append(out, ResourceConflict{Kind: ConflictExactCoveredTemplate, First: a, Second: b, IndexA: i, IndexB: j, IllustrativeURI: a.URI})
				}
			default:
				if urimatch.TemplatesCanOverlap(a.URI, b.URI) {
					out = append(out, ResourceConflict{Kind: ConflictTemplateOverlap, First: a, Second: b, IndexA: i, IndexB: j, IllustrativeURI: urimatch.GenerateExampleURI(a.URI)})
				}
			}
		}
	}
	return out
}

// DetectPromptConflicts groups prompt refs by name; each group of size >1
// emits one conflict per unordered pair.
func DetectPromptConflicts(list []gwconfig.PromptRef) []PromptConflict {
	byName := map[string][]int{}
	for i, ref := range list {
		byName[ref.Name] = append(byName[ref.Name], i)
	}
	var out []PromptConflict
	for _, indices := range byName {
		if len(indices) < 2 {
			continue
		}
		for a := 0; a < len(indices); a++ {
			for b := a + 1; b < len(indices); b++ {
				i, j := indices[a], indices[b]
				out = append(out, PromptConflict{First: list[i], Second: list[j], IndexA: i, IndexB: j})
			}
		}
	}
	return out
}

// FindMatchingResourceRefs returns, in list order, every ref whose URI
// matches the given runtime URI.
func FindMatchingResourceRefs(uri string, refs []gwconfig.ResourceRef) []gwconfig.ResourceRef {
	var out []gwconfig.ResourceRef
	for _, ref := range refs {
		if urimatch.Match(uri, ref.URI).Matches {
			out = append(out, ref)
		}
	}
	return out
}

// FindMatchingPromptRefs returns, in list order, every ref with an exact
// (case-sensitive) name match.
func FindMatchingPromptRefs(name string, refs []gwconfig.PromptRef) []gwconfig.PromptRef {
	var out []gwconfig.PromptRef
	for _, ref := range refs {
		if ref.Name == name {
			out = append(out, ref)
		}
	}
	return out
}

// DeduplicateResources keeps the first occurrence by URI, stable.
func DeduplicateResources(list []gwconfig.ResourceRef) []gwconfig.ResourceRef {
	seen := map[string]bool{}
	out := make([]gwconfig.ResourceRef, 0, len(list))
	for _, ref := range list {
		if seen[ref.URI] {
			continue
		}
		seen[ref.URI] = true
		out = append(out, ref)
	}
	return out
}

// DeduplicatePrompts keeps the first occurrence by name, stable.
func DeduplicatePrompts(list []gwconfig.PromptRef) []gwconfig.PromptRef {
	seen := map[string]bool{}
	out := make([]gwconfig.PromptRef, 0, len(list))
	for _, ref := range list {
		if seen[ref.Name] {
			continue
		}
		seen[ref.Name] = true
		out = append(out, ref)
	}
	return out
}

// DeduplicateTools keeps the first occurrence by exposed name, stable.
func DeduplicateTools(list []gwconfig.ToolOverride) []gwconfig.ToolOverride {
	seen := map[string]bool{}
	out := make([]gwconfig.ToolOverride, 0, len(list))
	for _, t := range list {
		name := t.ExposedName()
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, t)
	}
	return out
}
