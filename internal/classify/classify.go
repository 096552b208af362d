// Package classify derives a language/mode tag for a code node from its
// attributes and content, and matches detected languages against a
// configured executable set with locale-aware loose comparison.
package classify

import (
	"regexp"
	"strings"
)

// Func derives a language/mode tag from a node's attributes and text
// content. An empty result means the language is unknown. Tags are
// lower-cased so mode comparisons are stable.
type Func func(attrs map[string]string, text string) string

// Fixed returns a classifier that always reports the given tag.
func Fixed(mode string) Func {
	mode = normalizeTag(mode)
	return func(map[string]string, string) string {
		return mode
	}
}

// Attr returns a classifier that reads the named node attribute.
func Attr(name string) Func {
	return func(attrs map[string]string, _ string) string {
		return normalizeTag(attrs[name])
	}
}

// Fence returns a classifier that reads the chunk header from the first
// content line, as in "{r setup, echo=FALSE}".
func Fence() Func {
	return func(_ map[string]string, text string) string {
		lang, _, _, ok := ParseFenceHeader(firstLine(text))
		if !ok {
			return ""
		}
		return lang
	}
}

// FirstOf chains classifiers; the first non-empty tag wins.
func FirstOf(fns ...Func) Func {
	return func(attrs map[string]string, text string) string {
		for _, fn := range fns {
			if tag := fn(attrs, text); tag != "" {
				return tag
			}
		}
		return ""
	}
}

// headerRe matches a chunk header line: optional fence backticks, an
// opening brace, an optional leading dot, then the language word.
var headerRe = regexp.MustCompile("^`*\\s*\\{\\s*\\.?([A-Za-z][A-Za-z0-9_+.#-]*)")

// ParseFenceHeader parses a chunk header line like "{r label, echo=FALSE}"
// into its language, optional label and option map. ok is false when the
// line is not a header at all. The language is lower-cased; option values
// are kept verbatim.
func ParseFenceHeader(line string) (lang, label string, opts map[string]string, ok bool) {
	m := headerRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", nil, false
	}
	lang = strings.ToLower(m[1])

	rest := line[len(m[0]):]
	if i := strings.LastIndexByte(rest, '}'); i >= 0 {
		rest = rest[:i]
	}

	for i, part := range strings.Split(rest, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if key, val, found := strings.Cut(part, "="); found {
			if opts == nil {
				opts = make(map[string]string)
			}
			opts[strings.TrimSpace(key)] = strings.TrimSpace(val)
			continue
		}
		// A bare word right after the language is the chunk label.
		if i == 0 && label == "" {
			label = part
		}
	}
	return lang, label, opts, true
}

// firstLine returns text up to the first newline.
func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}

// normalizeTag lower-cases and trims a language tag.
func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
