package entities

import "strings"

// ShortcodeMatch is one occurrence of a shortcode found by
// FindNextShortcode: its byte range in the source text, the name it
// invokes, and its parsed arguments (spec §4.2 "find_next_shortcode").
type ShortcodeMatch struct {
	Start, End int
	Name       string
	Args       map[string]string
	// Body is the text between an opening `{% name(args) %}` and its
	// matching `{% end %}`, present only for the block form.
	Body string
}

// FindNextShortcode locates the first inline shortcode (`{{ name(args) }}`)
// or block shortcode (`{% name(args) %} … {% end %}`) at or after the
// given byte offset and returns its match, or ok == false if none remain.
// A call tag opened but never closed is skipped rather than reported,
// since an unterminated tag is not a shortcode at all (spec §4.2).
func FindNextShortcode(text string, from int) (ShortcodeMatch, bool) {
	for pos := from; pos < len(text); {
		inlineAt := strings.Index(text[pos:], "{{")
		blockAt := strings.Index(text[pos:], "{%")

		switch {
		case inlineAt < 0 && blockAt < 0:
			return ShortcodeMatch{}, false
		case blockAt < 0 || (inlineAt >= 0 && inlineAt <= blockAt):
			if m, ok := parseInlineShortcode(text, pos+inlineAt); ok {
				return m, true
			}
			pos += inlineAt + 2
		default:
			if m, ok := parseBlockShortcode(text, pos+blockAt); ok {
				return m, true
			}
			pos += blockAt + 2
		}
	}
	return ShortcodeMatch{}, false
}

// parseInlineShortcode parses `{{ name(args) }}` starting at the index of
// the opening "{{".
func parseInlineShortcode(text string, open int) (ShortcodeMatch, bool) {
	closeIdx := strings.Index(text[open:], "}}")
	if closeIdx < 0 {
		return ShortcodeMatch{}, false
	}
	end := open + closeIdx + 2
	inner := strings.TrimSpace(text[open+2 : open+closeIdx])

	name, args, ok := parseCall(inner)
	if !ok {
		return ShortcodeMatch{}, false
	}
	return ShortcodeMatch{Start: open, End: end, Name: name, Args: args}, true
}

// parseBlockShortcode parses `{% name(args) %} … {% end %}` starting at the
// index of the opening "{%".
func parseBlockShortcode(text string, open int) (ShortcodeMatch, bool) {
	tagClose := strings.Index(text[open:], "%}")
	if tagClose < 0 {
		return ShortcodeMatch{}, false
	}
	inner := strings.TrimSpace(text[open+2 : open+tagClose])
	if inner == "end" {
		return ShortcodeMatch{}, false
	}
	bodyStart := open + tagClose + 2

	name, args, ok := parseCall(inner)
	if !ok {
		return ShortcodeMatch{}, false
	}

	endTag := strings.Index(text[bodyStart:], "{% end %}")
	if endTag < 0 {
		return ShortcodeMatch{}, false
	}
	body := text[bodyStart : bodyStart+endTag]
	end := bodyStart + endTag + len("{% end %}")

	return ShortcodeMatch{Start: open, End: end, Name: name, Args: args, Body: body}, true
}

// parseCall parses "name(key=\"value\", key2=\"value2\")" or the
// argument-free "name()" / "name" forms.
func parseCall(call string) (name string, args map[string]string, ok bool) {
	paren := strings.IndexByte(call, '(')
	if paren < 0 {
		name = strings.TrimSpace(call)
		if name == "" || strings.ContainsAny(name, " \t\n") {
			return "", nil, false
		}
		return name, map[string]string{}, true
	}
	if !strings.HasSuffix(call, ")") {
		return "", nil, false
	}
	name = strings.TrimSpace(call[:paren])
	if name == "" {
		return "", nil, false
	}

	argList := call[paren+1 : len(call)-1]
	args = map[string]string{}
	for _, part := range splitArgs(argList) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		eq := strings.IndexByte(part, '=')
		if eq < 0 {
			return "", nil, false
		}
		key := strings.TrimSpace(part[:eq])
		val := strings.TrimSpace(part[eq+1:])
		val = strings.Trim(val, `"`)
		if key == "" {
			return "", nil, false
		}
		args[key] = val
	}
	return name, args, true
}

// splitArgs splits a comma-separated argument list, ignoring commas inside
// double-quoted values.
func splitArgs(s string) []string {
	var parts []string
	var cur strings.Builder
	inQuotes := false
	for _, r := range s {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == ',' && !inQuotes:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	parts = append(parts, cur.String())
	return parts
}
