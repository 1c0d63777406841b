package fieldschema

import "strings"

// ParseOptions splits raw on commas, trims every token and drops the empty
// ones. Order is preserved and duplicates are kept.
func ParseOptions(raw string) []string {
	raw = validText(raw)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, token := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(token)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// JoinOptions renders an option list the way rows display it.
func JoinOptions(options []string) string {
	return strings.Join(options, ", ")
}

// Normalize applies the input cleanup of NewDescriptor to an already
// structured descriptor: text is made valid UTF-8 and trimmed, blank options
// are dropped. Options are taken as given, never split on commas. The result
// is not validated.
func Normalize(d FieldDescriptor) FieldDescriptor {
	out := FieldDescriptor{
		Name: strings.TrimSpace(validText(d.Name)),
		Type: FieldType(strings.TrimSpace(string(d.Type))),
	}
	for _, option := range d.Options {
		trimmed := strings.TrimSpace(validText(option))
		if trimmed == "" {
			continue
		}
		out.Options = append(out.Options, trimmed)
	}
	return out
}

// validText replaces invalid UTF-8 sequences so the stored JSON decodes to
// the same bytes the editor holds.
func validText(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}
