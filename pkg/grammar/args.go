package grammar

import "strings"

// parseArgs splits the argument text of a tag into positional and named
// arguments. Double quotes group text containing spaces and are removed.
func parseArgs(s string) (args []string, named map[string]string, text string) {
	for _, tok := range splitTokens(s) {
		if key, val, ok := splitNamed(tok); ok {
			if named == nil {
				named = make(map[string]string)
			}
			named[key] = unquote(val)
			continue
		}
		args = append(args, unquote(tok))
	}
	return args, named, strings.TrimSpace(unquote(s))
}

// splitTokens splits on whitespace outside double quotes. Quotes are kept so
// splitNamed can still see where a value starts.
func splitTokens(s string) []string {
	var (
		toks    []string
		b       strings.Builder
		inQuote bool
		started bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			started = true
			b.WriteByte(c)
		case !inQuote && isSpace(c):
			if started {
				toks = append(toks, b.String())
				b.Reset()
				started = false
			}
		default:
			b.WriteByte(c)
			started = true
		}
	}
	if started {
		toks = append(toks, b.String())
	}
	return toks
}

// splitNamed recognizes key=value. Comparisons such as a==1 or a!=1 are not
// named arguments.
func splitNamed(tok string) (key, val string, ok bool) {
	idx := strings.IndexByte(tok, '=')
	if idx <= 0 {
		return "", "", false
	}
	key = tok[:idx]
	if !isIdent(key) {
		return "", "", false
	}
	if idx+1 < len(tok) && tok[idx+1] == '=' {
		return "", "", false
	}
	return key, tok[idx+1:], true
}

func isIdent(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i], i == 0) {
			return false
		}
	}
	return s != ""
}

func unquote(s string) string {
	if !strings.Contains(s, `"`) {
		return s
	}
	return strings.ReplaceAll(s, `"`, "")
}
