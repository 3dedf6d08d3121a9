package migration

import "strings"

// SplitStatements splits raw migration SQL into individual statements so
// failures can be reported with a statement index. Statements end at a
// semicolon outside of single quotes and dollar-quoted bodies. Line
// comments are dropped. This intentionally covers the DDL/DML subset
// migration files use, not full SQL lexing.
func SplitStatements(raw string) (stmts []string) {
	var b strings.Builder
	var inQuote bool
	var dollarTag string

	flush := func() {
		s := strings.TrimSpace(b.String())
		b.Reset()
		if s != "" {
			stmts = append(stmts, s)
		}
	}

	lines := strings.Split(raw, "\n")
	for _, line := range lines {
		if !inQuote && dollarTag == "" && strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}

		for i := 0; i < len(line); i++ {
			ch := line[i]

			if dollarTag != "" {
				if ch == '$' && strings.HasPrefix(line[i:], dollarTag) {
					b.WriteString(dollarTag)
					i += len(dollarTag) - 1
					dollarTag = ""
					continue
				}
				b.WriteByte(ch)
				continue
			}

			if inQuote {
				b.WriteByte(ch)
				if ch == '\'' {
					inQuote = false
				}
				continue
			}

			switch ch {
			case '\'':
				inQuote = true
				b.WriteByte(ch)
			case '$':
				if tag, ok := dollarQuoteTag(line[i:]); ok {
					dollarTag = tag
					b.WriteString(tag)
					i += len(tag) - 1
				} else {
					b.WriteByte(ch)
				}
			case ';':
				flush()
			default:
				b.WriteByte(ch)
			}
		}
		b.WriteByte('\n')
	}

	flush()

	return stmts
}

// dollarQuoteTag reports whether s starts a dollar-quote tag ($$, $fn$,
// ...) and returns the full tag
func dollarQuoteTag(s string) (tag string, ok bool) {
	if len(s) < 2 || s[0] != '$' {
		return "", false
	}
	for i := 1; i < len(s); i++ {
		ch := s[i]
		if ch == '$' {
			return s[:i+1], true
		}
		if !(ch == '_' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9') {
			return "", false
		}
	}
	return "", false
}
