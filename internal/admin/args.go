package admin

import "strings"

// SplitArgs splits a command line into arguments. Double quotes group
// words into one argument and a backslash escapes the next character.
func SplitArgs(line string) []string {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		hasArg  bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line):
			i++
			cur.WriteByte(line[i])
			hasArg = true
		case c == '"':
			inQuote = !inQuote
			hasArg = true
		case !inQuote && (c == ' ' || c == '\t'):
			if hasArg {
				args = append(args, cur.String())
				cur.Reset()
				hasArg = false
			}
		default:
			cur.WriteByte(c)
			hasArg = true
		}
	}
	if hasArg {
		args = append(args, cur.String())
	}

	return args
}

// Quote wraps s in double quotes so SplitArgs yields it back as one argument.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return b.String()
}
