package gen

import "strings"

func write(sb *strings.Builder, s ...string) {
	for _, str := range s {
		sb.WriteString(str)
	}
}

func writeln(sb *strings.Builder, s ...string) {
	for _, str := range s {
		sb.WriteString(str)
	}
	sb.WriteByte('\n')
}

// writeVar writes a `NAME = value` assignment, without a trailing blank for empty values
func writeVar(sb *strings.Builder, name, value string) {
	if value == "" {
		writeln(sb, name, " =")
		return
	}
	writeln(sb, name, " = ", value)
}

// withSep rewrites a slash-separated path to use sep
func withSep(p, sep string) string {
	if sep == "/" {
		return p
	}
	return strings.ReplaceAll(p, "/", sep)
}

func joinPaths(paths []string, sep string) string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = withSep(p, sep)
	}
	return strings.Join(out, " ")
}
