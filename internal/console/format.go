package console

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Format expands composite placeholders of the form {index[,alignment][:format]}
// with args. "{{" and "}}" produce literal braces. A positive alignment pads
// on the left, a negative one on the right. The format part is accepted and
// ignored.
func Format(format string, args ...any) (string, error) {
	var b strings.Builder
	b.Grow(len(format))

	for i := 0; i < len(format); i++ {
		c := format[i]
		switch c {
		case '{':
			if i+1 < len(format) && format[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(format[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: unclosed '{' at offset %d", ErrFormat, i)
			}
			item := format[i+1 : i+end]
			s, err := formatItem(item, args)
			if err != nil {
				return "", err
			}
			b.WriteString(s)
			i += end
		case '}':
			if i+1 < len(format) && format[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			return "", fmt.Errorf("%w: unmatched '}' at offset %d", ErrFormat, i)
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func formatItem(item string, args []any) (string, error) {
	if idx := strings.IndexByte(item, ':'); idx >= 0 {
		item = item[:idx]
	}
	align := 0
	if idx := strings.IndexByte(item, ','); idx >= 0 {
		n, err := strconv.Atoi(strings.TrimSpace(item[idx+1:]))
		if err != nil {
			return "", fmt.Errorf("%w: bad alignment %q", ErrFormat, item[idx+1:])
		}
		align = n
		item = item[:idx]
	}
	index, err := strconv.Atoi(strings.TrimSpace(item))
	if err != nil || index < 0 {
		return "", fmt.Errorf("%w: bad index %q", ErrFormat, item)
	}
	if index >= len(args) {
		return "", fmt.Errorf("%w: index %d out of range (%d args)", ErrFormat, index, len(args))
	}

	s := formatValue(args[index])
	pad := abs(align) - utf8.RuneCountInString(s)
	switch {
	case pad <= 0:
		return s, nil
	case align > 0:
		return strings.Repeat(" ", pad) + s, nil
	default:
		return s + strings.Repeat(" ", pad), nil
	}
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	default:
		return fmt.Sprint(v)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
