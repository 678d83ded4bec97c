// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package remote

import (
	"fmt"
	"strconv"
	"strings"
)

// The remote statements print python literals; these parsers turn the
// printed text back into native values. Only the two shapes the crawl
// produces are supported: a bare integer and a list of strings.

// ParseCount parses a printed integer, e.g. "42\n".
func ParseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("expected an integer literal, got %q", strings.TrimSpace(s))
	}
	return n, nil
}

// ParseStringList parses a printed python list of strings, e.g.
// "['default', 'sales_db']". Both quote styles and backslash escapes are
// handled; an empty list yields a nil slice.
func ParseStringList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("expected a list literal, got %q", s)
	}
	body := s[1 : len(s)-1]

	var items []string
	i := 0
	for i < len(body) {
		// skip separators between elements
		for i < len(body) && (body[i] == ' ' || body[i] == ',') {
			i++
		}
		if i >= len(body) {
			break
		}
		quote := body[i]
		if quote != '\'' && quote != '"' {
			return nil, fmt.Errorf("expected quoted string at offset %d in %q", i, s)
		}
		i++
		var sb strings.Builder
		closed := false
		for i < len(body) {
			c := body[i]
			if c == '\\' && i+1 < len(body) {
				next := body[i+1]
				switch next {
				case 'n':
					sb.WriteByte('\n')
				case 't':
					sb.WriteByte('\t')
				default:
					sb.WriteByte(next)
				}
				i += 2
				continue
			}
			if c == quote {
				closed = true
				i++
				break
			}
			sb.WriteByte(c)
			i++
		}
		if !closed {
			return nil, fmt.Errorf("unterminated string in list literal %q", s)
		}
		items = append(items, sb.String())
	}
	return items, nil
}
