// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package collapse

import "strings"

// TidyOptions controls the canonical pre-render normalization applied
// to a raw frame name (spec.md §4.7, steps 1-3; escaping and
// width-based truncation are emission-time concerns handled by the
// renderer, not here).
type TidyOptions struct {
	Generic bool // strip parenthesized args, quotes; collapse ';' to ':'
	Java    bool // strip a leading 'L' from slash-qualified Java class names
}

// TidyName applies the generic and Java cleanup rules to a raw symbol
// name. It never touches instruction-offset stripping (done by each
// collapser against its own "+0x.." convention before calling this)
// since the offset syntax differs slightly across profilers.
func TidyName(name string, opts TidyOptions) string {
	if opts.Generic {
		name = strings.ReplaceAll(name, ";", ":")
		if !looksLikeGoMethod(name) {
			name = stripParenArgsUnlessAnonymous(name)
		}
		name = strings.ReplaceAll(name, "\"", "")
		name = strings.ReplaceAll(name, "'", "")
		name = elideTemplateArgs(name)
		name = collapseAnonymousNamespace(name)
	}
	if opts.Java {
		if strings.Contains(name, "/") {
			name = strings.TrimPrefix(name, "L")
		}
	}
	return name
}

// looksLikeGoMethod recognizes the Go compiler's "pkg.(*Type).Method"
// shape, which contains a parenthesized receiver that stripParenArgs
// must not truncate.
func looksLikeGoMethod(s string) bool {
	return strings.Contains(s, ".(") && strings.Contains(s, ").")
}

// stripParenArgsUnlessAnonymous removes everything from the first '('
// onward, unless that parenthesis opens a C++ "(anonymous namespace)"
// marker, which tidying normalizes separately rather than truncating.
func stripParenArgsUnlessAnonymous(s string) string {
	idx := strings.Index(s, "(")
	if idx == -1 {
		return s
	}
	if strings.HasPrefix(s[idx:], "(anonymous namespace") {
		return s
	}
	return s[:idx]
}

// elideTemplateArgs conservatively removes matched top-level <...>
// spans (C++ template argument lists), e.g. "vector<int>::push_back"
// becomes "vector::push_back" (spec.md §4.7 step 2). A '<' that opens
// an "operator<"/"operator<<"/"operator<=" token is left alone rather
// than read as a template bracket, and an unbalanced span is left
// untouched entirely rather than risk corrupting the name.
func elideTemplateArgs(s string) string {
	var b strings.Builder
	depth := 0
	i := 0
	for i < len(s) {
		c := s[i]
		if c == '<' {
			if depth == 0 && isOperatorToken(s, i) {
				b.WriteByte(c)
				i++
				for i < len(s) && (s[i] == '<' || s[i] == '=') {
					b.WriteByte(s[i])
					i++
				}
				continue
			}
			depth++
			i++
			continue
		}
		if c == '>' && depth > 0 {
			depth--
			i++
			continue
		}
		if depth == 0 {
			b.WriteByte(c)
		}
		i++
	}
	if depth != 0 {
		return s
	}
	return b.String()
}

// isOperatorToken reports whether the '<' at idx is preceded by
// "operator", so that operator-overload names keep their angle
// brackets literal instead of being read as a template boundary.
func isOperatorToken(s string, idx int) bool {
	const op = "operator"
	return idx >= len(op) && s[idx-len(op):idx] == op
}

// collapseAnonymousNamespace normalizes "(anonymous namespace)::X" to
// "X", the spec.md §4.7 step-3 rule.
func collapseAnonymousNamespace(s string) string {
	const marker = "(anonymous namespace)::"
	if idx := strings.Index(s, marker); idx != -1 {
		return s[:idx] + s[idx+len(marker):]
	}
	return s
}

// StripSymbolOffset strips a trailing "+0x<hex>" instruction offset,
// the shape perf/DTrace/sample all use (case-insensitive hex digits).
func StripSymbolOffset(s string) string {
	idx := strings.LastIndex(s, "+0x")
	if idx == -1 {
		return s
	}
	for i := idx + 3; i < len(s); i++ {
		if !isHexDigit(s[i]) {
			return s
		}
	}
	if idx+3 == len(s) {
		return s
	}
	return s[:idx]
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// EscapeSVGText escapes the characters unsafe inside SVG text/attribute
// content: &, <, >, and ".
func EscapeSVGText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
