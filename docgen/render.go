package docgen

import (
	"archive/zip"
	"regexp"
	"sort"
	"strings"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

var (
	// parts that carry user-visible text
	textPartRe = regexp.MustCompile(`^word/(document|header\d*|footer\d*|footnotes|endnotes)\.xml$`)
	textNodeRe = regexp.MustCompile(`(<w:t(?:\s[^>]*)?>)([^<]*)(</w:t>)`)
	tagNameRe  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.]*$`)
)

// Render substitutes {{TOKEN}} placeholders in every text part of a .docx
// template. Placeholders Word has split across runs are handled. All tag
// problems are collected and returned together as a *RenderError.
func Render(template []byte, values map[string]string) ([]byte, error) {
	var errs []error
	out, err := rewriteArchive(template, func(f *zip.File) ([]byte, error) {
		if !textPartRe.MatchString(f.Name) {
			return nil, nil
		}
		src, err := readFile(f)
		if err != nil {
			return nil, err
		}
		rendered, partErrs := renderPart(f.Name, string(src), values)
		if len(partErrs) > 0 {
			errs = append(errs, partErrs...)
			return nil, nil
		}
		return []byte(rendered), nil
	})
	if err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, &RenderError{Errs: errs}
	}
	return out, nil
}

type textNode struct {
	open, text, close string
	start, end        int // byte range of the whole match in the part
	off               int // offset of text within the joined stream
}

type replacement struct {
	start, end int // range in the joined stream, delimiters included
	value      string
}

func renderPart(part, src string, values map[string]string) (string, []error) {
	matches := textNodeRe.FindAllStringSubmatchIndex(src, -1)
	if len(matches) == 0 {
		return src, nil
	}

	nodes := make([]textNode, len(matches))
	var joined strings.Builder
	for i, m := range matches {
		nodes[i] = textNode{
			open:  src[m[2]:m[3]],
			text:  src[m[4]:m[5]],
			close: src[m[6]:m[7]],
			start: m[0],
			end:   m[1],
			off:   joined.Len(),
		}
		joined.WriteString(nodes[i].text)
	}

	reps, errs := findTags(part, joined.String(), values)
	if len(errs) > 0 {
		return "", errs
	}
	if len(reps) == 0 {
		return src, nil
	}

	stream := joined.String()
	var out strings.Builder
	last := 0
	r := 0
	for _, n := range nodes {
		lo, hi := n.off, n.off+len(n.text)
		var text strings.Builder
		changed := false
		for p := lo; p < hi; {
			for r < len(reps) && p >= reps[r].end {
				r++
			}
			if r < len(reps) && p >= reps[r].start {
				if p == reps[r].start {
					text.WriteString(reps[r].value)
				}
				p = min(hi, reps[r].end)
				changed = true
				continue
			}
			next := hi
			if r < len(reps) && reps[r].start < hi {
				next = reps[r].start
			}
			text.WriteString(stream[p:next])
			p = next
		}

		out.WriteString(src[last:n.start])
		if changed {
			out.WriteString(preserveSpace(n.open))
			out.WriteString(text.String())
			out.WriteString(n.close)
		} else {
			out.WriteString(src[n.start:n.end])
		}
		last = n.end
	}
	out.WriteString(src[last:])
	return out.String(), nil
}

func findTags(part, stream string, values map[string]string) ([]replacement, []error) {
	var (
		reps []replacement
		errs []error
	)
	pos := 0
	for {
		i := strings.Index(stream[pos:], openDelim)
		if i < 0 {
			break
		}
		start := pos + i
		body := stream[start+len(openDelim):]
		j := strings.Index(body, closeDelim)
		if next := strings.Index(body, openDelim); j < 0 || (next >= 0 && next < j) {
			errs = append(errs, &TagError{Part: part, Tag: snippet(body), Reason: "unclosed tag"})
			pos = start + len(openDelim)
			continue
		}
		end := start + len(openDelim) + j + len(closeDelim)
		name := strings.TrimSpace(body[:j])
		pos = end

		if !tagNameRe.MatchString(name) {
			errs = append(errs, &TagError{Part: part, Tag: name, Reason: "malformed tag"})
			continue
		}
		v, ok := values[name]
		if !ok {
			errs = append(errs, &TagError{Part: part, Tag: name, Reason: "no value supplied"})
			continue
		}
		reps = append(reps, replacement{start: start, end: end, value: xmlValue(v)})
	}
	sort.Slice(reps, func(a, b int) bool { return reps[a].start < reps[b].start })
	return reps, errs
}

func snippet(s string) string {
	const limit = 20
	if len(s) > limit {
		s = s[:limit]
	}
	return strings.TrimSpace(s)
}

func preserveSpace(open string) string {
	if strings.Contains(open, "xml:space") {
		return open
	}
	return strings.TrimSuffix(open, ">") + ` xml:space="preserve">`
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// lineBreak closes the current text node, emits a Word break and reopens.
const lineBreak = `</w:t><w:br/><w:t xml:space="preserve">`

// xmlValue escapes v for a w:t node, drops characters XML cannot carry
// (and U+FFFD) and turns newlines into Word line breaks.
func xmlValue(v string) string {
	v = strings.ReplaceAll(v, "\r\n", "\n")
	v = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		// U+FFFD is legal XML but ValidateDocument treats it as corruption.
		if !isXMLChar(r) || r == '\uFFFD' {
			return -1
		}
		return r
	}, v)
	v = xmlEscaper.Replace(v)
	return strings.ReplaceAll(v, "\n", lineBreak)
}
