package chunker

import (
	"regexp"
	"strings"
	"unicode"
)

// structuralMarker matches a clause header at the start of a line:
// an optional keyword, a numeric locator and optional punctuation.
var structuralMarker = regexp.MustCompile(
	`\n\s*(?:Section|Article|ARTICLE|Clause|Sub-clause)?\s*\d+[\.\d]*[A-Za-z]*[:\.\-]?\s*`,
)

// connectiveKeywords start a new fragment when they appear as whole words.
var connectiveKeywords = []string{
	"Section", "Article", "ARTICLE", "Clause", "Sub-clause", "Definitions",
	"Whereas", "Provided that", "Notwithstanding", "Unless otherwise",
	"Subject to", "In the event that", "Agreement", "Term", "Termination",
	"Confidentiality", "Liability", "Jurisdiction",
}

// Split runs the three chunking passes over text and returns the chunk strings.
//
// Chunk i+1 begins with the last overlap characters of chunk i whenever the
// merge crossed a size boundary. The suffix is taken without regard to word
// boundaries, so it may start mid-word.
func (p *Processor) Split(text string) []string {
	var fragments []string
	for _, block := range structuralBlocks(text) {
		fragments = append(fragments, refine(block)...)
	}
	return p.merge(fragments)
}

// structuralBlocks splits text at clause headers. Each header stays at the
// head of the block it opens; text before the first header is its own block.
func structuralBlocks(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var blocks []string
	var buf strings.Builder
	flush := func() {
		if s := strings.TrimSpace(buf.String()); s != "" {
			blocks = append(blocks, s)
			buf.Reset()
		}
	}

	last := 0
	for _, loc := range structuralMarker.FindAllStringIndex(text, -1) {
		buf.WriteString(text[last:loc[0]])
		flush()
		buf.WriteString(text[loc[0]:loc[1]])
		last = loc[1]
	}
	buf.WriteString(text[last:])
	flush()

	return blocks
}

// refine splits a block after semicolons, at sentence ends followed by a
// capital letter, and just before connective keywords.
func refine(block string) []string {
	runes := []rune(block)
	var out []string
	start := 0
	emit := func(end int) {
		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			out = append(out, s)
		}
	}

	for i := 0; i < len(runes); {
		if i > 0 && unicode.IsSpace(runes[i]) && (runes[i-1] == ';' || runes[i-1] == '.') {
			j := i
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			if runes[i-1] == ';' || (j < len(runes) && isASCIIUpper(runes[j])) {
				emit(i)
				start = j
				i = j
				continue
			}
		}
		if i > start && keywordAt(runes, i) {
			emit(i)
			start = i
		}
		i++
	}
	emit(len(runes))

	return out
}

// keywordAt reports whether a connective keyword starts at runes[i] with a
// word boundary on both sides.
func keywordAt(runes []rune, i int) bool {
	if i > 0 && isWordRune(runes[i-1]) {
		return false
	}
	for _, kw := range connectiveKeywords {
		end := i + len([]rune(kw))
		if end > len(runes) || string(runes[i:end]) != kw {
			continue
		}
		if end == len(runes) || !isWordRune(runes[end]) {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isASCIIUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

// merge greedily packs fragments into chunks of at most chunkSize runes,
// seeding each new chunk with the tail of the previous one.
func (p *Processor) merge(fragments []string) []string {
	var chunks []string
	var cur []rune

	flush := func() {
		if len(cur) > 0 {
			chunks = append(chunks, string(cur))
		}
	}

	for _, frag := range p.bounded(fragments) {
		if len(cur)+len(frag) < p.chunkSize {
			if len(cur) > 0 {
				cur = append(cur, ' ')
			}
			cur = append(cur, frag...)
			continue
		}

		flush()
		next := make([]rune, 0, p.overlap+1+len(frag))
		if p.overlap > 0 && len(chunks) > 0 {
			prev := []rune(chunks[len(chunks)-1])
			next = append(next, prev[max(0, len(prev)-p.overlap):]...)
			next = append(next, ' ')
		}
		cur = append(next, frag...)
	}
	flush()

	return chunks
}

// bounded converts fragments to runes, cutting any fragment that could not
// fit in an empty chunk into pieces of at most chunkSize-1 runes. Cuts fall
// on the last whitespace within the limit; a run with no whitespace is cut
// at the limit.
func (p *Processor) bounded(fragments []string) [][]rune {
	limit := max(1, p.chunkSize-1)
	out := make([][]rune, 0, len(fragments))
	for _, f := range fragments {
		r := []rune(f)
		for len(r) > limit {
			cut := limit
			if sp := lastSpace(r[:limit+1]); sp > 0 {
				cut = sp
			}
			if piece := trimSpaceRunes(r[:cut]); len(piece) > 0 {
				out = append(out, piece)
			}
			r = trimSpaceRunes(r[cut:])
		}
		if len(r) > 0 {
			out = append(out, r)
		}
	}
	return out
}

func lastSpace(r []rune) int {
	for i := len(r) - 1; i >= 0; i-- {
		if unicode.IsSpace(r[i]) {
			return i
		}
	}
	return -1
}

func trimSpaceRunes(r []rune) []rune {
	for len(r) > 0 && unicode.IsSpace(r[0]) {
		r = r[1:]
	}
	for len(r) > 0 && unicode.IsSpace(r[len(r)-1]) {
		r = r[:len(r)-1]
	}
	return r
}
