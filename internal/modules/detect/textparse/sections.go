// Package textparse computes exact arithmetic facts about a document:
// paragraph and word counts, sentence lengths, uniformity statistics.
// These numbers are ground truth and never depend on model output.
package textparse

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// Boundary is a model-proposed section span in paragraph indices
// (0-based, end inclusive).
type Boundary struct {
	Role           string `json:"role"`
	Title          string `json:"title"`
	StartParagraph int    `json:"start_paragraph"`
	EndParagraph   int    `json:"end_paragraph"`
}

// Section carries the locally computed statistics for one section.
type Section struct {
	Role           string `json:"role"`
	Title          string `json:"title"`
	WordCount      int    `json:"word_count"`
	ParagraphCount int    `json:"paragraph_count"`
	StartParagraph int    `json:"start_paragraph"`
	EndParagraph   int    `json:"end_paragraph"`
}

var paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)

// SplitParagraphs splits on blank lines, dropping empty chunks.
func SplitParagraphs(doc string) []string {
	parts := paragraphSplitRe.Split(doc, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, strings.TrimSpace(p))
		}
	}
	return out
}

// ComputeSectionStatistics recounts every section from the raw text
// using the proposed boundaries. Out-of-range boundaries are clamped;
// inverted ones are skipped.
func ComputeSectionStatistics(doc string, bounds []Boundary) []Section {
	paras := SplitParagraphs(doc)
	sections := make([]Section, 0, len(bounds))

	for _, b := range bounds {
		start, end := b.StartParagraph, b.EndParagraph
		if start < 0 {
			start = 0
		}
		if end >= len(paras) {
			end = len(paras) - 1
		}
		if end < start || len(paras) == 0 {
			continue
		}

		words := 0
		for _, p := range paras[start : end+1] {
			words += WordCount(p)
		}
		sections = append(sections, Section{
			Role:           b.Role,
			Title:          b.Title,
			WordCount:      words,
			ParagraphCount: end - start + 1,
			StartParagraph: start,
			EndParagraph:   end,
		})
	}
	return sections
}

// WordCount counts whitespace-separated tokens, with each CJK rune
// counted as one word so mixed-language documents measure sensibly.
func WordCount(s string) int {
	count := 0
	for _, field := range strings.Fields(s) {
		cjk := 0
		for _, r := range field {
			if unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r) {
				cjk++
			}
		}
		if cjk > 0 {
			count += cjk
		} else {
			count++
		}
	}
	return count
}

var sentenceEndRe = regexp.MustCompile(`[.!?。！？]+[\s"')\]]*`)

// SplitSentences splits prose into sentences on terminal punctuation
// (Latin and CJK).
func SplitSentences(s string) []string {
	marks := sentenceEndRe.FindAllStringIndex(s, -1)
	var out []string
	prev := 0
	for _, m := range marks {
		sent := strings.TrimSpace(s[prev:m[1]])
		if sent != "" {
			out = append(out, sent)
		}
		prev = m[1]
	}
	if rest := strings.TrimSpace(s[prev:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// CoefficientOfVariation returns stddev/mean; zero for degenerate
// inputs. A low CV signals suspicious uniformity.
func CoefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	if mean == 0 {
		return 0
	}

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))
	return math.Sqrt(variance) / mean
}

// SentenceLengthCV measures the coefficient of variation of sentence
// word lengths across the document.
func SentenceLengthCV(doc string) float64 {
	sentences := SplitSentences(doc)
	lengths := make([]float64, 0, len(sentences))
	for _, s := range sentences {
		lengths = append(lengths, float64(WordCount(s)))
	}
	return CoefficientOfVariation(lengths)
}

// TypeTokenRatio is unique words over total words, lowercased; a low
// ratio signals limited lexical diversity.
func TypeTokenRatio(s string) float64 {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 0 {
		return 0
	}
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if f != "" {
			seen[f] = struct{}{}
		}
	}
	return float64(len(seen)) / float64(len(fields))
}
