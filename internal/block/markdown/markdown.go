// Package markdown derives block signals from raw markdown source.
//
// The terminal view has no rendering engine to attach structural classes
// to its rows, so the scanner reproduces the per-line facts a live-preview
// editor exposes: fenced code membership, GFM table rows, list items,
// headings, blockquotes, callouts, thematic breaks and embeds.
package markdown

import (
	"regexp"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dshills/blockdnd/internal/block"
)

var (
	fenceRE    = regexp.MustCompile("^ {0,3}(`{3,}|~{3,})(.*)$")
	hrRE       = regexp.MustCompile(`^ {0,3}(?:(?:-[ \t]*){3,}|(?:\*[ \t]*){3,}|(?:_[ \t]*){3,})$`)
	headingRE  = regexp.MustCompile(`^ {0,3}#{1,6}(?:[ \t]|$)`)
	calloutRE  = regexp.MustCompile(`^ {0,3}>\s*\[![^\]]+\]`)
	quoteRE    = regexp.MustCompile(`^ {0,3}>`)
	listRE     = regexp.MustCompile(`^[ \t]*(?:[-*+]|\d{1,9}[.)])(?:[ \t]|$)`)
	embedRE    = regexp.MustCompile(`!\[\[[^\]]+\]\]`)
	imageRE    = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	continueRE = regexp.MustCompile(`^(?: {2,}|\t)\S`)
)

// tableParser confirms pipe runs really form a GFM table.
var tableParser = goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()

// Scan splits text into lines and attaches the signals of each line.
func Scan(src string) []block.Line {
	raw := strings.Split(src, "\n")
	signals := Signals(raw)

	lines := make([]block.Line, len(raw))
	for i, s := range raw {
		lines[i] = block.Line{Index: i, Text: s, Signals: signals[i]}
	}
	return lines
}

// Signals returns the structural signals of each line.
func Signals(lines []string) []block.Signal {
	out := make([]block.Signal, len(lines))

	var (
		fenceChar byte
		fenceLen  int
		inFence   bool
		inList    bool
		tableRun  []int
	)

	flushTable := func() {
		if len(tableRun) >= 2 {
			for _, i := range tableLines(lines, tableRun) {
				out[i] |= block.SignalTable
			}
		}
		tableRun = tableRun[:0]
	}

	for i, line := range lines {
		if inFence {
			out[i] |= block.SignalCode
			if closesFence(line, fenceChar, fenceLen) {
				inFence = false
			}
			continue
		}

		if m := fenceRE.FindStringSubmatch(line); m != nil && validFence(m[1], m[2]) {
			flushTable()
			inList = false
			inFence = true
			fenceChar = m[1][0]
			fenceLen = len(m[1])
			out[i] |= block.SignalCode
			continue
		}

		if strings.TrimSpace(line) == "" {
			flushTable()
			inList = false
			continue
		}

		var s block.Signal
		switch {
		case hrRE.MatchString(line):
			s |= block.SignalHR
		case headingRE.MatchString(line):
			s |= block.SignalHeading
		case calloutRE.MatchString(line):
			s |= block.SignalCallout | block.SignalQuote
		case quoteRE.MatchString(line):
			s |= block.SignalQuote
		case listRE.MatchString(line):
			s |= block.SignalList
		case inList && continueRE.MatchString(line):
			s |= block.SignalList
		}
		inList = s.Has(block.SignalList)

		if embedRE.MatchString(line) {
			s |= block.SignalEmbed | block.SignalWidget
		} else if imageRE.MatchString(line) {
			s |= block.SignalWidget
		}

		if s&(block.SignalHR|block.SignalHeading|block.SignalQuote|block.SignalList) == 0 &&
			strings.Contains(line, "|") {
			tableRun = append(tableRun, i)
		} else {
			flushTable()
		}

		out[i] |= s
	}
	flushTable()

	return out
}

// validFence rejects backtick fences whose info string contains a backtick.
func validFence(marker, info string) bool {
	return marker[0] != '`' || !strings.Contains(info, "`")
}

// closesFence reports whether line closes a fence opened with n chars c.
func closesFence(line string, c byte, n int) bool {
	t := strings.TrimLeft(line, " ")
	if len(line)-len(t) > 3 {
		return false
	}
	run := 0
	for run < len(t) && t[run] == c {
		run++
	}
	return run >= n && strings.TrimSpace(t[run:]) == ""
}

// tableLines parses a run of pipe-bearing lines and returns the lines that
// belong to a GFM table. Paragraph lines above the header stay out.
func tableLines(lines []string, run []int) []int {
	var b strings.Builder
	starts := make([]int, len(run))
	for k, i := range run {
		starts[k] = b.Len()
		b.WriteString(lines[i])
		b.WriteByte('\n')
	}
	doc := tableParser.Parse(text.NewReader([]byte(b.String())))

	lineAt := func(off int) int {
		return sort.Search(len(starts), func(k int) bool { return starts[k] > off }) - 1
	}

	var out []int
	next := 0
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if n.Kind() == extast.KindTable {
			// Header and body rows, plus the delimiter row.
			rows := n.ChildCount() + 1
			for k := next; k < next+rows && k < len(run); k++ {
				out = append(out, run[k])
			}
			next += rows
			continue
		}
		if segs := n.Lines(); segs.Len() > 0 {
			next = lineAt(segs.At(segs.Len()-1).Start) + 1
		}
	}
	return out
}
