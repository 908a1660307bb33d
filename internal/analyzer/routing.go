// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package analyzer

import (
	"sort"
	"strings"

	"github.com/sim0nx/eml-parser/internal/models"
)

// hopMarkers are the clause keywords of a Received line, trailing
// space included so "from" inside a hostname does not count.
var hopMarkers = []string{"from ", "by ", "with ", "for "}

// Anomaly tags surfaced on HopRecord.Warnings.
const (
	WarnMergedHeaders  = "merged headers"
	WarnNothingParsed  = "nothing parsable"
	WarnDuplicateEntry = "duplicate by entrypoint"
)

// ParseRouting parses one line-unfolded, whitespace-collapsed
// Received header value into a hop record. There is no large common
// grammar for these lines; agents order and omit clauses freely, so
// parsing is positional: normalise, find the clause keywords that are
// present, slice the text between them. The function is total — any
// input, including the empty string, yields a record with a valid
// date and either populated fields or a warning.
func ParseRouting(line string) *models.HopRecord {
	hop := &models.HopRecord{Src: line, Date: EpochDate()}

	lower := strings.ToLower(line)

	// Pad parens and semicolons so ")by" style agents still yield
	// clean keyword boundaries. Clause keywords are located on the
	// comment-stripped copy (comments may contain anything), but field
	// text is sliced out of the comment-intact copy: the standard
	// "from host (helo [ip])" form keeps its relay address only inside
	// the comment.
	padded := strings.ReplaceAll(lower, ")", " ) ")
	padded = strings.ReplaceAll(padded, "(", " ( ")
	padded = strings.ReplaceAll(padded, ";", " ; ")
	np := stripParens(padded)
	np = wsRegex.ReplaceAllString(np, " ")
	np = strings.Trim(np, "\n")
	padded = wsRegex.ReplaceAllString(padded, " ")

	// The date clause is a semicolon plus date-ish tail anchored at
	// end of line.
	npdate := ""
	if m := regDate.FindString(np); m != "" {
		npdate = strings.TrimSpace(strings.TrimLeft(m, ";"))
	}
	hop.Date = RobustDate(npdate)

	// Two header values folded into one line; clause positions are
	// meaningless across the seam.
	if strings.Contains(np, " received: ") {
		hop.Warnings = append(hop.Warnings, WarnMergedHeaders)
		return hop
	}

	if npdate != "" {
		np = strings.ReplaceAll(np, npdate, "")
	}
	np = strings.Trim(np, " ")
	if m := regDate.FindString(padded); m != "" {
		padded = strings.TrimSuffix(padded, m)
	}
	padded = strings.Trim(padded, " ")

	markers := locateMarkers(np)
	if len(markers) == 0 {
		hop.Warnings = append(hop.Warnings, WarnNothingParsed)
		return hop
	}

	// Map the keyword order found on the stripped line back onto the
	// comment-intact one, each keyword searched after the previous.
	spans := make([]markerHit, 0, len(markers))
	search := 0
	for _, m := range markers {
		idx := strings.Index(padded[search:], m.name)
		if idx < 0 {
			continue
		}
		hit := markerHit{name: m.name, pos: search + idx}
		spans = append(spans, hit)
		search = hit.pos + len(hit.name)
	}

	fields := make(map[string]string, len(spans))
	for i, m := range spans {
		start := m.pos + len(m.name)
		end := len(padded)
		if i+1 < len(spans) {
			end = spans[i+1].pos
		}
		if start > end {
			start = end
		}
		fields[strings.TrimSpace(m.name)] = cleanEdges(padded[start:end])
	}

	// Some relays (Google among them) embed a second from clause
	// inside the for field; reattach it where it belongs.
	if forText, ok := fields["for"]; ok {
		if strings.Contains(forText, " from ") {
			parts := strings.SplitN(forText, " from ", 2)
			fields["for"] = parts[0]
			fields["from"] = strings.TrimSpace(fields["from"] + " " + parts[1])
		}
		if m := emailRegex.FindAllString(fields["for"], -1); len(m) > 0 {
			hop.For = uniqueSorted(m)
		}
	}

	if fromText, ok := fields["from"]; ok {
		hop.From = domainsAndIPs(fromText)
	}
	if byText, ok := fields["by"]; ok {
		hop.By = domainsAndIPs(byText)
	}
	hop.With = fields["with"]

	return hop
}

type markerHit struct {
	name string
	pos  int
}

// locateMarkers finds the authoritative occurrence of each clause
// keyword present in the line and returns them ordered by position.
// Candidate selection historically weighted each marker against every
// other marker's first occurrence (absent or earlier markers counting
// as unbounded) and kept the lowest weight, ties broken by first
// match; since all candidates for a marker share its first
// occurrence, picking that first occurrence reproduces the weighted
// choice exactly.
func locateMarkers(np string) []markerHit {
	var hits []markerHit
	for _, name := range hopMarkers {
		if loc := strings.Index(np, name); loc >= 0 {
			hits = append(hits, markerHit{name: name, pos: loc})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	return hits
}

// domainsAndIPs extracts the unique domain, IPv4 and IPv6 tokens from
// a clause body. Deliberately unfiltered: private addresses stay, the
// hop record preserves the full claimed routing topology and the
// report-level aggregates apply the private-range filter instead.
func domainsAndIPs(text string) []string {
	var found []string
	// Leading space supplies the left delimiter for a clause that
	// starts directly with a domain.
	for _, m := range domRegex.FindAllStringSubmatch(" "+text, -1) {
		found = append(found, m[1])
	}
	found = append(found, ipv4Regex.FindAllString(text, -1)...)
	found = append(found, ipv6Regex.FindAllString(text, -1)...)
	return uniqueSorted(found)
}

// stripParens removes parenthetical comments until none remain.
// Comments nest, so one innermost-group pass is reapplied to a fixed
// point; the iteration cap only guards degenerate inputs, every
// productive pass shrinks the string.
func stripParens(line string) string {
	for i := 0; i <= len(line); i++ {
		next := noParRegex.ReplaceAllString(line, "")
		if next == line {
			break
		}
		line = next
	}
	return line
}

// cleanEdges trims whitespace and stray semicolons from both ends
// until stable.
func cleanEdges(field string) string {
	for i := 0; i <= len(field); i++ {
		next := strings.Trim(strings.Trim(field, ";"), " ")
		if next == field {
			break
		}
		field = next
	}
	return field
}
