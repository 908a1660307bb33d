// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package analyzer

import (
	"regexp"
	"sort"
	"strings"
)

// ScanWindows bounds regex cost on oversized bodies. Above Threshold
// bytes the extractor stops scanning the whole text and instead scans
// a fixed window around every occurrence of each pattern's cheapest
// anchor character. Window sizes derive from the RFC maximum length of
// the token being matched, so a token whose anchor lies inside it is
// always fully covered.
//
// The values are part of the output contract: changing them changes
// which indicators large messages report.
type ScanWindows struct {
	Threshold int

	// "://" anchor for URLs.
	URLBefore, URLAfter int
	// "@" anchor for e-mail addresses (RFC 3696/5321/5322 limits).
	EmailBefore, EmailAfter int
	// "." anchor for domains (RFC 1035 FQDN bound) and dotted quads.
	DomainBefore, DomainAfter int
	IPv4Before, IPv4After     int
	// ":" anchor for IPv6 (32 hex digits + 7 separators).
	IPv6Before, IPv6After int
}

// DefaultScanWindows are the tuned production values.
var DefaultScanWindows = ScanWindows{
	Threshold:    4096,
	URLBefore:    16,
	URLAfter:     4096,
	EmailBefore:  64,
	EmailAfter:   255,
	DomainBefore: 253,
	DomainAfter:  1004,
	IPv4Before:   11,
	IPv4After:    3,
	IPv6Before:   4,
	IPv6After:    35,
}

// IndicatorSet holds the deduplicated, case-normalised indicators
// observed in one text blob. Domains and e-mail addresses are
// lower-cased; IPv6 addresses are lower-cased, IPv4 kept as matched.
type IndicatorSet struct {
	URLs   []string
	Emails []string
	Domain []string
	IPv4   []string
	IPv6   []string
}

// ExtractIndicators scans text for URL, e-mail, domain and IP tokens.
// Private-range IPs are dropped, then any IP present in ipExclude is
// removed as well; the exclude list never re-adds a private address.
// Texts under the window threshold are scanned exhaustively, larger
// ones through anchored windows.
func ExtractIndicators(text string, ipExclude []string, win ScanWindows) IndicatorSet {
	if win.Threshold == 0 {
		win = DefaultScanWindows
	}

	excluded := make(map[string]bool, len(ipExclude))
	for _, ip := range ipExclude {
		excluded[ip] = true
	}

	var urls, emails, domains, ipv4s, ipv6s []string

	keepIPv4 := func(match string) {
		if privIPRegex.MatchString(match) {
			return
		}
		if excluded[match] {
			return
		}
		ipv4s = append(ipv4s, match)
	}
	keepIPv6 := func(match string) {
		if privIPRegex.MatchString(match) {
			return
		}
		lower := strings.ToLower(match)
		if excluded[lower] {
			return
		}
		ipv6s = append(ipv6s, lower)
	}

	if len(text) < win.Threshold {
		urls = extractURLs(text)
		for _, m := range emailRegex.FindAllString(text, -1) {
			emails = append(emails, strings.ToLower(m))
		}
		for _, m := range domRegex.FindAllStringSubmatch(text, -1) {
			domains = append(domains, strings.ToLower(m[1]))
		}
		for _, m := range ipv4Regex.FindAllString(text, -1) {
			keepIPv4(m)
		}
		for _, m := range ipv6Regex.FindAllString(text, -1) {
			keepIPv6(m)
		}
	} else {
		for _, pos := range findAll("://", text) {
			urls = append(urls, extractURLs(window(text, pos, win.URLBefore, win.URLAfter))...)
		}
		for _, m := range windowMatches(emailRegex, text, findAll("@", text), win.EmailBefore, win.EmailAfter, 0) {
			emails = append(emails, strings.ToLower(m))
		}
		dots := findAll(".", text)
		for _, m := range windowMatches(domRegex, text, dots, win.DomainBefore, win.DomainAfter, 1) {
			domains = append(domains, strings.ToLower(m))
		}
		for _, m := range windowMatches(ipv4Regex, text, dots, win.IPv4Before, win.IPv4After, 0) {
			keepIPv4(m)
		}
		for _, m := range windowMatches(ipv6Regex, text, findAll(":", text), win.IPv6Before, win.IPv6After, 0) {
			keepIPv6(m)
		}
	}

	return IndicatorSet{
		URLs:   uniqueSorted(urls),
		Emails: uniqueSorted(emails),
		Domain: uniqueSorted(domains),
		IPv4:   uniqueSorted(ipv4s),
		IPv6:   uniqueSorted(ipv6s),
	}
}

// IPs returns the merged v4+v6 set.
func (s IndicatorSet) IPs() []string {
	if len(s.IPv4) == 0 && len(s.IPv6) == 0 {
		return nil
	}
	merged := make([]string, 0, len(s.IPv4)+len(s.IPv6))
	merged = append(merged, s.IPv4...)
	merged = append(merged, s.IPv6...)
	sort.Strings(merged)
	return merged
}

// urlNoiseCutset are the characters free text tends to jam directly
// against a URL without a delimiter the URL pattern would stop at.
const urlNoiseCutset = "'\",)}\\ "

// extractURLs returns every URL-shaped token in body. Defanged
// hxxp/hxxps schemes are normalised back to http/https, and each match
// is cut at the first noise character so trailing prose does not ride
// along inside the path.
func extractURLs(body string) []string {
	var found []string
	for _, m := range urlRegex.FindAllString(body, -1) {
		u := strings.ReplaceAll(m, "hxxp", "http")
		if idx := strings.IndexAny(u, urlNoiseCutset); idx >= 0 {
			u = u[:idx]
		}
		if u != "" {
			found = append(found, u)
		}
	}
	return found
}

// windowMatches runs re over the window around every anchor and
// returns the text of the maximal matches, resolved against absolute
// offsets. A window that cuts through a token makes the pattern match
// a truncated prefix or suffix of it; such a fragment is contained in
// the full token's span found through a better-placed anchor, so
// dropping every span contained in another leaves exactly what one
// pass over the whole text would have matched. group selects the
// capture group to report, 0 for the whole match.
func windowMatches(re *regexp.Regexp, text string, anchors []int, before, after, group int) []string {
	var spans [][2]int
	for _, pos := range anchors {
		start := pos - before
		if start < 0 {
			start = 0
		}
		end := pos + after
		if end > len(text) {
			end = len(text)
		}
		for _, loc := range re.FindAllStringSubmatchIndex(text[start:end], -1) {
			if loc[2*group] < 0 {
				continue
			}
			spans = append(spans, [2]int{start + loc[2*group], start + loc[2*group+1]})
		}
	}

	var out []string
	for _, sp := range maximalSpans(spans) {
		out = append(out, text[sp[0]:sp[1]])
	}
	return out
}

// maximalSpans drops duplicates and every span contained in another.
func maximalSpans(spans [][2]int) [][2]int {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i][0] != spans[j][0] {
			return spans[i][0] < spans[j][0]
		}
		return spans[i][1] > spans[j][1]
	})
	var out [][2]int
	maxEnd := -1
	for _, sp := range spans {
		if sp[1] <= maxEnd {
			continue
		}
		out = append(out, sp)
		maxEnd = sp[1]
	}
	return out
}

// findAll returns every byte offset of pat in data, plain substring
// search only.
func findAll(pat, data string) []int {
	var positions []int
	for i := strings.Index(data, pat); i != -1; {
		positions = append(positions, i)
		next := strings.Index(data[i+1:], pat)
		if next == -1 {
			break
		}
		i += 1 + next
	}
	return positions
}

// window slices [pos-before, pos+after] clamped to the text bounds.
func window(text string, pos, before, after int) string {
	start := pos - before
	if start < 0 {
		start = 0
	}
	end := pos + after
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}
