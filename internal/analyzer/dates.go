// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package analyzer

import (
	"mime"
	"net/mail"
	"regexp"
	"strings"
	"time"
)

// epochSentinel stands in for every date the parser cannot interpret.
var epochSentinel = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// EpochDate returns the sentinel timestamp used when a date string is
// absent or unparseable. Always UTC.
func EpochDate() time.Time {
	return epochSentinel
}

// dateLayouts are tried after the RFC 5322 parser gives up. Layouts
// without a zone parse as UTC, which matches the force-UTC rule for
// zoneless dates.
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05",
	"2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
}

var dayMonthToken = regexp.MustCompile(`(?i)\b(mon|tue|wed|thu|fri|sat|sun|jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\b`)

// RobustDate parses a date string from a mail header and always
// returns a valid timestamp: the epoch sentinel when nothing matches,
// UTC forced when the parsed value carries no zone. Dots become colons
// first because some clients emit "10.30.15" time fields.
func RobustDate(line string) time.Time {
	s := strings.TrimSpace(strings.ReplaceAll(line, ".", ":"))
	if s == "" {
		return epochSentinel
	}

	// Received lines arrive lower-cased; Go layout matching is
	// case-sensitive on day and month names.
	s = dayMonthToken.ReplaceAllStringFunc(s, func(tok string) string {
		return strings.ToUpper(tok[:1]) + strings.ToLower(tok[1:])
	})

	if t, err := mail.ParseDate(s); err == nil {
		return t
	}

	// Trailing comment like "(UTC)" defeats the layout list.
	clean := s
	if idx := strings.LastIndex(clean, "("); idx > 0 {
		clean = strings.TrimSpace(clean[:idx])
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, clean); err == nil {
			return t
		}
	}

	return epochSentinel
}

// DecodeHeaderField decodes RFC 2047 encoded words in a header value,
// returning the input unchanged when decoding fails.
func DecodeHeaderField(s string) string {
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(s)
	if err != nil {
		return s
	}
	return decoded
}
