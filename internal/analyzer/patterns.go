// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package analyzer

import "regexp"

// Compiled matching rules for the indicator classes extracted from
// headers and bodies. Pattern shapes are load-bearing: downstream
// consumers correlate on the exact token boundaries these produce, so
// changes here break cross-report matching.

// emailRegex follows the W3C HTML5 recommended e-mail validation
// class (practical RFC 5322 subset).
var emailRegex = regexp.MustCompile("[a-zA-Z0-9.!#$%&'*+-/=?^_`{|}~-]+@[a-zA-Z0-9-]+(?:\\.[a-zA-Z0-9-]+)*")

// recvDomRegex matches hostnames directly following a from/by keyword
// inside a Received header line.
var recvDomRegex = regexp.MustCompile(`(?:from|by)\s+([a-zA-Z0-9-]+(?:\.[a-zA-Z0-9-]{2,})+)`)

// domRegex requires a delimiter on both sides of the label sequence so
// mid-token substrings ("sub.domain" inside "id.sub.domain.example")
// are not reported as separate domains.
var domRegex = regexp.MustCompile(`(?m)(?:\s|[(/<>|@'=])([a-zA-Z0-9-]+(?:\.[a-zA-Z0-9-]{2,})+)(?:$|\?|\s|#|&|[/<>')])`)

// ipv4Regex is a strict dotted quad, each octet 0-255.
var ipv4Regex = regexp.MustCompile(`(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)`)

// ipv4ExactRegex anchors the same quad for validating an already
// isolated token.
var ipv4ExactRegex = regexp.MustCompile(`^(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$`)

// ipv6Regex covers compressed and uncompressed RFC 6874 forms,
// including embedded IPv4 tails. Built by concatenation because the
// pattern enumerates every legal "::" position.
const (
	h16    = `[0-9A-Fa-f]{1,4}`
	v4part = `(?:(?:[0-9]|[1-9][0-9]|1[0-9]{2}|2[0-4][0-9]|25[0-5])\.){3}(?:[0-9]|[1-9][0-9]|1[0-9]{2}|2[0-4][0-9]|25[0-5])`
	ls32   = `(?:` + h16 + `:` + h16 + `|` + v4part + `)`
)

var ipv6Regex = regexp.MustCompile(`(?:` +
	`(?:` + h16 + `:){6}` + ls32 +
	`|::(?:` + h16 + `:){5}` + ls32 +
	`|(?:` + h16 + `)?::(?:` + h16 + `:){4}` + ls32 +
	`|(?:` + h16 + `:` + h16 + `)?::(?:` + h16 + `:){3}` + ls32 +
	`|(?:(?:` + h16 + `:){0,2}` + h16 + `)?::(?:` + h16 + `:){2}` + ls32 +
	`|(?:(?:` + h16 + `:){0,3}` + h16 + `)?::` + h16 + `:` + ls32 +
	`|(?:(?:` + h16 + `:){0,4}` + h16 + `)?::` + ls32 +
	`|(?:(?:` + h16 + `:){0,5}` + h16 + `)?::` + h16 +
	`|(?:(?:` + h16 + `:){0,6}` + h16 + `)?::` +
	`)`)

// privIPRegex matches RFC 1918 ranges plus loopback (v4 and v6). It is
// prefix-anchored: callers test whether a candidate token starts as a
// private address.
var privIPRegex = regexp.MustCompile(`^(?:10(?:\.\d{1,3}){3}|192\.168(?:\.\d{1,3}){2}|172\.(?:1[6-9]|2\d|3[0-1])(?:\.\d{1,3}){2}|127(?:\.\d{1,3}){3}|::1)`)

// urlRegex accepts any 3+ letter scheme with an optional "s" suffix so
// defanged hxxp/hxxps tokens match alongside http/https and ftp(s).
// The path class is the conservative RFC 3986 set plus space, which
// makes the post-match noise trim in extractURLs necessary.
var urlRegex = regexp.MustCompile(`(?i)(?:[a-z]{3,}s?://)[a-z0-9\-_:]+(?:\.[a-z0-9\-_]+)*(?:/[a-z0-9_\-.~!*'();:@&=+$,/ ?%#\[\]]*)?`)

// regDate anchors the trailing date clause of a Received line: a
// semicolon followed by date-like characters running to end of string.
var regDate = regexp.MustCompile(`;[\s\w:,+\-()]+$`)

// noParRegex matches one innermost parenthetical comment; nested
// comments are handled by reapplying it to a fixed point.
var noParRegex = regexp.MustCompile(`\([^()]*\)`)

// wsRegex collapses any whitespace run, including folded-header
// CRLF/tab sequences.
var wsRegex = regexp.MustCompile(`\s+`)
