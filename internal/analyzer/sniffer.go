// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package analyzer

import "github.com/gabriel-vasile/mimetype"

// TypeSniffer guesses a MIME type from raw payload bytes. It is an
// injected capability: a nil sniffer simply omits the detected type
// from attachment records.
type TypeSniffer interface {
	Sniff(data []byte) string
}

// MagicSniffer detects content types from magic bytes.
type MagicSniffer struct{}

// Sniff returns the detected MIME type string. Detection normally
// reads only the first 3072 bytes; when that prefix is inconclusive
// (no known extension), the full payload is rescanned once.
func (MagicSniffer) Sniff(data []byte) string {
	mt := mimetype.Detect(data)
	if mt.Extension() == "" {
		mimetype.SetLimit(0)
		mt = mimetype.Detect(data)
		mimetype.SetLimit(3072)
	}
	return mt.String()
}
