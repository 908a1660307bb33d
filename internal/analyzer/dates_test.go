// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package analyzer_test

import (
	"testing"
	"time"

	"github.com/sim0nx/eml-parser/internal/analyzer"
)

func TestEpochDate(t *testing.T) {
	got := analyzer.EpochDate()
	want := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("EpochDate() = %v, want %v", got, want)
	}
	if got.Location() != time.UTC {
		t.Errorf("sentinel location = %v, want UTC", got.Location())
	}
}

func TestRobustDateRFC5322(t *testing.T) {
	got := analyzer.RobustDate("Mon, 1 Jan 2024 00:00:00 +0000")
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRobustDateLowercased(t *testing.T) {
	// Received lines are lower-cased before the date clause is cut out.
	got := analyzer.RobustDate("tue, 2 jan 2024 10:30:00 +0000")
	want := time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRobustDateZonelessForcedUTC(t *testing.T) {
	got := analyzer.RobustDate("2024-03-05 12:00:00")
	want := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRobustDateUnparseable(t *testing.T) {
	for _, input := range []string{"", "   ", "not a date at all"} {
		got := analyzer.RobustDate(input)
		if !got.Equal(analyzer.EpochDate()) {
			t.Errorf("RobustDate(%q) = %v, want epoch sentinel", input, got)
		}
	}
}

func TestDecodeHeaderField(t *testing.T) {
	got := analyzer.DecodeHeaderField("=?utf-8?q?Invoice_=2342?=")
	if got != "Invoice #42" {
		t.Errorf("got %q, want %q", got, "Invoice #42")
	}

	plain := "already plain subject"
	if analyzer.DecodeHeaderField(plain) != plain {
		t.Error("plain value must pass through unchanged")
	}
}
