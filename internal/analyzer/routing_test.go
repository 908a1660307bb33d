// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package analyzer_test

import (
	"testing"
	"time"

	"github.com/sim0nx/eml-parser/internal/analyzer"
)

func TestParseRoutingTypicalHop(t *testing.T) {
	line := "from mail.example.com (mail.example.com [192.168.1.1]) by mx.example.org; Mon, 1 Jan 2024 00:00:00 +0000"
	hop := analyzer.ParseRouting(line)

	if !containsStr(hop.From, "mail.example.com") {
		t.Errorf("from missing relay name, got %v", hop.From)
	}
	if !containsStr(hop.By, "mx.example.org") {
		t.Errorf("by missing receiving host, got %v", hop.By)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !hop.Date.Equal(want) {
		t.Errorf("date = %v, want %v", hop.Date, want)
	}
	if len(hop.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", hop.Warnings)
	}
	// The bracketed address sits inside a comment; comments locate no
	// clause keywords but their content still belongs to the field.
	if !containsStr(hop.From, "192.168.1.1") {
		t.Errorf("comment-embedded relay address missing from from: %v", hop.From)
	}
}

func TestParseRoutingCommentOnlyAddress(t *testing.T) {
	// The relay's address often appears nowhere outside the HELO
	// comment.
	line := "from unknown (HELO mailer.example.com) (203.0.113.9) by mx.example.org with SMTP; Mon, 1 Jan 2024 00:00:00 +0000"
	hop := analyzer.ParseRouting(line)

	if !containsStr(hop.From, "203.0.113.9") {
		t.Errorf("comment-only relay address missing, got %v", hop.From)
	}
	if !containsStr(hop.From, "mailer.example.com") {
		t.Errorf("HELO name missing, got %v", hop.From)
	}
	if !containsStr(hop.By, "mx.example.org") {
		t.Errorf("by = %v", hop.By)
	}
	if hop.With != "smtp" {
		t.Errorf("with = %q, want smtp", hop.With)
	}
}

func TestParseRoutingWithAndFor(t *testing.T) {
	line := "from smtp.example.com by mx.example.org with esmtps for <bob@example.org>; Tue, 2 Jan 2024 10:30:00 +0000"
	hop := analyzer.ParseRouting(line)

	if hop.With != "esmtps" {
		t.Errorf("with = %q, want esmtps", hop.With)
	}
	if len(hop.For) != 1 || hop.For[0] != "bob@example.org" {
		t.Errorf("for = %v, want [bob@example.org]", hop.For)
	}
}

func TestParseRoutingForClauseEmbeddedFrom(t *testing.T) {
	line := "by mx.example.org for <bob@example.org> from relay.example.net; Tue, 2 Jan 2024 10:30:00 +0000"
	hop := analyzer.ParseRouting(line)

	if len(hop.For) != 1 || hop.For[0] != "bob@example.org" {
		t.Errorf("for = %v, want [bob@example.org]", hop.For)
	}
	if !containsStr(hop.From, "relay.example.net") {
		t.Errorf("embedded from clause not reattached, got %v", hop.From)
	}
}

func TestParseRoutingMergedHeaders(t *testing.T) {
	line := "from a.example.com by b.example.org received: from c.example.com by d.example.org"
	hop := analyzer.ParseRouting(line)

	if len(hop.Warnings) != 1 || hop.Warnings[0] != "merged headers" {
		t.Errorf("warnings = %v, want [merged headers]", hop.Warnings)
	}
	if hop.From != nil || hop.By != nil {
		t.Error("merged-header line must not yield routing fields")
	}
	if !hop.Date.Equal(analyzer.EpochDate()) {
		t.Errorf("date = %v, want epoch sentinel", hop.Date)
	}
}

func TestParseRoutingNothingParsable(t *testing.T) {
	hop := analyzer.ParseRouting("completely unrelated text without any keywords")

	if len(hop.Warnings) != 1 || hop.Warnings[0] != "nothing parsable" {
		t.Errorf("warnings = %v, want [nothing parsable]", hop.Warnings)
	}
	if !hop.Date.Equal(analyzer.EpochDate()) {
		t.Errorf("date = %v, want epoch sentinel", hop.Date)
	}
}

func TestParseRoutingEmptyInput(t *testing.T) {
	hop := analyzer.ParseRouting("")

	if hop == nil {
		t.Fatal("nil record for empty input")
	}
	if !hop.Date.Equal(analyzer.EpochDate()) {
		t.Errorf("date = %v, want epoch sentinel", hop.Date)
	}
	if len(hop.Warnings) == 0 {
		t.Error("empty input should carry an anomaly tag")
	}
}

func TestParseRoutingKeepsPrivateAddresses(t *testing.T) {
	line := "from 10.0.0.1 by mx.example.org; Mon, 1 Jan 2024 00:00:00 +0000"
	hop := analyzer.ParseRouting(line)

	// Hop records preserve the claimed topology; filtering happens in
	// the report aggregates.
	if !containsStr(hop.From, "10.0.0.1") {
		t.Errorf("private relay address dropped from hop, got %v", hop.From)
	}
}

func TestParseRoutingPreservesOriginalLine(t *testing.T) {
	line := "From MAIL.Example.Com by mx.example.org; Mon, 1 Jan 2024 00:00:00 +0000"
	hop := analyzer.ParseRouting(line)

	if hop.Src != line {
		t.Errorf("src = %q, want original input", hop.Src)
	}
	if !containsStr(hop.From, "mail.example.com") {
		t.Errorf("parsing should be case-insensitive, got %v", hop.From)
	}
}
