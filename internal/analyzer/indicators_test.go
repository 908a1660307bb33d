// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package analyzer_test

import (
	"reflect"
	"testing"

	"github.com/sim0nx/eml-parser/internal/analyzer"
)

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestExtractIndicatorsDefangedURL(t *testing.T) {
	text := "please visit hxxp://evil.example.com/login now"
	set := analyzer.ExtractIndicators(text, nil, analyzer.DefaultScanWindows)

	if !containsStr(set.URLs, "http://evil.example.com/login") {
		t.Errorf("defanged URL not normalised, got %v", set.URLs)
	}
	for _, u := range set.URLs {
		if u == "hxxp://evil.example.com/login" {
			t.Error("raw defanged URL leaked into results")
		}
	}
}

func TestExtractIndicatorsURLNoiseCut(t *testing.T) {
	text := `link (http://a.example.com/x) and "http://b.example.com/y",`
	set := analyzer.ExtractIndicators(text, nil, analyzer.DefaultScanWindows)

	if !containsStr(set.URLs, "http://a.example.com/x") {
		t.Errorf("paren-wrapped URL not cut cleanly, got %v", set.URLs)
	}
	if !containsStr(set.URLs, "http://b.example.com/y") {
		t.Errorf("quote-wrapped URL not cut cleanly, got %v", set.URLs)
	}
}

func TestExtractIndicatorsPrivateIPFiltered(t *testing.T) {
	text := "relayed via 10.0.0.1 and 192.168.1.5 and 172.16.0.9 and 203.0.113.7"
	set := analyzer.ExtractIndicators(text, nil, analyzer.DefaultScanWindows)

	if !reflect.DeepEqual(set.IPv4, []string{"203.0.113.7"}) {
		t.Errorf("expected only the public address, got %v", set.IPv4)
	}
}

func TestExtractIndicatorsWhitelistOnlyRemoves(t *testing.T) {
	text := "seen 10.0.0.1 and 203.0.113.7 and 198.51.100.2"
	set := analyzer.ExtractIndicators(text, []string{"203.0.113.7", "10.0.0.1"}, analyzer.DefaultScanWindows)

	if containsStr(set.IPv4, "203.0.113.7") {
		t.Error("whitelisted address not removed")
	}
	if containsStr(set.IPv4, "10.0.0.1") {
		t.Error("whitelisting a private address must not re-admit it")
	}
	if !containsStr(set.IPv4, "198.51.100.2") {
		t.Errorf("unrelated address dropped, got %v", set.IPv4)
	}
}

func TestExtractIndicatorsIPv4OctetRange(t *testing.T) {
	text := "bad 256.1.1.1 edge 255.255.255.255 ok 203.0.113.7"
	set := analyzer.ExtractIndicators(text, nil, analyzer.DefaultScanWindows)

	if containsStr(set.IPv4, "256.1.1.1") {
		t.Errorf("octet above 255 accepted: %v", set.IPv4)
	}
	if !containsStr(set.IPv4, "255.255.255.255") {
		t.Errorf("maximum octets rejected: %v", set.IPv4)
	}
	if !containsStr(set.IPv4, "203.0.113.7") {
		t.Errorf("ordinary address missing: %v", set.IPv4)
	}
}

func TestExtractIndicatorsIPv6Lowercased(t *testing.T) {
	text := "peer 2001:DB8::Abcd responded"
	set := analyzer.ExtractIndicators(text, nil, analyzer.DefaultScanWindows)

	if !containsStr(set.IPv6, "2001:db8::abcd") {
		t.Errorf("IPv6 address not lower-cased, got %v", set.IPv6)
	}
}

func TestExtractIndicatorsEmailsAndDomainsLowercased(t *testing.T) {
	text := "contact Alice@Example.COM or see Portal.Example.Net today"
	set := analyzer.ExtractIndicators(text, nil, analyzer.DefaultScanWindows)

	if !containsStr(set.Emails, "alice@example.com") {
		t.Errorf("email not lower-cased, got %v", set.Emails)
	}
	if !containsStr(set.Domain, "portal.example.net") {
		t.Errorf("domain not lower-cased, got %v", set.Domain)
	}
}

// Below the size threshold the windowed path must report the same sets
// as the exhaustive path.
func TestExtractIndicatorsWindowedMatchesExhaustive(t *testing.T) {
	text := "visit http://evil.example.com/login mail alice@example.com " +
		"from 203.0.113.7 host portal.example.net peer 2001:db8::1 done"

	exhaustive := analyzer.ExtractIndicators(text, nil, analyzer.DefaultScanWindows)

	forced := analyzer.DefaultScanWindows
	forced.Threshold = 1
	windowed := analyzer.ExtractIndicators(text, nil, forced)

	if !reflect.DeepEqual(exhaustive.URLs, windowed.URLs) {
		t.Errorf("URL sets differ: %v vs %v", exhaustive.URLs, windowed.URLs)
	}
	if !reflect.DeepEqual(exhaustive.Emails, windowed.Emails) {
		t.Errorf("email sets differ: %v vs %v", exhaustive.Emails, windowed.Emails)
	}
	if !reflect.DeepEqual(exhaustive.Domain, windowed.Domain) {
		t.Errorf("domain sets differ: %v vs %v", exhaustive.Domain, windowed.Domain)
	}
	if !reflect.DeepEqual(exhaustive.IPv4, windowed.IPv4) {
		t.Errorf("IPv4 sets differ: %v vs %v", exhaustive.IPv4, windowed.IPv4)
	}
	if !reflect.DeepEqual(exhaustive.IPv6, windowed.IPv6) {
		t.Errorf("IPv6 sets differ: %v vs %v", exhaustive.IPv6, windowed.IPv6)
	}
}

func TestIndicatorSetIPsMerged(t *testing.T) {
	set := analyzer.IndicatorSet{
		IPv4: []string{"203.0.113.7"},
		IPv6: []string{"2001:db8::1"},
	}
	ips := set.IPs()
	if len(ips) != 2 || !containsStr(ips, "203.0.113.7") || !containsStr(ips, "2001:db8::1") {
		t.Errorf("merged IP set wrong: %v", ips)
	}

	var empty analyzer.IndicatorSet
	if empty.IPs() != nil {
		t.Error("empty set should merge to nil")
	}
}
