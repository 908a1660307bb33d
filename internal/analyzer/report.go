// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package analyzer

import (
	"net/mail"
	"strings"

	"github.com/sim0nx/eml-parser/internal/models"
)

// ParseOptions is the configuration bundle for one parse. The zero
// value is a safe default: no raw retention, no whitelists, no
// gateway tracking, no sniffing, default scan windows.
type ParseOptions struct {
	// IncludeRawBody keeps decoded body text and raw indicator sets
	// on each body part; when false the indicators are stored as
	// SHA-256 digests so reports stay searchable without retaining
	// literal content.
	IncludeRawBody bool

	// IncludeAttachmentData keeps the base64 payload on attachments.
	IncludeAttachmentData bool

	// WhitelistIPs are removed from every aggregate and body IP set.
	// The list only removes, it never re-admits a private address.
	WhitelistIPs []string

	// WhitelistFor addresses are removed from received_foremail.
	WhitelistFor []string

	// GatewayHosts are hostname substrings identifying the boundary
	// relays; when set, the most external hop whose by field matches
	// is recorded as the likely injection point.
	GatewayHosts []string

	// Sniffer detects attachment MIME types; nil omits the field.
	Sniffer TypeSniffer

	// Windows overrides the scan window constants; the zero value
	// means DefaultScanWindows.
	Windows ScanWindows
}

// ParseBytes parses raw message bytes into a Report. This is the
// convenience entry point; it fails only when the MIME layer cannot
// open the input at all.
func ParseBytes(raw []byte, opts ParseOptions) (*models.Report, error) {
	tree, err := ReadMessage(raw)
	if err != nil {
		return nil, err
	}
	return ParseMessage(tree, opts), nil
}

// ParseMessage assembles the forensic report for an already parsed
// message tree. Pure transformation: no I/O, no retained references,
// independent calls are safe to run in parallel.
func ParseMessage(tree *MessageTree, opts ParseOptions) *models.Report {
	win := opts.Windows
	if win.Threshold == 0 {
		win = DefaultScanWindows
	}

	header := models.HeaderInfo{
		Subject: DecodeHeaderField(tree.Root.HeaderValue("Subject")),
		Defects: tree.Defects,
		From:    senderAddress(tree.Root.HeaderValue("From")),
		To:      addressList(tree.Root.HeaderValues("To")),
	}
	header.CC = addressList(tree.Root.HeaderValues("Cc"))
	header.DeliveredTo = addressList(tree.Root.HeaderValues("Delivered-To"))

	if date := tree.Root.HeaderValue("Date"); date != "" {
		header.Date = RobustDate(date)
	} else {
		header.Date = EpochDate()
	}

	collectReceived(tree.Root, opts, &header)

	header.Header = headerMultimap(tree.Root.Headers)

	counter := 0
	bodies, attachments := walkParts(tree.Root, &counter, opts.IncludeAttachmentData, opts.Sniffer)

	// A single-part message has no part-local headers of its own;
	// everything except the content-* fields belongs to the bulk
	// header map, not the body record.
	if len(bodies) == 1 {
		filtered := make(map[string][]string)
		for k, v := range bodies[0].ContentHeader {
			if strings.HasPrefix(k, "content") {
				filtered[k] = v
			}
		}
		bodies[0].ContentHeader = filtered
	}

	for _, bp := range bodies {
		attachIndicators(bp, opts, win)
	}

	return &models.Report{
		Header:     header,
		Body:       bodies,
		Attachment: attachments,
	}
}

// collectReceived walks every Received header value: parses the hop,
// tracks the gateway entry point, and accumulates the aggregate
// indicator sets (private-range filtered, whitelist excluded).
func collectReceived(root *MessagePart, opts ParseOptions, header *models.HeaderInfo) {
	var recvIPs, recvDomains, recvEmails, recvForEmails []string
	gatewayHits := make(map[string]int)

	for _, raw := range root.HeaderValues("Received") {
		line := strings.ToLower(wsRegex.ReplaceAllString(raw, " "))
		hop := ParseRouting(line)

		// Hops run most recent first; the last matching hop is the
		// most external relay under our control, i.e. the likely
		// injection point. A gateway matched twice usually means a
		// spoofed or looped header.
		for _, byItem := range hop.By {
			for _, gw := range opts.GatewayHosts {
				gwLower := strings.ToLower(gw)
				if !strings.Contains(byItem, gwLower) {
					continue
				}
				header.ReceivedSrc = hop.From
				gatewayHits[gwLower]++
				if gatewayHits[gwLower] > 1 {
					hop.Warnings = append(hop.Warnings, WarnDuplicateEntry)
				}
			}
		}

		header.Received = append(header.Received, hop)

		for _, ip := range ipv6Regex.FindAllString(line, -1) {
			lower := strings.ToLower(ip)
			if !privIPRegex.MatchString(ip) && !containsString(opts.WhitelistIPs, lower) {
				recvIPs = append(recvIPs, lower)
			}
		}
		for _, ip := range ipv4Regex.FindAllString(line, -1) {
			if !privIPRegex.MatchString(ip) && !containsString(opts.WhitelistIPs, ip) {
				recvIPs = append(recvIPs, ip)
			}
		}

		for _, m := range recvDomRegex.FindAllStringSubmatch(line, -1) {
			// A relay that names itself by address would otherwise
			// land in the domain set.
			if isIPv4(m[1]) {
				continue
			}
			recvDomains = append(recvDomains, m[1])
		}

		// Addresses claimed by this hop's for clause are recipient
		// claims, not observed senders; they have their own set.
		for _, em := range emailRegex.FindAllString(line, -1) {
			if !containsString(hop.For, em) {
				recvEmails = append(recvEmails, em)
			}
		}

		for _, forAddr := range hop.For {
			if !containsString(opts.WhitelistFor, forAddr) {
				recvForEmails = append(recvForEmails, forAddr)
			}
		}
	}

	header.ReceivedIP = uniqueSorted(recvIPs)
	header.ReceivedDomain = uniqueSorted(recvDomains)
	header.ReceivedEmail = uniqueSorted(recvEmails)
	header.ReceivedForEmail = uniqueSorted(recvForEmails)
}

// attachIndicators scans one body part's text and stores the observed
// sets either raw (with the decoded content) or as SHA-256 digests.
func attachIndicators(bp *models.BodyPart, opts ParseOptions, win ScanWindows) {
	ind := ExtractIndicators(bp.Content, opts.WhitelistIPs, win)

	if opts.IncludeRawBody {
		bp.URLs = ind.URLs
		bp.Emails = ind.Emails
		bp.Domains = ind.Domain
		bp.IPs = ind.IPs()
	} else {
		for _, u := range ind.URLs {
			bp.URLHashes = append(bp.URLHashes, sha256Hex(strings.ToLower(u)))
		}
		for _, e := range ind.Emails {
			bp.EmailHashes = append(bp.EmailHashes, sha256Hex(e))
		}
		for _, d := range ind.Domain {
			bp.DomainHashes = append(bp.DomainHashes, sha256Hex(d))
		}
		for _, ip := range ind.IPs() {
			bp.IPHashes = append(bp.IPHashes, sha256Hex(ip))
		}
		bp.Content = ""
	}
}

// senderAddress extracts the bare address from a From header,
// tolerating display names, angle brackets and outright garbage.
func senderAddress(value string) string {
	lower := strings.ToLower(value)
	if m := emailRegex.FindString(lower); m != "" {
		return m
	}
	if addr, err := mail.ParseAddress(lower); err == nil {
		return addr.Address
	}
	return ""
}

// addressList flattens address-list header values into lower-cased
// bare addresses, falling back to a raw scan when the list does not
// parse as RFC 5322.
func addressList(values []string) []string {
	var out []string
	for _, v := range values {
		addrs, err := mail.ParseAddressList(v)
		if err != nil {
			out = append(out, emailRegex.FindAllString(strings.ToLower(v), -1)...)
			continue
		}
		for _, a := range addrs {
			if a.Address != "" {
				out = append(out, strings.ToLower(a.Address))
			}
		}
	}
	return out
}
