// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package models

import "time"

// FileHashes carries the four digest algorithms computed over every
// attachment payload so the same file can be correlated across feeds
// that standardise on different algorithms.
type FileHashes struct {
	MD5    string `json:"md5"`
	SHA1   string `json:"sha1"`
	SHA256 string `json:"sha256"`
	SHA512 string `json:"sha512"`
}

// HopRecord is one parsed relay step out of a Received header.
// Date is never zero: an unparseable or absent date clause yields the
// epoch sentinel (1970-01-01T00:00:00Z).
type HopRecord struct {
	Src      string    `json:"src"`
	From     []string  `json:"from,omitempty"`
	By       []string  `json:"by,omitempty"`
	With     string    `json:"with,omitempty"`
	For      []string  `json:"for,omitempty"`
	Date     time.Time `json:"date"`
	Warnings []string  `json:"warning,omitempty"`
}

// BodyPart is one leaf MIME part classified as body text. The
// indicator sets are populated either raw or as SHA-256 digests,
// depending on whether the caller asked for raw body retention.
type BodyPart struct {
	ID            string              `json:"id"`
	Encoding      string              `json:"encoding,omitempty"`
	ContentType   string              `json:"content_type,omitempty"`
	Content       string              `json:"content,omitempty"`
	ContentHeader map[string][]string `json:"content_header"`
	Hash          string              `json:"hash"`

	URLs    []string `json:"uri,omitempty"`
	Emails  []string `json:"email,omitempty"`
	Domains []string `json:"domain,omitempty"`
	IPs     []string `json:"ip,omitempty"`

	URLHashes    []string `json:"uri_hash,omitempty"`
	EmailHashes  []string `json:"email_hash,omitempty"`
	DomainHashes []string `json:"domain_hash,omitempty"`
	IPHashes     []string `json:"ip_hash,omitempty"`
}

// AttachmentPart is one leaf MIME part classified as an attachment.
// Size and Hashes are always computed over the exact decoded payload;
// Raw is base64 and only present on request.
type AttachmentPart struct {
	ID            string              `json:"id"`
	Filename      string              `json:"filename"`
	Size          int                 `json:"size"`
	Extension     string              `json:"extension,omitempty"`
	Hashes        FileHashes          `json:"hash"`
	MimeType      string              `json:"mime_type,omitempty"`
	Raw           string              `json:"raw,omitempty"`
	ContentHeader map[string][]string `json:"content_header"`
}

// HeaderInfo aggregates everything extracted from the message headers:
// addressing fields, the ordered hop chain, the deduplicated indicator
// sets observed across all Received lines, and the raw bulk header
// multimap.
type HeaderInfo struct {
	Subject     string    `json:"subject"`
	From        string    `json:"from"`
	To          []string  `json:"to"`
	CC          []string  `json:"cc,omitempty"`
	DeliveredTo []string  `json:"delivered_to,omitempty"`
	Date        time.Time `json:"date"`
	Defects     []string  `json:"defect,omitempty"`

	Received         []*HopRecord `json:"received,omitempty"`
	ReceivedEmail    []string     `json:"received_email,omitempty"`
	ReceivedDomain   []string     `json:"received_domain,omitempty"`
	ReceivedIP       []string     `json:"received_ip,omitempty"`
	ReceivedForEmail []string     `json:"received_foremail,omitempty"`
	ReceivedSrc      []string     `json:"received_src,omitempty"`

	Header map[string][]string `json:"header"`
}

// Report is the aggregate result of parsing one message. It owns all
// child records; nothing retains references into it after return.
type Report struct {
	Header     HeaderInfo        `json:"header"`
	Body       []*BodyPart       `json:"body"`
	Attachment []*AttachmentPart `json:"attachment,omitempty"`
}
