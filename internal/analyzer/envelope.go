// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package analyzer

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jhillyerd/enmime"
	"golang.org/x/text/encoding/htmlindex"
)

// HeaderPair is one raw header field; duplicates keep their own pair.
type HeaderPair struct {
	Name  string
	Value string
}

// MessagePart is one node of the parsed MIME tree. Leaves carry the
// transfer-decoded payload; containers carry children. The struct is
// intentionally free of enmime types so callers can also build trees
// by hand.
type MessagePart struct {
	ContentType      string
	Disposition      string
	FileName         string
	Charset          string
	TransferEncoding string
	Content          []byte
	Headers          []HeaderPair
	Children         []*MessagePart
}

// IsMultipart reports whether the part is a container rather than a
// classifiable leaf.
func (p *MessagePart) IsMultipart() bool {
	return len(p.Children) > 0 || strings.HasPrefix(p.ContentType, "multipart/")
}

// HasDisposition reports whether the part declared any
// content-disposition, attachment or inline alike.
func (p *MessagePart) HasDisposition() bool {
	return p.Disposition != ""
}

// HeaderValues returns every value of the named header on this part,
// in declaration order, case-insensitive on the name.
func (p *MessagePart) HeaderValues(name string) []string {
	var values []string
	for _, h := range p.Headers {
		if strings.EqualFold(h.Name, name) {
			values = append(values, h.Value)
		}
	}
	return values
}

// HeaderValue returns the first value of the named header, or "".
func (p *MessagePart) HeaderValue(name string) string {
	if v := p.HeaderValues(name); len(v) > 0 {
		return v[0]
	}
	return ""
}

// MessageTree is the parsed message: the root part (whose headers are
// the message headers) plus any defects the MIME parser noted while
// working around malformed structure.
type MessageTree struct {
	Root    *MessagePart
	Defects []string
}

// ReadMessage parses raw message bytes into a MessageTree. This is
// the only entry point that can fail: a message the MIME parser
// cannot open at all is not recoverable. Per-part problems never
// propagate — they land in Defects and parsing continues.
func ReadMessage(raw []byte) (*MessageTree, error) {
	root, err := enmime.ReadParts(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("read message parts: %w", err)
	}

	tree := &MessageTree{}
	tree.Root = tree.convertPart(root)
	return tree, nil
}

func (t *MessageTree) convertPart(p *enmime.Part) *MessagePart {
	mp := &MessagePart{
		ContentType:      p.ContentType,
		Disposition:      p.Disposition,
		FileName:         p.FileName,
		Charset:          p.Charset,
		TransferEncoding: strings.ToLower(p.Header.Get("Content-Transfer-Encoding")),
		Content:          p.Content,
	}

	names := make([]string, 0, len(p.Header))
	for name := range p.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, v := range p.Header[name] {
			mp.Headers = append(mp.Headers, HeaderPair{Name: name, Value: v})
		}
	}

	for _, e := range p.Errors {
		t.Defects = append(t.Defects, fmt.Sprintf("%s: %s", e.Name, e.Detail))
	}

	for child := p.FirstChild; child != nil; child = child.NextSibling {
		mp.Children = append(mp.Children, t.convertPart(child))
	}
	return mp
}

// decodeText converts a leaf payload to a string for body handling.
// The MIME layer already transcodes well-formed text parts to UTF-8;
// what arrives here broken gets one retry through the declared
// charset, then a lossy pass that substitutes every invalid byte.
// Never fails.
func decodeText(content []byte, charset string) string {
	if utf8.Valid(content) {
		return string(content)
	}

	if charset != "" {
		if enc, err := htmlindex.Get(charset); err == nil {
			if out, err := enc.NewDecoder().Bytes(content); err == nil && utf8.Valid(out) {
				return string(out)
			}
		}
	}

	var b strings.Builder
	b.Grow(len(content))
	for _, c := range content {
		if c < utf8.RuneSelf {
			b.WriteByte(c)
		} else {
			b.WriteRune(utf8.RuneError)
		}
	}
	return b.String()
}
