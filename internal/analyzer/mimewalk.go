// Copyright (c) 2024-2026 IT Help San Diego Inc.
// Licensed under AGPL-3.0 — See LICENSE for terms.
package analyzer

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sim0nx/eml-parser/internal/models"
)

// walkParts recursively classifies every leaf of the part tree as
// body text or attachment. The counter synthesises attachment
// filenames and is threaded through the recursion, incrementing once
// per attachment, depth-first left-to-right.
//
// A leaf is body text when it has no content-disposition and declares
// a text type, or when its filename ends in .htm/.html — HTML
// attachments stay on the body path so indicator scanning still sees
// them. Everything else is an attachment. Containers are never
// classified; their children are merged.
func walkParts(node *MessagePart, counter *int, includeData bool, sniffer TypeSniffer) ([]*models.BodyPart, []*models.AttachmentPart) {
	if node.IsMultipart() {
		var bodies []*models.BodyPart
		var attachments []*models.AttachmentPart
		for _, child := range node.Children {
			b, a := walkParts(child, counter, includeData, sniffer)
			bodies = append(bodies, b...)
			attachments = append(attachments, a...)
		}
		return bodies, attachments
	}

	lowerName := strings.ToLower(node.FileName)
	isBody := (!node.HasDisposition() && strings.HasPrefix(node.ContentType, "text/")) ||
		strings.HasSuffix(lowerName, ".html") ||
		strings.HasSuffix(lowerName, ".htm")

	if isBody {
		return []*models.BodyPart{buildBodyPart(node)}, nil
	}
	return nil, []*models.AttachmentPart{buildAttachment(node, counter, includeData, sniffer)}
}

func buildBodyPart(node *MessagePart) *models.BodyPart {
	text := decodeText(node.Content, node.Charset)

	bp := &models.BodyPart{
		ID:            uuid.New().String(),
		Encoding:      node.TransferEncoding,
		Content:       text,
		ContentHeader: headerMultimap(node.Headers),
		Hash:          sha256Hex(text),
	}

	// Dirty senders repeat content-type headers; render the last one,
	// as mail clients do.
	if values := bp.ContentHeader["content-type"]; len(values) > 0 {
		last := values[len(values)-1]
		bp.ContentType = strings.TrimSpace(strings.SplitN(last, ";", 2)[0])
	}
	return bp
}

func buildAttachment(node *MessagePart, counter *int, includeData bool, sniffer TypeSniffer) *models.AttachmentPart {
	data := node.Content

	filename := node.FileName
	if filename == "" {
		filename = fmt.Sprintf("part-%03d", *counter)
	} else {
		filename = DecodeHeaderField(filename)
	}
	*counter++

	ap := &models.AttachmentPart{
		ID:            uuid.New().String(),
		Filename:      filename,
		Size:          len(data),
		Extension:     fileExtension(filename),
		Hashes:        hashPayload(data),
		ContentHeader: headerMultimap(node.Headers),
	}

	if sniffer != nil {
		if mt := sniffer.Sniff(data); mt != "" {
			ap.MimeType = mt
		}
	}
	if includeData {
		ap.Raw = base64.StdEncoding.EncodeToString(data)
	}
	return ap
}

// hashPayload computes the four-algorithm digest set over the exact
// decoded payload.
func hashPayload(data []byte) models.FileHashes {
	md5Sum := md5.Sum(data)
	sha1Sum := sha1.Sum(data)
	sha256Sum := sha256.Sum256(data)
	sha512Sum := sha512.Sum512(data)

	return models.FileHashes{
		MD5:    hex.EncodeToString(md5Sum[:]),
		SHA1:   hex.EncodeToString(sha1Sum[:]),
		SHA256: hex.EncodeToString(sha256Sum[:]),
		SHA512: hex.EncodeToString(sha512Sum[:]),
	}
}

// headerMultimap folds ordered header pairs into a case-insensitive
// multimap, duplicate values preserved in order.
func headerMultimap(headers []HeaderPair) map[string][]string {
	m := make(map[string][]string, len(headers))
	for _, h := range headers {
		key := strings.ToLower(h.Name)
		m[key] = append(m[key], h.Value)
	}
	return m
}
