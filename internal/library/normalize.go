// Curator - Automated Plex Music Playlist Generation
// Copyright 2026 The Curator Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/plexcurator/curator

// Package library defines the track model and artist-name canonicalization
// shared by every component that compares artist identity.
package library

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeArtist canonicalizes an artist display name into the key used
// for every quota and dedup decision. The same artist tagged differently
// across albums ("AC/DC", "AC / DC", "AC /DC") resolves to one key.
//
// Steps: Unicode NFC, zero-width character removal, dash/quote/space
// variant folding to ASCII, whitespace trim and collapse, and tightened
// spacing around the separator characters '/', '&' and '+'.
//
// Case is preserved: two names differing only in case map to distinct
// keys. NormalizeArtist is idempotent and never fails; empty input
// yields an empty key.
func NormalizeArtist(raw string) string {
	if raw == "" {
		return ""
	}

	s := norm.NFC.String(raw)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case isZeroWidth(r):
			// dropped entirely
		case isDashVariant(r):
			b.WriteByte('-')
		case isSingleQuoteVariant(r):
			b.WriteByte('\'')
		case isDoubleQuoteVariant(r):
			b.WriteByte('"')
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}

	s = collapseSpaces(strings.TrimSpace(b.String()))
	return tightenSeparators(s)
}

func isZeroWidth(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff':
		return true
	}
	return false
}

func isDashVariant(r rune) bool {
	switch r {
	case '‐', '‑', '‒', '–', '—', '―',
		'−', '﹘', '﹣', '－':
		return true
	}
	return false
}

func isSingleQuoteVariant(r rune) bool {
	switch r {
	case '‘', '’', '‚', '‛', '′', '＇':
		return true
	}
	return false
}

func isDoubleQuoteVariant(r rune) bool {
	switch r {
	case '“', '”', '„', '‟', '″', '＂':
		return true
	}
	return false
}

// collapseSpaces reduces every run of spaces to a single space.
// Input has already had all whitespace variants folded to ' '.
func collapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// tightenSeparators removes spaces adjacent to '/', '&' and '+' so that
// "A / B", "A/ B" and "A /B" all become "A/B".
func tightenSeparators(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '/' || c == '&' || c == '+' {
			for len(out) > 0 && out[len(out)-1] == ' ' {
				out = out[:len(out)-1]
			}
			out = append(out, c)
			for i+1 < len(s) && s[i+1] == ' ' {
				i++
			}
			continue
		}
		out = append(out, c)
	}
	return string(out)
}
