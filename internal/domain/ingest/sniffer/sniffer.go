// Package sniffer detects the shape of CSV bill and budget exports: field
// delimiter, header row position, and a header fingerprint operators can use
// to recognize a previously-seen export format.
package sniffer

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"unicode"
)

// Header keywords that identify the real header row among leading metadata
// lines ("Exported on ...", account banners, and so on).
var headerKeywords = []string{
	"title", "name", "bill", "description", "item",
	"amount", "value", "cost", "payment", "price",
	"due", "date",
	"category", "type", "payee", "vendor", "merchant",
	"notes", "memo",
}

var (
	ErrEmptyFile        = errors.New("file is empty")
	ErrNoHeadersFound   = errors.New("could not find data headers")
	ErrInvalidDelimiter = errors.New("could not detect valid delimiter")
)

// FileConfig holds the detected configuration for a CSV file.
type FileConfig struct {
	Delimiter   rune     // field delimiter (';', ',', '\t', '|')
	SkipLines   int      // metadata lines before the header row
	Headers     []string // detected header names
	Fingerprint string   // SHA-256 of normalized headers
}

// DetectConfig analyzes a CSV buffer and returns its configuration.
func DetectConfig(data []byte) (*FileConfig, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	lines := strings.Split(string(data), "\n")
	delimiter, skipLines, err := findHeaderRow(lines)
	if err != nil {
		return nil, err
	}

	headerLine := cleanLine(lines[skipLines], skipLines == 0)
	headers := splitFields(headerLine, delimiter)
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	return &FileConfig{
		Delimiter:   delimiter,
		SkipLines:   skipLines,
		Headers:     headers,
		Fingerprint: Fingerprint(headers),
	}, nil
}

// Fingerprint hashes normalized header names so the same export format
// always yields the same identifier regardless of casing or punctuation.
func Fingerprint(headers []string) string {
	normalized := make([]string, 0, len(headers))
	for _, h := range headers {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, h)
		if clean != "" {
			normalized = append(normalized, clean)
		}
	}
	sum := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(sum[:])
}

// findHeaderRow locates the header row and its delimiter. Lines containing
// known header keywords are preferred; the non-keyword line with the most
// columns is the fallback.
func findHeaderRow(lines []string) (rune, int, error) {
	keywordIndex, fallbackIndex := -1, -1
	keywordDelimiter, fallbackDelimiter := rune(0), rune(0)
	keywordScore, fallbackCount := 0, 0

	for i, line := range lines {
		if i > 20 {
			break
		}
		line = cleanLine(line, i == 0)
		if line == "" {
			continue
		}

		delimiter, count := detectDelimiter(line)
		if count < 1 {
			continue
		}

		lineLower := strings.ToLower(line)
		matches := 0
		for _, kw := range headerKeywords {
			if strings.Contains(lineLower, kw) {
				matches++
			}
		}

		if matches > 0 {
			score := count*10 + matches
			if score > keywordScore {
				keywordScore = score
				keywordDelimiter = delimiter
				keywordIndex = i
			}
		} else if count > fallbackCount {
			fallbackCount = count
			fallbackDelimiter = delimiter
			fallbackIndex = i
		}
	}

	if keywordIndex >= 0 {
		return keywordDelimiter, keywordIndex, nil
	}
	if fallbackCount >= 2 {
		return fallbackDelimiter, fallbackIndex, nil
	}
	return 0, 0, ErrNoHeadersFound
}

func cleanLine(line string, firstLine bool) string {
	line = strings.TrimRight(line, "\r")
	if firstLine {
		line = strings.TrimPrefix(line, "\uFEFF")
	}
	return strings.TrimSpace(line)
}

func detectDelimiter(line string) (rune, int) {
	bestDelimiter, bestCount := rune(0), 0
	for _, d := range []rune{';', '\t', ',', '|'} {
		if count := strings.Count(line, string(d)); count > bestCount {
			bestCount = count
			bestDelimiter = d
		}
	}
	return bestDelimiter, bestCount
}

// splitFields splits a header line on the delimiter, honoring simple quoted
// fields.
func splitFields(line string, delimiter rune) []string {
	var fields []string
	var cur strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delimiter && !inQuotes:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	fields = append(fields, cur.String())
	return fields
}
