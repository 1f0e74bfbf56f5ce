// Package redact scrubs secrets from session files before sharing. Known
// credential shapes are always replaced; other long tokens are replaced
// when their entropy says they are not prose. Message structure, keys, and
// identifiers survive so a redacted session still loads and renders.
package redact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
)

const (
	placeholder      = "[REDACTED]"
	entropyThreshold = 4.5
)

// knownSecretPatterns match credential formats regardless of entropy.
var knownSecretPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{16,}\b`),           // API keys (OpenAI/Anthropic style)
	regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{20,}\b`),      // GitHub tokens
	regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`),                // AWS access key IDs
	regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9-]{10,}\b`),    // Slack tokens
	regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._+/=-]{16,}`), // Authorization headers
	regexp.MustCompile(`-----BEGIN [A-Z ]*PRIVATE KEY-----`),  // PEM key material
}

// candidatePattern matches runs long enough to be worth an entropy check.
var candidatePattern = regexp.MustCompile(`[A-Za-z0-9/+_=-]{10,}`)

// String replaces known secret formats and high-entropy tokens with the
// redaction placeholder.
func String(s string) string {
	for _, p := range knownSecretPatterns {
		s = p.ReplaceAllString(s, placeholder)
	}

	locs := candidatePattern.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return s
	}
	var b strings.Builder
	prev := 0
	for _, loc := range locs {
		b.WriteString(s[prev:loc[0]])
		match := s[loc[0]:loc[1]]
		if isSecret(match) {
			b.WriteString(placeholder)
		} else {
			b.WriteString(match)
		}
		prev = loc[1]
	}
	b.WriteString(s[prev:])
	return b.String()
}

// JSONLContent parses each line as JSON to decide which string values need
// redaction, then performs targeted replacements on the raw line text.
// Lines with no secrets pass through byte-identical, so a redacted session
// diffs cleanly against the original.
func JSONLContent(content string) (string, error) {
	lines := strings.Split(content, "\n")
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			b.WriteString(line)
			continue
		}
		var parsed any
		if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
			b.WriteString(line)
			continue
		}
		repls := collectReplacements(parsed)
		if len(repls) == 0 {
			b.WriteString(line)
			continue
		}
		result := line
		for _, r := range repls {
			origJSON, err := jsonEncodeString(r[0])
			if err != nil {
				return "", err
			}
			replJSON, err := jsonEncodeString(r[1])
			if err != nil {
				return "", err
			}
			result = strings.ReplaceAll(result, origJSON, replJSON)
		}
		b.WriteString(result)
	}
	return b.String(), nil
}

// collectReplacements walks a parsed JSON value and collects unique
// (original, redacted) string pairs for values that need redaction.
func collectReplacements(v any) [][2]string {
	seen := make(map[string]bool)
	var repls [][2]string
	var walk func(v any)
	walk = func(v any) {
		switch val := v.(type) {
		case map[string]any:
			if skipObject(val) {
				return
			}
			for k, child := range val {
				if skipField(k) {
					continue
				}
				walk(child)
			}
		case []any:
			for _, child := range val {
				walk(child)
			}
		case string:
			redacted := String(val)
			if redacted != val && !seen[val] {
				seen[val] = true
				repls = append(repls, [2]string{val, redacted})
			}
		}
	}
	walk(v)
	return repls
}

// skipField excludes keys whose values are identifiers, not content:
// "signature" (exact) and any key ending in "id"/"ids". Redacting those
// would break the uuid/parentUuid chain the viewer navigates by.
func skipField(key string) bool {
	if key == "signature" {
		return true
	}
	lower := strings.ToLower(key)
	return strings.HasSuffix(lower, "id") || strings.HasSuffix(lower, "ids")
}

// skipObject excludes image blocks: base64 payloads are all high entropy
// and redacting them just destroys the image.
func skipObject(obj map[string]any) bool {
	t, ok := obj["type"].(string)
	return ok && t == "image"
}

// isSecret reports whether a candidate token has secret-like entropy.
func isSecret(match string) bool {
	return shannonEntropy(match) > entropyThreshold
}

func shannonEntropy(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	freq := make(map[byte]int)
	for i := range len(s) {
		freq[s[i]]++
	}
	length := float64(len(s))
	var entropy float64
	for _, count := range freq {
		p := float64(count) / length
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// jsonEncodeString returns the JSON encoding of s without HTML escaping.
func jsonEncodeString(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", fmt.Errorf("failed to encode string: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
