package analyzer

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

func uniqueStrings(input []string) []string {
	seen := make(map[string]bool)
	var result []string
	for _, s := range input {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	return result
}

func uniqueSorted(input []string) []string {
	result := uniqueStrings(input)
	sort.Strings(result)
	return result
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func fileExtension(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx != -1 {
		return strings.ToLower(filename[idx+1:])
	}
	return ""
}

func isIPv4(s string) bool {
	return ipv4ExactRegex.MatchString(s)
}
