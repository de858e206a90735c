package usecase

import (
	"strings"

	"github.com/echoai/recommender/internal/domain"
)

// Tokenize lower-cases a query and splits it on runs of whitespace.
// Empty and whitespace-only input yields no tokens.
func Tokenize(query string) []string {
	return strings.Fields(strings.ToLower(query))
}

// Partition splits candidates into those containing every token of the query
// (case-insensitive substring, any order) and the rest. Input order is kept in
// both buckets. A query with no tokens matches every candidate.
func Partition(candidates []string, query string) domain.Partition {
	parts := Tokenize(query)

	result := domain.Partition{
		Matching: make([]string, 0, len(candidates)),
		Other:    make([]string, 0),
	}

	for _, candidate := range candidates {
		if containsAll(strings.ToLower(candidate), parts) {
			result.Matching = append(result.Matching, candidate)
		} else {
			result.Other = append(result.Other, candidate)
		}
	}

	return result
}

// containsAll reports whether every part occurs in s
func containsAll(s string, parts []string) bool {
	for _, part := range parts {
		if !strings.Contains(s, part) {
			return false
		}
	}
	return true
}
