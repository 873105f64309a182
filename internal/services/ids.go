package services

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"
)

// maxProjectIDAttempts bounds the search for an unused project id. With at
// most a thousand ids per prefix, a full prefix fails instead of looping.
const maxProjectIDAttempts = 200

// RandIntN returns a number in [0, n). Tests replace it for determinism.
type RandIntN func(n int) int

func defaultRand(n int) int { return rand.IntN(n) }

// EmployeeID builds "<first three letters of name, upper-cased>-<100..999>".
func EmployeeID(name string, rnd RandIntN) string {
	prefix := []rune(strings.ToUpper(strings.TrimSpace(name)))
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("%s-%d", string(prefix), 100+rnd(900))
}

// ProjectIDPrefix is the upper-cased first letter of each word of name.
func ProjectIDPrefix(name string) string {
	var b strings.Builder
	for _, w := range strings.Fields(name) {
		r := []rune(w)[0]
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

// UniqueProjectID draws "<prefix>-<0..999>" until it is not in taken.
func UniqueProjectID(name string, taken map[string]bool, rnd RandIntN) (string, error) {
	prefix := ProjectIDPrefix(name)
	for i := 0; i < maxProjectIDAttempts; i++ {
		id := fmt.Sprintf("%s-%d", prefix, rnd(1000))
		if !taken[id] {
			return id, nil
		}
	}
	return "", fmt.Errorf("no free project id for prefix %q after %d attempts", prefix, maxProjectIDAttempts)
}
