package tools

import (
	"math/rand"
	"sync"
	"time"
	"unicode/utf8"
)

var (
	seededMu   sync.Mutex
	seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomChoice picks one element uniformly. Returns "" for an empty list.
func RandomChoice(options []string) string {
	if len(options) == 0 {
		return ""
	}
	seededMu.Lock()
	i := seededRand.Intn(len(options))
	seededMu.Unlock()
	return options[i]
}

// Truncate keeps at most max runes and appends suffix when something was cut.
func Truncate(s string, max int, suffix string) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max]) + suffix
}
