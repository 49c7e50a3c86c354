package trace

import (
	"fmt"
	"strings"
)

// Level selects which events reach a tracer.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // failed span ends only, at any scope
	LevelPhase        // driver and stage spans
	LevelDetail       // plus rewrite rules
	LevelDebug        // plus single matches
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts a level name in any letter case.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether ordinary begin, end and point events at scope
// pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopeStage
	case LevelDetail:
		return scope <= ScopeRule
	case LevelDebug:
		return true
	}
	return false
}

// Admits is the full filter applied by tracers: a failed span end passes any
// level above off, even when its scope is finer than the level.
func (l Level) Admits(ev *Event) bool {
	if l.ShouldEmit(ev.Scope) {
		return true
	}
	return l >= LevelError && ev.Kind == KindSpanEnd && ev.Failed
}
