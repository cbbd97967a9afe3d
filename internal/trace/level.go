package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // nothing
	LevelError               // error events only
	LevelPhase               // run and unit spans
	LevelDetail              // plus shards
	LevelDebug               // plus per-chunk points
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel maps a flag value onto a Level, ignoring case.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// finest scope kept by each level
var levelScope = [...]Scope{
	LevelPhase:  ScopeUnit,
	LevelDetail: ScopeShard,
	LevelDebug:  ScopeChunk,
}

// Allows reports whether an event of kind at scope passes l.
func (l Level) Allows(scope Scope, kind Kind) bool {
	switch {
	case l == LevelOff:
		return false
	case kind == KindError, kind == KindHeartbeat:
		return true
	case l == LevelError:
		return false
	case int(l) < len(levelScope):
		return scope <= levelScope[l]
	}
	return true
}
