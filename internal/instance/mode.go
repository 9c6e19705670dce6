package instance

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=Mode -linecomment -output=mode_string.go

// Mode selects when sample members are validated.
type Mode int

const (
	ModeLazy   Mode = iota // lazy
	ModeEager              // eager
	ModeStrict             // strict
)

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lazy":
		return ModeLazy, nil
	case "eager", "":
		return ModeEager, nil
	case "strict":
		return ModeStrict, nil
	default:
		return 0, fmt.Errorf("unknown validation mode %q (expected lazy, eager or strict)", s)
	}
}
