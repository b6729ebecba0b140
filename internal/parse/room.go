package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	roomRe   = regexp.MustCompile(`^([A-Za-z]*)[\s#-]*(\d{3,5})$`)
	prefixRe = regexp.MustCompile(`(?i)^(?:room|rm\.?)\s*`)
)

// ParsedRoom holds the structured data parsed from a room number.
type ParsedRoom struct {
	Wing   string
	Floor  int
	Seq    int
	Number string
}

// ParseRoomNumber splits a room number into floor and sequence. The last two
// digits are the sequence on the floor; everything before them is the floor.
// An optional wing letter prefix is kept separately.
func ParseRoomNumber(raw string) (ParsedRoom, error) {
	s := strings.TrimSpace(raw)
	s = prefixRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	m := roomRe.FindStringSubmatch(s)
	if m == nil {
		return ParsedRoom{}, fmt.Errorf("unable to parse room number: %q", raw)
	}
	digits := m[2]

	floor, err := strconv.Atoi(digits[:len(digits)-2])
	if err != nil {
		return ParsedRoom{}, fmt.Errorf("unable to parse floor from room number %q: %w", raw, err)
	}
	seq, err := strconv.Atoi(digits[len(digits)-2:])
	if err != nil {
		return ParsedRoom{}, fmt.Errorf("unable to parse sequence from room number %q: %w", raw, err)
	}
	if floor == 0 {
		return ParsedRoom{}, fmt.Errorf("unable to parse floor from room number: %q", raw)
	}

	wing := strings.ToUpper(m[1])
	return ParsedRoom{Wing: wing, Floor: floor, Seq: seq, Number: wing + digits}, nil
}
