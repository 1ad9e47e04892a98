package parser

import (
	"errors"
	"net"
	"regexp"
)

// Classifier decides whether a log line is a boot start, a boot completion,
// or neither. It holds no state and is safe to share.
type Classifier struct {
	extractor *TimestampExtractor
	start     *regexp.Regexp
	complete  *regexp.Regexp
}

// NewClassifier creates a classifier from a timestamp pattern (date in group 1,
// time of day in group 2) and the two marker patterns.
func NewClassifier(timestamp, start, complete *regexp.Regexp) *Classifier {
	return &Classifier{
		extractor: NewTimestampExtractor(timestamp),
		start:     start,
		complete:  complete,
	}
}

// Classify inspects one line.
//
// A line without a timestamp yields (nil, nil). A timestamp-shaped prefix that
// does not parse yields an error wrapping ErrTimestampParse; callers skip such
// lines. Otherwise the line is returned with its kind, the start marker taking
// precedence over the completion marker.
func (c *Classifier) Classify(lineNum int, raw string) (*ClassifiedLine, error) {
	ts, err := c.extractor.Extract(raw)
	if errors.Is(err, ErrNoTimestamp) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	line := &ClassifiedLine{
		LineNum:   lineNum,
		Timestamp: ts,
		Kind:      KindNone,
	}

	if c.start.MatchString(raw) {
		line.Kind = KindStart
		return line, nil
	}

	if m := c.complete.FindStringSubmatch(raw); m != nil {
		line.Kind = KindComplete
		line.Endpoint = endpoint(m)
	}

	return line, nil
}

// endpoint renders the address and port groups of a completion match.
func endpoint(m []string) string {
	switch {
	case len(m) >= 3 && m[1] != "" && m[2] != "":
		return net.JoinHostPort(m[1], m[2])
	case len(m) >= 2:
		return m[1]
	default:
		return ""
	}
}
