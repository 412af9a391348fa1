// Package gesture runs the camera-capture-and-classify loop: grab a
// frame, send it to a hosted vision model, match one command word out of
// the free-text reply, and feed it to the rover driver.
package gesture

import (
	"context"
	"strings"

	"github.com/assiaelattar/microbit-app/pkg/rover"
)

// Classifier turns a camera frame into a free-text gesture label.
type Classifier interface {
	Classify(ctx context.Context, frame Frame) (string, error)
}

// MatchCommand scans a model reply for the first word that belongs to
// the command vocabulary, case-insensitively. Anything else is treated
// as "no command".
func MatchCommand(label string) (rover.Command, bool) {
	for _, word := range strings.FieldsFunc(label, func(r rune) bool {
		return !isWordRune(r)
	}) {
		if cmd, ok := rover.ParseCommand(word); ok {
			return cmd, true
		}
	}
	return "", false
}

func isWordRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
