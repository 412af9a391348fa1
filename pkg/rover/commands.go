package rover

import "strings"

// Command is a control token accepted by the gateway.
type Command string

const (
	CommandForward  Command = "forward"
	CommandBackward Command = "backward"
	CommandLeft     Command = "left"
	CommandRight    Command = "right"
	CommandStop     Command = "stop"
	CommandPowerOn  Command = "on"
	CommandPowerOff Command = "off"
)

// wireWords maps command tokens to the words the micro:bit sketch parses.
// The sketch reads newline-terminated lowercase words off its UART
// characteristic; "up"/"down" are its names for forward/backward.
var wireWords = map[Command]string{
	CommandForward:  "up",
	CommandBackward: "down",
	CommandLeft:     "left",
	CommandRight:    "right",
	CommandStop:     "stop",
	CommandPowerOn:  "on",
	CommandPowerOff: "off",
}

// aliases maps alternate spellings (including the raw wire words) back to
// command tokens, so gesture labels like "up" resolve to CommandForward.
var aliases = map[string]Command{
	"up":   CommandForward,
	"down": CommandBackward,
	"go":   CommandForward,
	"back": CommandBackward,
}

// WireEncode returns the on-wire payload for cmd: the mapped word plus a
// trailing newline. ok is false for tokens outside the fixed vocabulary;
// such tokens are ignored by callers rather than treated as errors.
func WireEncode(cmd Command) ([]byte, bool) {
	word, ok := wireWords[cmd]
	if !ok {
		return nil, false
	}
	return []byte(word + "\n"), true
}

// ParseCommand matches a single word against the command vocabulary,
// case-insensitively. Anything outside the vocabulary is not a command.
func ParseCommand(word string) (Command, bool) {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return "", false
	}
	if _, ok := wireWords[Command(w)]; ok {
		return Command(w), true
	}
	if cmd, ok := aliases[w]; ok {
		return cmd, true
	}
	return "", false
}

// IsMovement reports whether cmd drives the motors (as opposed to the
// power toggle).
func IsMovement(cmd Command) bool {
	switch cmd {
	case CommandForward, CommandBackward, CommandLeft, CommandRight, CommandStop:
		return true
	}
	return false
}

// MovementCommands lists the tokens accepted by the drive endpoint.
func MovementCommands() []Command {
	return []Command{CommandForward, CommandBackward, CommandLeft, CommandRight, CommandStop}
}
