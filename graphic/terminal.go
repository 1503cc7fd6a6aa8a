package graphic

import (
	"os"
	"strings"
)

// normalizeTerminal clears TERMINFO under tmux, where some combinations
// break termbox. The returned function puts it back.
func normalizeTerminal() (func(), error) {
	prev, had := os.LookupEnv("TERMINFO")

	if strings.HasPrefix(os.Getenv("TERM"), "tmux") {
		if err := os.Unsetenv("TERMINFO"); err != nil {
			return nil, err
		}
	}

	restore := func() {
		if had {
			os.Setenv("TERMINFO", prev)
		}
	}

	return restore, nil
}
