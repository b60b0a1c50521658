package mdtokens

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// DetectColorSupport returns true if output to fd should be colored. NO_COLOR disables
// color, FORCE_COLOR enables it, otherwise fd must be a terminal that is not "dumb".
func DetectColorSupport(fd uintptr) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if v := os.Getenv("FORCE_COLOR"); v != "" && v != "0" {
		return true
	}
	if strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
