package mdtty

import (
	"os"
	"strconv"
	"strings"
)

const (
	osc8Start = "\x1b]8;;"
	osc8End   = "\x1b]8;;\x1b\\"
)

var osc8Programs = map[string]bool{
	"iTerm.app": true,
	"WezTerm":   true,
	"vscode":    true,
	"ghostty":   true,
	"Hyper":     true,
}

// DetectOSC8Support reports whether the terminal described by the process
// environment likely renders OSC 8 hyperlinks.
func DetectOSC8Support() bool {
	return DetectOSC8(os.Getenv)
}

// DetectOSC8 is DetectOSC8Support over an arbitrary environment lookup.
// OSC8=0 disables links and OSC8=1 forces them.
func DetectOSC8(getenv func(string) string) bool {
	switch getenv("OSC8") {
	case "0":
		return false
	case "1":
		return true
	}
	if getenv("DOMTERM") != "" || getenv("WT_SESSION") != "" {
		return true
	}
	if osc8Programs[getenv("TERM_PROGRAM")] {
		return true
	}
	term := strings.ToLower(getenv("TERM"))
	if strings.Contains(term, "kitty") || strings.Contains(term, "foot") {
		return true
	}
	// VTE 0.50 encodes as 5000.
	if n, err := strconv.Atoi(getenv("VTE_VERSION")); err == nil && n >= 5000 {
		return true
	}
	return false
}
