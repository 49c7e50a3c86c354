package main

import (
	"fmt"
	"os"
	"strings"
)

// autoSwitch is an auto|on|off setting such as --color or --ui. Auto
// follows whether stdout is a terminal.
type autoSwitch uint8

const (
	switchAuto autoSwitch = iota
	switchOn
	switchOff
)

func parseSwitch(name, value string) (autoSwitch, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return switchAuto, nil
	case "on", "always":
		return switchOn, nil
	case "off", "never":
		return switchOff, nil
	}
	return switchAuto, fmt.Errorf("invalid %s value %q (expected auto|on|off)", name, value)
}

func (s autoSwitch) enabled() bool {
	if s == switchAuto {
		return isTerminal(os.Stdout)
	}
	return s == switchOn
}
