package main

import (
	"fmt"
	"os"
	"strings"
)

// progressMode is the --ui setting for the per-file progress view.
type progressMode uint8

const (
	progressAuto progressMode = iota
	progressOn
	progressOff
)

var progressModes = map[string]progressMode{
	"":     progressAuto,
	"auto": progressAuto,
	"on":   progressOn,
	"off":  progressOff,
}

func parseProgressMode(value string) (progressMode, error) {
	m, ok := progressModes[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return progressAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
	return m, nil
}

// showProgress решает, рисовать ли прогресс в stderr. В auto-режиме чанки
// должны уходить в файл, иначе вывод перемешается с прогрессом.
func (m progressMode) showProgress(chunksToStdout, quiet bool, stderr *os.File) bool {
	switch {
	case quiet || m == progressOff:
		return false
	case m == progressOn:
		return true
	default:
		return !chunksToStdout && stderr != nil && isTerminal(stderr)
	}
}
