package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

func formatStatusWithColor(status string) string {
	label := strings.ToUpper(status)
	switch strings.ToLower(status) {
	case "pass":
		return colorSuccess(label)
	case "fail":
		return colorError(label)
	case "warn":
		return colorWarn(label)
	default:
		return label
	}
}

// formatScore colours a percentage: green from 80, yellow from 50, red below.
func formatScore(score int) string {
	text := fmt.Sprintf("%d%%", score)
	switch {
	case score >= 80:
		return colorSuccess(text)
	case score >= 50:
		return colorWarn(text)
	default:
		return colorError(text)
	}
}
