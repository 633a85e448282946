// UI utilities for the scandesk CLI.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// ui provides user-friendly terminal output.
type ui struct {
	noColor bool
}

func newUI() *ui {
	return &ui{noColor: noColor}
}

// Success prints a success message.
func (u *ui) Success(format string, args ...interface{}) {
	if u.noColor {
		fmt.Printf("✓ %s\n", fmt.Sprintf(format, args...))
	} else {
		color.New(color.FgGreen).Printf("✓ %s\n", fmt.Sprintf(format, args...))
	}
}

// Warning prints a warning message.
func (u *ui) Warning(format string, args ...interface{}) {
	if u.noColor {
		fmt.Printf("⚠ %s\n", fmt.Sprintf(format, args...))
	} else {
		color.New(color.FgYellow).Printf("⚠ %s\n", fmt.Sprintf(format, args...))
	}
}

// Error prints an error message.
func (u *ui) Error(format string, args ...interface{}) {
	if u.noColor {
		fmt.Fprintf(os.Stderr, "✗ %s\n", fmt.Sprintf(format, args...))
	} else {
		color.New(color.FgRed).Fprintf(os.Stderr, "✗ %s\n", fmt.Sprintf(format, args...))
	}
}

// Spinner starts a spinner with a message; call the returned stop func
// when the work finishes.
func (u *ui) Spinner(message string) (stop func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message
	s.Start()
	return s.Stop
}

// ProgressBar creates a bar for a known number of steps.
func (u *ui) ProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(32),
		progressbar.OptionClearOnFinish(),
	)
}

// Prompt reads one line of input with a prompt, returning the trimmed
// answer and whether anything was entered.
func (u *ui) Prompt(label string) (string, bool) {
	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", false
	}
	line = strings.TrimSpace(line)
	return line, line != ""
}

// Confirm asks a yes/no question, defaulting to no.
func (u *ui) Confirm(label string) bool {
	answer, ok := u.Prompt(label + " [y/N]")
	if !ok {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}
