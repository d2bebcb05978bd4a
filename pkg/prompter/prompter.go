package prompter

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/term"
)

var stdin = bufio.NewReader(os.Stdin)

func readLine() (string, error) {
	line, err := stdin.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptString prompts for a single line of input
func PromptString(label string) (string, error) {
	fmt.Print(label)
	return readLine()
}

// PromptPassword prompts for a password without echoing it
func PromptPassword(label string) (string, error) {
	fmt.Print(label)
	bytepw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(bytepw), nil
}

// PromptConfirm prompts for a yes/no answer
func PromptConfirm(label string) (bool, error) {
	fmt.Print(label + " (y/n) ")
	answer, err := readLine()
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// PromptSelect prompts for a choice from a numbered list and returns
// the selected index
func PromptSelect(label string, options []string) (int, error) {
	fmt.Println(label)
	for i, opt := range options {
		fmt.Printf("%d) %s\n", i+1, opt)
	}
	fmt.Print("Select option: ")

	answer, err := readLine()
	if err != nil {
		return -1, err
	}
	selection, err := strconv.Atoi(answer)
	if err != nil || selection < 1 || selection > len(options) {
		return -1, fmt.Errorf("invalid selection")
	}
	return selection - 1, nil
}

// PromptMultiline reads lines until the first empty one
func PromptMultiline(label string) (string, error) {
	fmt.Printf("%s (empty line to finish):\n", label)

	var lines []string
	for {
		line, err := stdin.ReadString('\n')
		if err != nil {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}
