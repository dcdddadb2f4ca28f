package cmake

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/schollz/progressbar/v3"

	ccgoerrors "github.com/zhlinh/ccgo-sub000/pkg/errors"
)

var progressRe = regexp.MustCompile(`^\[\s*\d+%]`)

// runQuiet runs a cmake invocation without progress handling, quietly
// unless verbose is true. Configure and install both use it.
// Non-zero exit becomes a SubprocessError carrying the literal exit
// code and the output tail.
func runQuiet(args []string, verbose bool) error {
	cmd := execCommand("cmake", args...)

	if verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return ccgoerrors.NewSubprocessError("cmake", err, "")
		}
		return nil
	}

	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	if err := cmd.Run(); err != nil {
		return ccgoerrors.NewSubprocessError("cmake", err, buf.String())
	}
	return nil
}

// runBuild runs "cmake --build" with optional verbose output.
// If verbose is false, it streams only progress lines like "[ 93%]"
// into a progress bar and keeps everything else for the error tail.
func runBuild(args []string, verbose bool) error {
	cmd := execCommand("cmake", args...)

	if verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return ccgoerrors.NewSubprocessError("cmake", err, "")
		}
		return nil
	}

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(20),
		progressbar.OptionSetDescription("[cyan]Compiling[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[cyan]█[reset]",
			SaucerHead:    "[cyan]▸[reset]",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionClearOnFinish(),
	)

	// Ensure cursor is restored on interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		bar.Clear()
		fmt.Print("\033[?25h") // Show cursor
		os.Exit(1)
	}()

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		return ccgoerrors.NewSubprocessError("cmake", err, "")
	}

	var nonProgress bytes.Buffer
	lastPercent := -1

	waitCh := make(chan error, 1)
	go func() {
		waitCh <- cmd.Wait()
		pw.Close()
	}()

	sc := bufio.NewScanner(pr)
	sc.Buffer(make([]byte, 0, 64*1024), 512*1024)
	for sc.Scan() {
		line := sc.Text()
		if match := progressRe.FindString(line); match != "" {
			pct := extractPercent(match)
			if pct >= 0 && pct != lastPercent {
				bar.Set(pct)
				lastPercent = pct
			}
			continue
		}
		nonProgress.WriteString(line)
		nonProgress.WriteByte('\n')
	}

	err := <-waitCh

	bar.Set(100)
	bar.Clear()

	if err != nil {
		return ccgoerrors.NewSubprocessError("cmake", err, nonProgress.String())
	}
	return nil
}

func extractPercent(line string) int {
	// line format: [ 93%] ...
	start := strings.Index(line, "[")
	end := strings.Index(line, "%")
	if start == -1 || end == -1 || end <= start {
		return -1
	}
	var pct int
	if _, err := fmt.Sscanf(line[start+1:end], "%d", &pct); err != nil {
		return -1
	}
	return pct
}
