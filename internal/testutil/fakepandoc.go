// Package testutil provides a fake pandoc for tests.
//
// The fake is the test binary itself: a package's TestMain calls
// RunFakePandocIfRequested before m.Run, and converters under test are
// configured with FakePandoc(...). The fake honors --output, --pdf-engine,
// --css and --version like pandoc, reads the whole source from stdin and
// writes FakePDF(engine, css, source) to the output path.
package testutil

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

const marker = "--fake-pandoc"

// Modes selecting the fake's behavior.
const (
	ModeOK     = "ok"     // read stdin, write output, exit 0
	ModeReject = "reject" // read stdin, write stderr, exit with the given code
	ModeEarly  = "early"  // exit with the given code without reading stdin
	ModeNoisy  = "noisy"  // flood stdout and stderr before reading stdin, then succeed
	ModeEmpty  = "empty"  // read stdin, exit 0 without writing output
	ModeRemove = "remove" // read stdin, delete the output file, exit 0
	ModeSleep  = "sleep"  // read stdin, sleep for a long time
	ModeKilled = "killed" // read stdin, write stderr, kill itself
)

// FakeVersion is what the fake prints for --version.
const FakeVersion = "pandoc 3.1.11 (fake)"

// NoiseBytes is how much ModeNoisy writes to each output stream.
// It is well beyond a pipe buffer.
const NoiseBytes = 1 << 20

// Fake describes a fake pandoc invocation.
type Fake struct {
	Mode     string
	ExitCode int
	Stderr   string
}

// FakePandoc returns the command and leading arguments that run the fake.
func FakePandoc(f Fake) (name string, args []string) {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	mode := f.Mode
	if mode == "" {
		mode = ModeOK
	}
	return exe, []string{
		marker,
		"--fake-mode=" + mode,
		"--fake-exit=" + strconv.Itoa(f.ExitCode),
		"--fake-stderr=" + f.Stderr,
	}
}

// FakePDF is the exact content the fake writes on success.
// css is the stylesheet file content, or "<none>" when --css was not given.
func FakePDF(engine, css, source string) []byte {
	return []byte("%PDF-1.4 fake\nengine: " + engine + "\ncss: " + css + "\n\n" + source)
}

// RunFakePandocIfRequested turns the current process into the fake when it
// was started by FakePandoc. It never returns in that case.
func RunFakePandocIfRequested() {
	if len(os.Args) < 2 || os.Args[1] != marker {
		return
	}
	os.Exit(runFake(os.Args[2:]))
}

func runFake(args []string) int {
	var (
		mode     = ModeOK
		exitCode int
		msg      string
		output   string
		engine   string
		cssPath  string
	)

	for _, a := range args {
		switch {
		case a == "--version":
			fmt.Println(FakeVersion)
			return 0
		case strings.HasPrefix(a, "--fake-mode="):
			mode = strings.TrimPrefix(a, "--fake-mode=")
		case strings.HasPrefix(a, "--fake-exit="):
			exitCode, _ = strconv.Atoi(strings.TrimPrefix(a, "--fake-exit="))
		case strings.HasPrefix(a, "--fake-stderr="):
			msg = strings.TrimPrefix(a, "--fake-stderr=")
		case strings.HasPrefix(a, "--output="):
			output = strings.TrimPrefix(a, "--output=")
		case strings.HasPrefix(a, "--pdf-engine="):
			engine = strings.TrimPrefix(a, "--pdf-engine=")
		case strings.HasPrefix(a, "--css="):
			cssPath = strings.TrimPrefix(a, "--css=")
		default:
			fmt.Fprintf(os.Stderr, "fake pandoc: unexpected argument %q\n", a)
			return 64
		}
	}

	if mode == ModeEarly {
		fmt.Fprint(os.Stderr, msg)
		return exitCode
	}

	if mode == ModeNoisy {
		noise := strings.Repeat("x", NoiseBytes)
		_, _ = io.WriteString(os.Stdout, noise)
		_, _ = io.WriteString(os.Stderr, noise)
	}

	source, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fake pandoc: reading stdin: %v\n", err)
		return 65
	}

	switch mode {
	case ModeReject:
		fmt.Fprint(os.Stderr, msg)
		return exitCode
	case ModeEmpty:
		return 0
	case ModeRemove:
		_ = os.Remove(output)
		return 0
	case ModeSleep:
		time.Sleep(time.Minute)
		return 0
	case ModeKilled:
		fmt.Fprint(os.Stderr, msg)
		if p, err := os.FindProcess(os.Getpid()); err == nil {
			_ = p.Kill()
		}
		time.Sleep(time.Minute)
		return 0
	}

	if !strings.HasSuffix(output, ".pdf") {
		fmt.Fprintf(os.Stderr, "fake pandoc: output %q has no .pdf suffix\n", output)
		return 66
	}

	css := "<none>"
	if cssPath != "" {
		if !strings.HasSuffix(cssPath, ".css") {
			fmt.Fprintf(os.Stderr, "fake pandoc: stylesheet %q has no .css suffix\n", cssPath)
			return 66
		}
		data, err := os.ReadFile(cssPath) // #nosec G304 -- test helper
		if err != nil {
			fmt.Fprintf(os.Stderr, "fake pandoc: reading stylesheet: %v\n", err)
			return 66
		}
		css = string(data)
	}

	if err := os.WriteFile(output, FakePDF(engine, css, string(source)), 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "fake pandoc: writing output: %v\n", err)
		return 73
	}
	return 0
}
