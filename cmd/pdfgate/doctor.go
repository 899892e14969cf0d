package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/pdfgate"
	"github.com/alnah/pdfgate/internal/config"
	"github.com/alnah/pdfgate/internal/fileutil"
	"github.com/alnah/pdfgate/internal/hints"
)

// versionTimeout bounds the converter --version check.
const versionTimeout = 5 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status    string        `json:"status"` // "ready", "warnings", "errors"
	Converter converterInfo `json:"converter"`
	Engines   []engineInfo  `json:"engines"`
	Env       envInfo       `json:"environment"`
	System    systemInfo    `json:"system"`
	Warnings  []string      `json:"warnings,omitempty"`
	Errors    []string      `json:"errors,omitempty"`
}

// converterInfo holds pandoc detection results.
type converterInfo struct {
	Command string `json:"command"`
	Found   bool   `json:"found"`
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
}

// engineInfo holds PDF engine detection results.
type engineInfo struct {
	Name  string `json:"name"`
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	APIKeySet     bool   `json:"api_key_set"`
}

// systemInfo holds directory check results.
type systemInfo struct {
	TempDir      string `json:"temp_dir"`
	TempWritable bool   `json:"temp_writable"`
	StaticDir    string `json:"static_dir,omitempty"`
	StaticFound  bool   `json:"static_found"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad usage.
func runDoctorCmd(ctx context.Context, args []string, env *Environment) int {
	f, fs, err := parseFlags("doctor", args)
	if errors.Is(err, flag.ErrHelp) {
		printDoctorUsage(env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
		return exitCodeFor(err)
	}

	cfg, err := resolveConfig(f, fs, env)
	if err != nil {
		fmt.Fprintln(env.Stderr, "error:", err)
		return exitCodeFor(err)
	}

	result := runDoctor(ctx, cfg, env)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks against cfg.
func runDoctor(ctx context.Context, cfg *config.Config, env *Environment) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:   runtime.GOOS,
			Arch: runtime.GOARCH,
		},
	}

	checkConverter(ctx, cfg, env, result)
	checkEngines(env, result)
	checkEnvironment(cfg, env, result)
	checkSystem(cfg, result)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkConverter locates pandoc and asks for its version.
func checkConverter(ctx context.Context, cfg *config.Config, env *Environment, result *doctorResult) {
	command := cfg.Converter.Command
	result.Converter.Command = command

	path, err := env.LookPath(command)
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("converter %q not found%s", command, hints.ForConverterNotFound(command)))
		return
	}
	result.Converter.Found = true
	result.Converter.Path = path

	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	args := append(append([]string(nil), cfg.Converter.Args...), "--version")
	res, err := env.Runner.Run(ctx, pdfgate.Command{Name: path, Args: args})
	switch {
	case err != nil:
		result.Warnings = append(result.Warnings, fmt.Sprintf("could not get converter version: %v", err))
	case res.ExitCode != 0:
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("converter --version exited with status %d", res.ExitCode))
	default:
		result.Converter.Version = firstLine(res.Stdout)
	}
}

// checkEngines reports which PDF engines are on PATH. A missing engine is a
// warning: requests selecting it fail with pandoc's own diagnostic.
func checkEngines(env *Environment, result *doctorResult) {
	for _, e := range pdfgate.Engines {
		info := engineInfo{Name: string(e)}
		if path, err := env.LookPath(string(e)); err == nil {
			info.Found = true
			info.Path = path
		} else {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("PDF engine %s not found%s", e, hints.ForEngineNotFound(string(e))))
		}
		result.Engines = append(result.Engines, info)
	}
}

// checkEnvironment detects container and CI environments and the API key.
func checkEnvironment(cfg *config.Config, env *Environment, result *doctorResult) {
	result.Env.Container, result.Env.ContainerHint = isContainer(env)

	for _, v := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"} {
		if env.getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	result.Env.APIKeySet = env.getenv(apiKeyVar) != ""
	if !result.Env.APIKeySet {
		result.Warnings = append(result.Warnings,
			"API_KEY is not set"+hints.ForAPIKeyUnset(cfg.Auth.RejectWhenUnset))
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(env *Environment) (bool, string) {
	if env.getenv("PDFGATE_CONTAINER") == "1" {
		return true, "PDFGATE_CONTAINER=1"
	}
	if hints.IsInContainer() {
		return true, "/.dockerenv"
	}
	if v := env.getenv("container"); v != "" {
		return true, "container=" + v
	}
	if env.getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the temp and static directories.
func checkSystem(cfg *config.Config, result *doctorResult) {
	tmpDir := cfg.Converter.TempDir
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	result.System.TempDir = tmpDir

	scope := fileutil.NewScope(tmpDir, "pdfgate-doctor")
	if _, err := scope.Write("ok", "txt"); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("temp directory not writable: %s%s", tmpDir, hints.ForTempDir()))
	} else {
		result.System.TempWritable = true
	}
	if err := scope.Close(); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("removing check file: %v", err))
	}

	if dir := cfg.Server.StaticDir; dir != "" {
		result.System.StaticDir = dir
		if fileutil.DirExists(dir) {
			result.System.StaticFound = true
		} else {
			result.Errors = append(result.Errors,
				fmt.Sprintf("static directory not found: %s%s", dir, hints.ForStaticDir()))
		}
	}
}

// firstLine returns the first line of b.
func firstLine(b []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(b))
	if sc.Scan() {
		return sc.Text()
	}
	return ""
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "pdfgate doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Converter")
	if r.Converter.Found {
		fmt.Fprintf(w, "  [OK] %s found at %s\n", r.Converter.Command, r.Converter.Path)
		if r.Converter.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Converter.Version)
		}
	} else {
		fmt.Fprintf(w, "  [ERROR] %s not found\n", r.Converter.Command)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "PDF engines")
	for _, e := range r.Engines {
		if e.Found {
			fmt.Fprintf(w, "  [OK] %s: %s\n", e.Name, e.Path)
		} else {
			fmt.Fprintf(w, "  [WARN] %s: not found\n", e.Name)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	if r.Env.APIKeySet {
		fmt.Fprintln(w, "  [OK] API_KEY: set")
	} else {
		fmt.Fprintln(w, "  [WARN] API_KEY: not set")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	if r.System.TempWritable {
		fmt.Fprintf(w, "  [OK] Temp directory: %s (writable)\n", r.System.TempDir)
	} else {
		fmt.Fprintf(w, "  [ERROR] Temp directory: %s (not writable)\n", r.System.TempDir)
	}
	if r.System.StaticDir != "" {
		if r.System.StaticFound {
			fmt.Fprintf(w, "  [OK] Static directory: %s\n", r.System.StaticDir)
		} else {
			fmt.Fprintf(w, "  [ERROR] Static directory: %s (missing)\n", r.System.StaticDir)
		}
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to serve")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
