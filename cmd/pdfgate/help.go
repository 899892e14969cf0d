package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfgate [command] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve      Start the conversion service (default)")
	fmt.Fprintln(w, "  doctor     Check pandoc, PDF engines and directories")
	fmt.Fprintln(w, "  config     Print the effective configuration as YAML")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'pdfgate help <command>' for details on a specific command.")
}

// printConfigFlags prints the flags shared by serve, doctor and config.
func printConfigFlags(w io.Writer) {
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, "  -c, --config <name>        Config file name or path (PDFGATE_CONFIG)")
	fmt.Fprintln(w, "      --addr <addr>          Listen address, default :8000 (PDFGATE_ADDR)")
	fmt.Fprintln(w, "      --static <dir>         Static file directory, \"\" disables (PDFGATE_STATIC_DIR)")
	fmt.Fprintln(w, "      --max-form-bytes <n>   Request body limit (PDFGATE_MAX_FORM_BYTES)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Converter:")
	fmt.Fprintln(w, "      --pandoc <path>        Pandoc binary (PDFGATE_PANDOC)")
	fmt.Fprintln(w, "      --temp-dir <dir>       Temporary file directory (PDFGATE_TEMP_DIR)")
	fmt.Fprintln(w, "      --timeout <d>          Per-conversion timeout, 0 disables (PDFGATE_TIMEOUT)")
	fmt.Fprintln(w, "      --max-concurrent <n>   Simultaneous conversions, 0 = auto (PDFGATE_MAX_CONCURRENT)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Authentication:")
	fmt.Fprintln(w, "      --reject-unset-key     Refuse every request when API_KEY is unset")
	fmt.Fprintln(w, "                             (PDFGATE_REJECT_UNSET_KEY)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logging:")
	fmt.Fprintln(w, "      --log-level <level>    debug, info, warn, error (PDFGATE_LOG_LEVEL)")
	fmt.Fprintln(w, "      --log-format <format>  text or json (PDFGATE_LOG_FORMAT)")
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfgate [serve] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Serve POST /convert, /healthz, /metrics and static files.")
	fmt.Fprintln(w, "The bearer key is read from API_KEY.")
	fmt.Fprintln(w)
	printConfigFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Priority: flags > environment > config file > defaults.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfgate doctor [--json] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that the configured service can convert documents.")
	fmt.Fprintln(w, "Exits 1 when a blocking problem is found.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                 Print results as JSON")
	fmt.Fprintln(w)
	printConfigFlags(w)
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfgate config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the configuration serve would use, as a config file.")
	fmt.Fprintln(w)
	printConfigFlags(w)
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "serve":
		printServeUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "config":
		printConfigUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: pdfgate version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: pdfgate help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
