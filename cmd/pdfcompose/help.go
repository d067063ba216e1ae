package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfcompose <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  compose    Compose one PDF from generated pages, a PDF, or a captured page")
	fmt.Fprintln(w, "  batch      Rebuild several PDF files in parallel")
	fmt.Fprintln(w, "  doctor     Check Chrome, environment, and watermark availability")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  completion Generate shell completion script")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'pdfcompose help <command>' for details on a specific command.")
}

// printComposeUsage prints usage for the compose command.
func printComposeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfcompose compose [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Compose a PDF: cover page, then content pages with header, footer,")
	fmt.Fprintln(w, "and watermark. Without a source flag, blank pages are generated.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Source (at most one):")
	fmt.Fprintln(w, "      --url <url>           Rebuild the PDF at an http(s) URL")
	fmt.Fprintln(w, "      --file <path>         Rebuild a PDF file (must have a .pdf extension)")
	fmt.Fprintln(w, "      --capture <target>    Capture an element of a URL, .html or .md file")
	fmt.Fprintln(w, "  -n, --pages <n>           Generated pages when no items are given (default: 3)")
	fmt.Fprintln(w, "      --item <text>         Text of one generated page (repeatable)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capture:")
	fmt.Fprintln(w, "      --selector <css>      Captured element (default: #pdf-content)")
	fmt.Fprintln(w, "      --style <name>        Style for Markdown files (default: default)")
	fmt.Fprintln(w, "      --width <px>          Viewport width (default: 794)")
	fmt.Fprintln(w, "      --as-cover            Use the capture as the cover page")
	printSharedUsage(w)
}

// printBatchUsage prints usage for the batch command.
func printBatchUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfcompose batch <file.pdf|dir>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rebuild PDF files in parallel. Directories contribute their .pdf files.")
	fmt.Fprintln(w, "Each output is named modified-<name>.pdf, next to its source unless")
	fmt.Fprintln(w, "--output names a directory.")
	printSharedUsage(w)
}

// printSharedUsage prints the flags compose and batch have in common.
func printSharedUsage(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Timeout per document (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom capture styles and templates")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: a4, letter, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --layout <s>          reserve (content fits between bands) or overpaint")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Document:")
	fmt.Fprintln(w, "      --title <s>           Fills {title}")
	fmt.Fprintln(w, "      --date <s>            Fills {date}: \"auto\", \"auto:FORMAT\", or literal")
	fmt.Fprintln(w, "                            Tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D")
	fmt.Fprintln(w, "                            Presets (case-insensitive): iso, european, us, long")
	fmt.Fprintln(w, "      --item-text <s>       Text line of generated pages: {item}, {page}, {total}")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Cover:")
	fmt.Fprintln(w, "      --cover-title <s>     Cover title")
	fmt.Fprintln(w, "      --cover-subtitle <s>  Cover subtitle")
	fmt.Fprintln(w, "      --cover-color <hex>   Cover background")
	fmt.Fprintln(w, "      --cover-no-watermark  Keep the watermark off the cover")
	fmt.Fprintln(w, "      --no-cover            Disable cover page")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Header/Footer (replace header with footer for the footer):")
	fmt.Fprintln(w, "      --header-text <s>     Text: {page}, {total}, {date}, {title}")
	fmt.Fprintln(w, "      --header-height <pt>  Band height")
	fmt.Fprintln(w, "      --header-font-size <pt>")
	fmt.Fprintln(w, "      --header-color <hex>  Band background")
	fmt.Fprintln(w, "      --header-text-color <hex>")
	fmt.Fprintln(w, "      --no-header           Disable header")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Watermark:")
	fmt.Fprintln(w, "      --wm-url <url>        Watermark image (text fallback if unavailable)")
	fmt.Fprintln(w, "      --wm-opacity <f>      Opacity (0.0-1.0]")
	fmt.Fprintln(w, "      --no-watermark        Disable watermark")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed logs and timing")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfcompose doctor [--json] [--offline]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that Chrome can be found, the temp directory is writable,")
	fmt.Fprintln(w, "and the default watermark image is reachable.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Machine-readable output")
	fmt.Fprintln(w, "      --offline             Skip network checks")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "compose":
		printComposeUsage(env.Stdout)
	case "batch":
		printBatchUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: pdfcompose version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: pdfcompose help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
