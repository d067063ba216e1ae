package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-pdfcompose/internal/assets"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagValue flagType = iota // free-form value
	flagBool
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string
	Short    string
	Type     flagType
	Desc     string
	Values   []string // flagEnum
	FileGlob string   // flagFile, comma-separated
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	FilePattern string // glob for file arguments, "" when none are taken
}

// completionMeta holds completion hints the FlagSet cannot express.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

// flagCompletionMeta maps flag names to their completion metadata.
var flagCompletionMeta = map[string]completionMeta{
	"page-size":   {Values: []string{"a4", "letter", "legal"}},
	"orientation": {Values: []string{"portrait", "landscape"}},
	"layout":      {Values: []string{"reserve", "overpaint"}},
	"style":       {Values: assets.StyleNames()},

	"config":  {FileGlob: "*.yaml,*.yml"},
	"file":    {FileGlob: "*.pdf"},
	"capture": {FileGlob: "*.html,*.htm,*.md,*.markdown"},

	"output":     {IsDir: true},
	"asset-path": {IsDir: true},
}

// extractFlags lists the flags of fs enriched with flagCompletionMeta.
func extractFlags(fs *flag.FlagSet) []flagDef {
	var flags []flagDef
	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}
		if f.Value.Type() == "bool" {
			fd.Type = flagBool
		}
		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type, fd.Values = flagEnum, meta.Values
			case meta.FileGlob != "":
				fd.Type, fd.FileGlob = flagFile, meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}
		flags = append(flags, fd)
	})
	return flags
}

// getCommands returns the command registry. Flags come from the same
// FlagSets the commands parse with.
func getCommands() []commandDef {
	return []commandDef{
		{Name: "compose", Desc: "Compose one PDF", Flags: extractFlags(newComposeFlagSet("compose", &composeFlags{}, true))},
		{Name: "batch", Desc: "Rebuild several PDF files", Flags: extractFlags(newComposeFlagSet("batch", &composeFlags{}, false)), FilePattern: "*.pdf"},
		{Name: "doctor", Desc: "Check the environment", Flags: []flagDef{
			{Long: "json", Type: flagBool, Desc: "machine-readable output"},
			{Long: "offline", Type: flagBool, Desc: "skip network checks"},
		}},
		{Name: "version", Desc: "Show version information"},
		{Name: "help", Desc: "Show help for a command"},
		{Name: "completion", Desc: "Generate shell completion script"},
	}
}

// GenerateCompletion writes shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w, getCommands())
	case ShellZsh:
		return generateZsh(w, getCommands())
	case ShellFish:
		return generateFish(w, getCommands())
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

func commandNames(cmds []commandDef) string {
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return strings.Join(names, " ")
}

// flagWords lists every spelling of the flags, "--long" and "-s".
func flagWords(flags []flagDef) string {
	var words []string
	for _, f := range flags {
		words = append(words, "--"+f.Long)
		if f.Short != "" {
			words = append(words, "-"+f.Short)
		}
	}
	return strings.Join(words, " ")
}

func flagPattern(f flagDef) string {
	if f.Short != "" {
		return "--" + f.Long + "|-" + f.Short
	}
	return "--" + f.Long
}

func generateBash(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# bash completion for pdfcompose\n")
	b.WriteString("_pdfcompose() {\n")
	b.WriteString("    local cur=\"${COMP_WORDS[COMP_CWORD]}\" prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    if [[ $COMP_CWORD -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", commandNames(cmds))
	b.WriteString("        return\n    fi\n")
	b.WriteString("    case \"${COMP_WORDS[1]}\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n", c.Name)
		b.WriteString("        case \"$prev\" in\n")
		for _, f := range c.Flags {
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(&b, "            %s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", flagPattern(f), strings.Join(f.Values, " "))
			case flagFile:
				fmt.Fprintf(&b, "            %s) COMPREPLY=($(compgen -f -- \"$cur\")); return ;;\n", flagPattern(f))
			case flagDir:
				fmt.Fprintf(&b, "            %s) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n", flagPattern(f))
			case flagValue:
				fmt.Fprintf(&b, "            %s) return ;;\n", flagPattern(f))
			}
		}
		b.WriteString("        esac\n")
		if c.FilePattern != "" {
			b.WriteString("        if [[ \"$cur\" != -* ]]; then COMPREPLY=($(compgen -f -- \"$cur\")); return; fi\n")
		}
		fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", flagWords(c.Flags))
		b.WriteString("        ;;\n")
	}
	b.WriteString("    help)\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", commandNames(cmds))
	b.WriteString("        ;;\n")
	b.WriteString("    completion)\n")
	b.WriteString("        COMPREPLY=($(compgen -W \"bash zsh fish\" -- \"$cur\"))\n")
	b.WriteString("        ;;\n")
	b.WriteString("    esac\n}\n")
	b.WriteString("complete -F _pdfcompose pdfcompose\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// zshEscape makes s safe inside a single-quoted _arguments spec.
func zshEscape(s string) string {
	r := strings.NewReplacer("'", "'\\''", "[", "\\[", "]", "\\]", ":", "\\:")
	return r.Replace(s)
}

func zshAction(f flagDef) string {
	switch f.Type {
	case flagEnum:
		return ":value:(" + strings.Join(f.Values, " ") + ")"
	case flagFile:
		globs := strings.Split(f.FileGlob, ",")
		return ":file:_files -g \"" + strings.Join(globs, " ") + "\""
	case flagDir:
		return ":directory:_files -/"
	case flagValue:
		return ":value:"
	}
	return ""
}

func generateZsh(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("#compdef pdfcompose\n\n")
	b.WriteString("_pdfcompose() {\n")
	b.WriteString("    local -a commands\n    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n        _describe 'command' commands\n        return\n    fi\n\n")
	b.WriteString("    case \"$words[2]\" in\n")
	for _, c := range cmds {
		if len(c.Flags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "    %s)\n        _arguments \\\n", c.Name)
		for _, f := range c.Flags {
			spec := "[" + zshEscape(f.Desc) + "]" + zshAction(f)
			if f.Short != "" {
				fmt.Fprintf(&b, "            '(-%s --%s)'{-%s,--%s}'%s' \\\n", f.Short, f.Long, f.Short, f.Long, spec)
			} else {
				fmt.Fprintf(&b, "            '--%s%s' \\\n", f.Long, spec)
			}
		}
		if c.FilePattern != "" {
			fmt.Fprintf(&b, "            '*:file:_files -g \"%s\"'\n", c.FilePattern)
		} else {
			b.WriteString("            && return\n")
		}
		b.WriteString("        ;;\n")
	}
	b.WriteString("    completion)\n        _values 'shell' bash zsh fish\n        ;;\n")
	b.WriteString("    esac\n}\n\n")
	b.WriteString("_pdfcompose \"$@\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// fishEscape makes s safe inside a double-quoted fish string.
func fishEscape(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "\"", "\\\"", "$", "\\$")
	return r.Replace(s)
}

func generateFish(w io.Writer, cmds []commandDef) error {
	var b strings.Builder
	b.WriteString("# fish completion for pdfcompose\n")
	b.WriteString("complete -c pdfcompose -f\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "complete -c pdfcompose -n \"__fish_use_subcommand\" -a %s -d \"%s\"\n", c.Name, fishEscape(c.Desc))
	}
	for _, c := range cmds {
		cond := "__fish_seen_subcommand_from " + c.Name
		for _, f := range c.Flags {
			fmt.Fprintf(&b, "complete -c pdfcompose -n \"%s\" -l %s", cond, f.Long)
			if f.Short != "" {
				fmt.Fprintf(&b, " -s %s", f.Short)
			}
			switch f.Type {
			case flagEnum:
				fmt.Fprintf(&b, " -xa \"%s\"", strings.Join(f.Values, " "))
			case flagFile:
				b.WriteString(" -rF")
			case flagDir:
				b.WriteString(" -xa \"(__fish_complete_directories)\"")
			case flagValue:
				b.WriteString(" -x")
			}
			fmt.Fprintf(&b, " -d \"%s\"\n", fishEscape(f.Desc))
		}
		if c.FilePattern != "" {
			fmt.Fprintf(&b, "complete -c pdfcompose -n \"%s\" -F\n", cond)
		}
	}
	b.WriteString("complete -c pdfcompose -n \"__fish_seen_subcommand_from completion\" -xa \"bash zsh fish\"\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: pdfcompose completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:  eval \"$(pdfcompose completion bash)\"   # in ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:   eval \"$(pdfcompose completion zsh)\"    # in ~/.zshrc, before compinit")
	fmt.Fprintln(w, "  Fish:  pdfcompose completion fish > ~/.config/fish/completions/pdfcompose.fish")
}
