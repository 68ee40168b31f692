package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash       Shell = "bash"
	ShellZsh        Shell = "zsh"
	ShellFish       Shell = "fish"
	ShellPowerShell Shell = "powershell"
)

var supportedShells = []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// flagType represents the completion type for a flag.
type flagType int

const (
	flagString flagType = iota // default
	flagBool
	flagNumber
	flagEnum // has predefined values
	flagFile // file with glob pattern
	flagDir  // directory
)

// flagDef describes a flag for completion purposes.
type flagDef struct {
	Long     string   // --output-dir
	Short    string   // -o (empty if none)
	Type     flagType // completion type
	Desc     string   // help text
	Values   []string // for enum flags
	FileGlob string   // for file flags, comma separated
}

// commandDef describes a command for completion.
type commandDef struct {
	Name        string
	Desc        string
	Flags       []flagDef
	Args        []string // fixed positional values
	FilePattern string   // glob for file arguments, comma separated
}

// completionMeta holds the completion hints a FlagSet cannot carry.
type completionMeta struct {
	Values   []string
	FileGlob string
	IsDir    bool
}

// urlListGlob matches the URL list formats convert reads.
const urlListGlob = "*.txt,*.md,*.markdown,*.list"

var flagCompletionMeta = map[string]completionMeta{
	"page-size":   {Values: []string{"a4", "letter", "legal"}},
	"config":      {FileGlob: "*.yaml,*.yml"},
	"output-dir":  {IsDir: true},
	"browser-bin": {FileGlob: "*"},
}

// buildConvertFlagSet registers the convert flags the same way
// parseConvertFlags does.
func buildConvertFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet(cmdConvert, flag.ContinueOnError)
	f := &convertFlags{}
	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.output)
	addBrowserFlags(fs, &f.browser)
	addTimeoutFlags(fs, &f.timeouts)
	addPageFlags(fs, &f.page)
	fs.BoolVar(&f.noMerge, "no-merge", false, "convert only, skip the merge step")
	return fs
}

// buildMergeFlagSet registers the merge flags the same way
// parseMergeFlags does.
func buildMergeFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet(cmdMerge, flag.ContinueOnError)
	f := &mergeFlags{}
	addCommonFlags(fs, &f.common)
	addOutputFlags(fs, &f.output)
	return fs
}

// extractFlagsFromFlagSet turns fs into flag definitions enriched with
// flagCompletionMeta.
func extractFlagsFromFlagSet(fs *flag.FlagSet) []flagDef {
	var flags []flagDef

	fs.VisitAll(func(f *flag.Flag) {
		fd := flagDef{Long: f.Name, Short: f.Shorthand, Desc: f.Usage}

		switch f.Value.Type() {
		case "bool":
			fd.Type = flagBool
		case "int", "int64", "uint", "uint64", "float32", "float64", "duration":
			fd.Type = flagNumber
		default:
			fd.Type = flagString
		}

		if meta, ok := flagCompletionMeta[f.Name]; ok {
			switch {
			case len(meta.Values) > 0:
				fd.Type = flagEnum
				fd.Values = meta.Values
			case meta.FileGlob != "":
				fd.Type = flagFile
				fd.FileGlob = meta.FileGlob
			case meta.IsDir:
				fd.Type = flagDir
			}
		}

		flags = append(flags, fd)
	})

	return flags
}

// getCommands returns the command registry for completion.
func getCommands() []commandDef {
	return []commandDef{
		{
			Name:        cmdConvert,
			Desc:        "Convert a URL list to PDFs and merge them",
			Flags:       extractFlagsFromFlagSet(buildConvertFlagSet()),
			FilePattern: urlListGlob,
		},
		{
			Name:  cmdMerge,
			Desc:  "Merge the PDFs already in the output directory",
			Flags: extractFlagsFromFlagSet(buildMergeFlagSet()),
		},
		{
			Name:  cmdDoctor,
			Desc:  "Check browser and environment",
			Flags: []flagDef{{Long: "json", Type: flagBool, Desc: "machine-readable output"}},
		},
		{Name: cmdVersion, Desc: "Show version information"},
		{
			Name: cmdHelp,
			Desc: "Show help for a command",
			Args: []string{cmdConvert, cmdMerge, cmdDoctor, cmdVersion, cmdCompletion},
		},
		{
			Name: cmdCompletion,
			Desc: "Generate shell completion script",
			Args: supportedShells,
		},
	}
}

// GenerateCompletion writes the completion script for shell to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	var gen func(*strings.Builder, []commandDef)
	switch shell {
	case ShellBash:
		gen = generateBash
	case ShellZsh:
		gen = generateZsh
	case ShellFish:
		gen = generateFish
	case ShellPowerShell:
		gen = generatePowerShell
	default:
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedShell, shell, strings.Join(supportedShells, ", "))
	}

	var b strings.Builder
	gen(&b, getCommands())
	_, err := io.WriteString(w, b.String())
	return err
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// runCompletionCmd runs the completion command and returns an exit code.
func runCompletionCmd(args []string, env *Environment) int {
	if err := runCompletion(args, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: web2pdf completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for the specified shell.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Supported shells:")
	fmt.Fprintln(w, "  bash        Bash completion script")
	fmt.Fprintln(w, "  zsh         Zsh completion script")
	fmt.Fprintln(w, "  fish        Fish completion script")
	fmt.Fprintln(w, "  powershell  PowerShell completion script")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Bash:")
	fmt.Fprintln(w, "    # Add to ~/.bashrc:")
	fmt.Fprintln(w, "    eval \"$(web2pdf completion bash)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Zsh:")
	fmt.Fprintln(w, "    # Add to ~/.zshrc (before compinit):")
	fmt.Fprintln(w, "    eval \"$(web2pdf completion zsh)\"")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  Fish:")
	fmt.Fprintln(w, "    web2pdf completion fish > ~/.config/fish/completions/web2pdf.fish")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  PowerShell:")
	fmt.Fprintln(w, "    # Add to $PROFILE:")
	fmt.Fprintln(w, "    web2pdf completion powershell | Out-String | Invoke-Expression")
}

// ---------------------------------------------------------------------------
// Shell generators
// ---------------------------------------------------------------------------

func commandNames(cmds []commandDef) string {
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name)
	}
	return strings.Join(names, " ")
}

// globExtensions turns "*.yaml,*.yml" into ["yaml", "yml"].
// A bare "*" yields nothing.
func globExtensions(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		if ext := strings.TrimPrefix(strings.TrimSpace(g), "*."); ext != "" && ext != "*" {
			exts = append(exts, ext)
		}
	}
	return exts
}

// quoteSingle escapes s for a single-quoted shell word.
func quoteSingle(s string) string {
	return strings.ReplaceAll(s, "'", `'\''`)
}

func bashFileCompgen(glob string) string {
	exts := globExtensions(glob)
	if len(exts) == 0 {
		return `compgen -f -- "$cur"`
	}
	return fmt.Sprintf(`compgen -f -X '!*.@(%s)' -- "$cur"`, strings.Join(exts, "|"))
}

func generateBash(b *strings.Builder, cmds []commandDef) {
	b.WriteString("# bash completion for web2pdf\n\n")
	b.WriteString("_web2pdf_completions() {\n")
	b.WriteString("    local cur prev cmd\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    cmd=\"${COMP_WORDS[1]}\"\n\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 && \"$cur\" != -* ]]; then\n")
	fmt.Fprintf(b, "        COMPREPLY=( $(compgen -W \"%s\" -- \"$cur\") )\n", commandNames(cmds))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	// Without a command name, arguments go to convert, so its branch is
	// the catch-all and must come last.
	ordered := make([]commandDef, 0, len(cmds))
	var convert []commandDef
	for _, c := range cmds {
		if c.Name == cmdConvert {
			convert = append(convert, c)
			continue
		}
		ordered = append(ordered, c)
	}
	ordered = append(ordered, convert...)

	for _, c := range ordered {
		pattern := c.Name
		if c.Name == cmdConvert {
			pattern = "*"
		}
		fmt.Fprintf(b, "    %s)\n", pattern)

		var valueCases, longs []string
		for _, f := range c.Flags {
			names := "--" + f.Long
			longs = append(longs, "--"+f.Long)
			if f.Short != "" {
				names += "|-" + f.Short
			}
			switch f.Type {
			case flagEnum:
				valueCases = append(valueCases, fmt.Sprintf("%s) COMPREPLY=( $(compgen -W \"%s\" -- \"$cur\") ); return ;;", names, strings.Join(f.Values, " ")))
			case flagFile:
				valueCases = append(valueCases, fmt.Sprintf("%s) COMPREPLY=( $(%s) ); return ;;", names, bashFileCompgen(f.FileGlob)))
			case flagDir:
				valueCases = append(valueCases, fmt.Sprintf("%s) COMPREPLY=( $(compgen -d -- \"$cur\") ); return ;;", names))
			case flagString, flagNumber:
				valueCases = append(valueCases, fmt.Sprintf("%s) return ;;", names))
			}
		}
		if len(valueCases) > 0 {
			b.WriteString("        case \"$prev\" in\n")
			for _, vc := range valueCases {
				fmt.Fprintf(b, "        %s\n", vc)
			}
			b.WriteString("        esac\n")
		}
		if len(longs) > 0 {
			b.WriteString("        if [[ \"$cur\" == -* ]]; then\n")
			fmt.Fprintf(b, "            COMPREPLY=( $(compgen -W \"%s\" -- \"$cur\") )\n", strings.Join(longs, " "))
			b.WriteString("            return\n")
			b.WriteString("        fi\n")
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(b, "        COMPREPLY=( $(compgen -W \"%s\" -- \"$cur\") )\n", strings.Join(c.Args, " "))
		case c.FilePattern != "":
			fmt.Fprintf(b, "        COMPREPLY=( $(%s) )\n", bashFileCompgen(c.FilePattern))
		}
		b.WriteString("        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -o filenames -o bashdefault -F _web2pdf_completions web2pdf\n")
}

// zshDesc makes s safe inside a single-quoted _arguments [description].
func zshDesc(s string) string {
	s = strings.NewReplacer("[", "(", "]", ")", ":", " -").Replace(s)
	return quoteSingle(s)
}

func zshAction(f flagDef) string {
	switch f.Type {
	case flagEnum:
		return fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		if exts := globExtensions(f.FileGlob); len(exts) > 0 {
			return fmt.Sprintf(`:file:_files -g "*.(%s)"`, strings.Join(exts, "|"))
		}
		return ":file:_files"
	case flagDir:
		return ":directory:_files -/"
	case flagString, flagNumber:
		return fmt.Sprintf(":%s: ", f.Long)
	}
	return ""
}

func generateZsh(b *strings.Builder, cmds []commandDef) {
	b.WriteString("#compdef web2pdf\n\n")
	b.WriteString("_web2pdf() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range cmds {
		fmt.Fprintf(b, "        '%s:%s'\n", c.Name, quoteSingle(c.Desc))
	}
	b.WriteString("    )\n\n")
	b.WriteString("    if (( CURRENT == 2 )) && [[ \"${words[CURRENT]}\" != -* ]]; then\n")
	b.WriteString("        _describe -t commands 'web2pdf command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    local cmd=\"${words[2]}\"\n")
	b.WriteString("    if (( ${commands[(I)${cmd}:*]} )); then\n")
	b.WriteString("        shift words\n")
	b.WriteString("        (( CURRENT-- ))\n")
	b.WriteString("    else\n")
	b.WriteString("        cmd=convert\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    case \"$cmd\" in\n")

	for _, c := range cmds {
		fmt.Fprintf(b, "    %s)\n", c.Name)
		b.WriteString("        _arguments -s")
		for _, f := range c.Flags {
			spec := fmt.Sprintf("--%s[%s]%s", f.Long, zshDesc(f.Desc), zshAction(f))
			if f.Short != "" {
				spec = fmt.Sprintf("(-%s --%s)'{-%s,--%s}'[%s]%s", f.Short, f.Long, f.Short, f.Long, zshDesc(f.Desc), zshAction(f))
			}
			fmt.Fprintf(b, " \\\n            '%s'", spec)
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(b, " \\\n            '1:%s:(%s)'", c.Name, strings.Join(c.Args, " "))
		case c.FilePattern != "":
			fmt.Fprintf(b, " \\\n            '*:url list:_files -g \"*.(%s)\"'", strings.Join(globExtensions(c.FilePattern), "|"))
		}
		b.WriteString("\n        ;;\n")
	}

	b.WriteString("    esac\n")
	b.WriteString("}\n\n")
	b.WriteString("_web2pdf \"$@\"\n")
}

func generateFish(b *strings.Builder, cmds []commandDef) {
	b.WriteString("# fish completion for web2pdf\n\n")
	b.WriteString("function __fish_web2pdf_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_web2pdf_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and test \"$cmd[2]\" = \"$argv[1]\"\n")
	b.WriteString("end\n\n")
	b.WriteString("complete -c web2pdf -f\n")

	for _, c := range cmds {
		fmt.Fprintf(b, "complete -c web2pdf -n __fish_web2pdf_needs_command -a %s -d '%s'\n", c.Name, quoteSingle(c.Desc))
	}

	for _, c := range cmds {
		cond := fmt.Sprintf("'__fish_web2pdf_using_command %s'", c.Name)
		b.WriteString("\n")
		for _, f := range c.Flags {
			line := fmt.Sprintf("complete -c web2pdf -n %s", cond)
			if f.Short != "" {
				line += " -s " + f.Short
			}
			line += " -l " + f.Long
			switch f.Type {
			case flagEnum:
				line += fmt.Sprintf(" -x -a '%s'", strings.Join(f.Values, " "))
			case flagFile:
				exts := globExtensions(f.FileGlob)
				if len(exts) == 0 {
					line += " -r -F"
				} else {
					line += fmt.Sprintf(" -x -a '(__fish_complete_suffix .%s)'", strings.Join(exts, " ."))
				}
			case flagDir:
				line += " -x -a '(__fish_complete_directories)'"
			case flagString, flagNumber:
				line += " -x"
			}
			line += fmt.Sprintf(" -d '%s'\n", quoteSingle(f.Desc))
			b.WriteString(line)
		}
		switch {
		case len(c.Args) > 0:
			fmt.Fprintf(b, "complete -c web2pdf -n %s -a '%s'\n", cond, strings.Join(c.Args, " "))
		case c.FilePattern != "":
			fmt.Fprintf(b, "complete -c web2pdf -n %s -a '(__fish_complete_suffix .%s)'\n",
				cond, strings.Join(globExtensions(c.FilePattern), " ."))
		}
	}
}

// psQuote escapes s for a PowerShell single-quoted string.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func generatePowerShell(b *strings.Builder, cmds []commandDef) {
	b.WriteString("# powershell completion for web2pdf\n\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName web2pdf -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $commands = [ordered]@{\n")
	for _, c := range cmds {
		fmt.Fprintf(b, "        %s = %s\n", psQuote(c.Name), psQuote(c.Desc))
	}
	b.WriteString("    }\n")
	b.WriteString("    $flags = @{\n")
	for _, c := range cmds {
		items := make([]string, 0, len(c.Flags))
		for _, f := range c.Flags {
			items = append(items, psQuote("--"+f.Long))
		}
		fmt.Fprintf(b, "        %s = @(%s)\n", psQuote(c.Name), strings.Join(items, ", "))
	}
	b.WriteString("    }\n")
	b.WriteString("    $values = @{\n")
	for _, c := range cmds {
		if len(c.Args) > 0 {
			fmt.Fprintf(b, "        %s = @(%s)\n", psQuote(c.Name), psQuoteList(c.Args))
		}
		for _, f := range c.Flags {
			if f.Type == flagEnum {
				fmt.Fprintf(b, "        %s = @(%s)\n", psQuote("--"+f.Long), psQuoteList(f.Values))
			}
		}
	}
	b.WriteString("    }\n\n")
	b.WriteString("    $elements = @($commandAst.CommandElements | ForEach-Object { $_.ToString() })\n")
	b.WriteString("    $count = $elements.Count\n")
	b.WriteString("    if ($wordToComplete) { $count-- }\n\n")
	b.WriteString("    if ($count -le 1 -and -not $wordToComplete.StartsWith('-')) {\n")
	b.WriteString("        $commands.GetEnumerator() | Where-Object { $_.Key -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_.Key, $_.Key, 'ParameterValue', $_.Value)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")
	b.WriteString("    $cmd = 'convert'\n")
	b.WriteString("    if ($elements.Count -gt 1 -and $commands.Contains($elements[1])) { $cmd = $elements[1] }\n")
	b.WriteString("    $prev = $elements[$count - 1]\n\n")
	b.WriteString("    $candidates = @()\n")
	b.WriteString("    $kind = 'ParameterValue'\n")
	b.WriteString("    if ($values.ContainsKey($prev)) {\n")
	b.WriteString("        $candidates = $values[$prev]\n")
	b.WriteString("    } elseif ($wordToComplete.StartsWith('-')) {\n")
	b.WriteString("        $candidates = $flags[$cmd]\n")
	b.WriteString("        $kind = 'ParameterName'\n")
	b.WriteString("    } elseif ($values.ContainsKey($cmd)) {\n")
	b.WriteString("        $candidates = $values[$cmd]\n")
	b.WriteString("    }\n")
	b.WriteString("    $candidates | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_, $_, $kind, $_)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
}

func psQuoteList(items []string) string {
	quoted := make([]string, 0, len(items))
	for _, s := range items {
		quoted = append(quoted, psQuote(s))
	}
	return strings.Join(quoted, ", ")
}
