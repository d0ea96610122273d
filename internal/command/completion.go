// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/ccitool/ccitool/internal/meta"
)

const bashCompletionScript = `# bash completion for ccitool
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_ccitool()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    if [[ ${COMP_CWORD} -eq 1 ]]; then
        COMPREPLY=( $(compgen -W "submit view serve build-edit completion --help --version" -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    local links="--page-base --diff-base --no-filters"
    local sources="--aws-profile --aws-region --path-style --no-cache"

    case "$cmd" in
        submit)
            local opts="--api --user -u --password --dry-run -n --pick -p"
            ;;
        view)
            local opts="--culled --live --filter -f --output -o --out --title --color -c --padding --sort -s $links $sources"
            ;;
        serve)
            local opts="--addr --root $links $sources"
            ;;
        build-edit)
            local opts="--api --case --case-page --out --report-link $sources"
            ;;
        completion)
            local opts="bash zsh"
            COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
            return 0
            ;;
        *)
            local opts=""
            ;;
    esac

    if [[ "$prev" == "--output" || "$prev" == "-o" ]]; then
        COMPREPLY=( $(compgen -W "html text json yaml" -- "$cur") )
        return 0
    fi

    if [[ "$prev" == "--root" ]]; then
        COMPREPLY=( $(compgen -o dirnames -- "$cur") )
        return 0
    fi

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Positional arguments are edit files or payload paths.
    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -o filenames -F _ccitool ccitool
`

const zshCompletionScript = `#compdef ccitool

_ccitool() {
  local -a cmds
  cmds=(
    'submit:apply saved cull edits to case pages'
    'view:render a cull payload'
    'serve:serve cull payloads as HTML reports'
    'build-edit:build the case page edit for a cull payload'
    'completion:generate shell completion script'
  )

  local -a links sources
  links=(
  '--page-base[URL prefix for page links]:url'
  '--diff-base[URL prefix for diff links]:url'
  '--no-filters[omit the live/culled checkboxes]'
  )
  sources=(
  '--aws-profile[shared config profile]:profile'
  '--aws-region[region]:region'
  '--path-style[path-style S3 addressing]'
  '--no-cache[bypass the payload cache]'
  )

  if (( CURRENT == 2 )); then
    _describe -t commands 'ccitool commands' cmds
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    submit)
      _arguments -C \
        '--api[api.php endpoint]:url' \
        '(-u --user)'{-u,--user}'[bot password user]:user' \
        '--password[bot password]:password' \
        '(-n --dry-run)'{-n,--dry-run}'[show diffs instead of saving]' \
        '(-p --pick)'{-p,--pick}'[choose edits interactively]' \
        '*:edit file:_files -g "*.json"'
      ;;
    view)
      _arguments -C \
        $links \
        $sources \
        '--culled[show autocull lines]' \
        '--live[show live lines]' \
        '(-f --filter)'{-f,--filter}'[edit filters]:filter' \
        '(-o --output)'{-o,--output}'[output format]:format:(html text json yaml)' \
        '--out[output file]:file:_files' \
        '--title[report title]:title' \
        '(-c --color)'{-c,--color}'[enable colored text]' \
        '--padding[column padding]:padding' \
        '(-s --sort)'{-s,--sort}'[sort stats columns]:columns' \
        '1:payload:_files'
      ;;
    serve)
      _arguments -C \
        $links \
        $sources \
        '--addr[listen address]:address' \
        '--root[payload root]:root:_directories'
      ;;
    build-edit)
      _arguments -C \
        $sources \
        '--api[api.php endpoint]:url' \
        '--case[case name]:name' \
        '--case-page[case page number]:page' \
        '--out[output file]:file:_files' \
        '--report-link[report link for the summary]:link' \
        '1:payload:_files'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys
# is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _ccitool ccitool
`

func completionCommandAction(ctx context.Context, cmd *cli.Command) error {
	w := stdout(cmd)

	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		// Try to detect from SHELL or print usage.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			fmt.Fprint(w, zshCompletionScript)
		case strings.HasSuffix(sh, "bash"):
			fmt.Fprint(w, bashCompletionScript)
		default:
			fmt.Fprintln(os.Stderr, "usage: ccitool completion [bash|zsh]")
			return nil
		}
	}
	return nil
}

func completionCommandBuilder(meta meta.Meta) *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "ccitool completion [bash|zsh]",
		Metadata: map[string]any{
			"meta": meta,
		},
		Action: completionCommandAction,
	}
}
