package cmd

import (
	"errors"
	"fmt"
)

var errUnknownShell = errors.New("unknown shell, supported: bash, zsh, fish")

// Completion outputs shell completion scripts
func Completion(shell string) error {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		return fmt.Errorf("%w: %s", errUnknownShell, shell)
	}
	return nil
}

const bashCompletion = `_profilevault() {
    local cur prev words cword
    _init_completion || return

    local commands="set show status rotate wipe diff compact help completion"
    local common="-config -v -debug"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    case "$prev" in
        -config|-file)
            _filedir
            return
            ;;
        -class-year)
            COMPREPLY=($(compgen -W "First-Year Sophomore Junior Senior" -- "$cur"))
            return
            ;;
    esac

    local cmd="${words[1]}"
    case "$cmd" in
        set)
            COMPREPLY=($(compgen -W "$common -file -name -class-year -concentration -gpa -interests -cities -resume" -- "$cur"))
            ;;
        show)
            COMPREPLY=($(compgen -W "$common -json" -- "$cur"))
            ;;
        wipe)
            COMPREPLY=($(compgen -W "$common -force -all" -- "$cur"))
            ;;
        diff)
            if [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "$common" -- "$cur"))
            else
                _filedir json
            fi
            ;;
        status|rotate|compact)
            COMPREPLY=($(compgen -W "$common" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

complete -F _profilevault profilevault
`

const zshCompletion = `#compdef profilevault

_profilevault() {
    local -a commands
    commands=(
        'set:Create or update the encrypted profile'
        'show:Decrypt and print the profile'
        'status:Show vault location and state'
        'rotate:Re-encrypt the profile under a new key'
        'wipe:Delete the profile and its key'
        'diff:Compare the stored profile with a JSON file'
        'compact:Compact the vault database'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    local -a common
    common=(
        '-config[Config file]:file:_files'
        '-v[Verbose output]'
        '-debug[Debug output]'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'profilevault commands' commands
            ;;
        args)
            case "${words[2]}" in
                set)
                    _arguments $common \
                        '-file[JSON profile file]:file:_files' \
                        '-name[Full name]:name:' \
                        '-class-year[Class year]:year:(First-Year Sophomore Junior Senior)' \
                        '-concentration[Field of study]:concentration:' \
                        '-gpa[GPA]:gpa:' \
                        '-interests[Interests]:interests:' \
                        '-cities[Preferred cities]:cities:' \
                        '-resume[Has a resume]'
                    ;;
                show)
                    _arguments $common '-json[Print as JSON]'
                    ;;
                wipe)
                    _arguments $common '-force[Do not ask for confirmation]' '-all[Clear every entry in the backend]'
                    ;;
                diff)
                    _arguments $common '1:file:_files -g "*.json"'
                    ;;
                status|rotate|compact)
                    _arguments $common
                    ;;
                help)
                    _describe -t commands 'profilevault commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_profilevault "$@"
`

const fishCompletion = `# profilevault fish completions

set -l commands set show status rotate wipe diff compact help completion

complete -c profilevault -f

# Commands
complete -c profilevault -n "not __fish_seen_subcommand_from $commands" -a set -d 'Create or update the profile'
complete -c profilevault -n "not __fish_seen_subcommand_from $commands" -a show -d 'Print the profile'
complete -c profilevault -n "not __fish_seen_subcommand_from $commands" -a status -d 'Show vault state'
complete -c profilevault -n "not __fish_seen_subcommand_from $commands" -a rotate -d 'Rotate the vault key'
complete -c profilevault -n "not __fish_seen_subcommand_from $commands" -a wipe -d 'Delete profile and key'
complete -c profilevault -n "not __fish_seen_subcommand_from $commands" -a diff -d 'Compare with a JSON file'
complete -c profilevault -n "not __fish_seen_subcommand_from $commands" -a compact -d 'Compact the database'
complete -c profilevault -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c profilevault -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# Common flags
complete -c profilevault -n "__fish_seen_subcommand_from $commands" -o config -r -F -d 'Config file'
complete -c profilevault -n "__fish_seen_subcommand_from $commands" -o v -d 'Verbose output'
complete -c profilevault -n "__fish_seen_subcommand_from $commands" -o debug -d 'Debug output'

# set flags
complete -c profilevault -n "__fish_seen_subcommand_from set" -o file -r -F -d 'JSON profile file'
complete -c profilevault -n "__fish_seen_subcommand_from set" -o name -r -d 'Full name'
complete -c profilevault -n "__fish_seen_subcommand_from set" -o class-year -r -a "First-Year Sophomore Junior Senior" -d 'Class year'
complete -c profilevault -n "__fish_seen_subcommand_from set" -o concentration -r -d 'Field of study'
complete -c profilevault -n "__fish_seen_subcommand_from set" -o gpa -r -d 'GPA'
complete -c profilevault -n "__fish_seen_subcommand_from set" -o interests -r -d 'Interests'
complete -c profilevault -n "__fish_seen_subcommand_from set" -o cities -r -d 'Preferred cities'
complete -c profilevault -n "__fish_seen_subcommand_from set" -o resume -d 'Has a resume'

# show, wipe, diff
complete -c profilevault -n "__fish_seen_subcommand_from show" -o json -d 'Print as JSON'
complete -c profilevault -n "__fish_seen_subcommand_from wipe" -o force -d 'Do not ask for confirmation'
complete -c profilevault -n "__fish_seen_subcommand_from wipe" -o all -d 'Clear every entry in the backend'
complete -c profilevault -n "__fish_seen_subcommand_from diff" -F

# help completions
complete -c profilevault -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c profilevault -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
