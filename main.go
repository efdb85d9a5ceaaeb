package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/awnumar/memguard"
	"github.com/illarion/profilevault/cmd"
)

func main() {
	memguard.CatchInterrupt()
	os.Exit(run())
}

// run dispatches the command and returns the exit code. Deferred cleanup
// runs before main exits.
func run() int {
	// Wipe guarded key memory on return
	defer memguard.Purge()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		return 1
	}

	var err error
	switch os.Args[1] {
	case "set":
		err = runSet(ctx, os.Args[2:])
	case "show":
		err = runShow(ctx, os.Args[2:])
	case "status":
		err = runStatus(ctx, os.Args[2:])
	case "rotate":
		err = runRotate(ctx, os.Args[2:])
	case "wipe":
		err = runWipe(ctx, os.Args[2:])
	case "diff":
		err = runDiff(ctx, os.Args[2:])
	case "compact":
		err = runCompact(ctx, os.Args[2:])
	case "completion":
		err = runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return 0
		}
		if !printCommandHelp(os.Args[2]) {
			return 1
		}
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		return 1
	}

	if errors.Is(err, errUsage) {
		return 1
	}
	if err != nil {
		cmd.HandleError(err)
		return 1
	}
	return 0
}

// errUsage means a usage message was already printed
var errUsage = errors.New("usage")

func usage(line string) error {
	fmt.Fprintln(os.Stderr, "Usage: "+line)
	return errUsage
}

// commonFlags registers -config, -v and -debug on fs
func commonFlags(fs *flag.FlagSet) *cmd.Options {
	opts := &cmd.Options{}
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to config file")
	fs.BoolVar(&opts.Verbose, "v", false, "Verbose output")
	fs.BoolVar(&opts.Debug, "debug", false, "Debug output")
	return opts
}

func runSet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("set", flag.ContinueOnError)
	opts := commonFlags(fs)
	file := fs.String("file", "", "Read the profile from a JSON file")
	fs.String(cmd.FieldName, "", "Full name")
	fs.String(cmd.FieldClassYear, "", "Class year: First-Year, Sophomore, Junior or Senior")
	fs.String(cmd.FieldConcentration, "", "Field of study")
	fs.String(cmd.FieldGPA, "", "GPA between 0 and 4.0")
	fs.String(cmd.FieldInterests, "", "Interests")
	fs.String(cmd.FieldCities, "", "Comma-separated preferred cities")
	fs.Bool(cmd.FieldResume, false, "Has a resume")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	// Only flags given on the command line overlay the profile
	fields := make(map[string]string)
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "file", "config", "v", "debug":
			return
		}
		fields[f.Name] = f.Value.String()
	})

	if *file == "" && len(fields) == 0 {
		return usage("profilevault set [-file profile.json] [-name ...] [-class-year ...]")
	}

	return cmd.Set(ctx, *opts, *file, fields)
}

func runShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	opts := commonFlags(fs)
	asJSON := fs.Bool("json", false, "Print the profile as JSON")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	return cmd.Show(ctx, *opts, *asJSON)
}

func runStatus(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	opts := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	return cmd.Status(ctx, *opts)
}

func runRotate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rotate", flag.ContinueOnError)
	opts := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	return cmd.Rotate(ctx, *opts)
}

func runWipe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("wipe", flag.ContinueOnError)
	opts := commonFlags(fs)
	force := fs.Bool("force", false, "Wipe without confirmation")
	all := fs.Bool("all", false, "Clear every entry in the backend")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	return cmd.Wipe(ctx, *opts, *force, *all)
}

func runDiff(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("diff", flag.ContinueOnError)
	opts := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if fs.NArg() != 1 {
		return usage("profilevault diff <profile.json>")
	}
	return cmd.Diff(ctx, *opts, fs.Arg(0))
}

func runCompact(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("compact", flag.ContinueOnError)
	opts := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	return cmd.Compact(ctx, *opts)
}

func runCompletion(_ context.Context, args []string) error {
	if len(args) < 1 {
		return usage("profilevault completion <bash|zsh|fish>")
	}
	return cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("profilevault - Encrypted local storage for your student profile")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  profilevault <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  set         Create or update the encrypted profile")
	fmt.Println("  show        Decrypt and print the profile")
	fmt.Println("  status      Show vault location and state")
	fmt.Println("  rotate      Re-encrypt the profile under a new key")
	fmt.Println("  wipe        Delete the profile and its key")
	fmt.Println("  diff        Compare the stored profile with a JSON file")
	fmt.Println("  compact     Compact the vault database")
	fmt.Println("  completion  Generate shell completions")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  profilevault set -file me.json               # Seal a profile from JSON")
	fmt.Println("  profilevault set -gpa 3.7                    # Update one field")
	fmt.Println("  profilevault show                            # Print the profile")
	fmt.Println("  profilevault wipe -force                     # Remove everything")
	fmt.Println()
	fmt.Println("Use 'profilevault help <command>' for more information about a command.")
}

// printCommandHelp reports false for an unknown command
func printCommandHelp(command string) bool {
	switch command {
	case "set":
		fmt.Println("profilevault set [-file profile.json] [field flags]")
		fmt.Println()
		fmt.Println("Create or update the profile and seal it in the vault.")
		fmt.Println("The stored profile is the starting point, -file replaces it and")
		fmt.Println("field flags overlay the result.")
		fmt.Println()
		fmt.Println("Options:")
		fmt.Println("  -file PATH           JSON profile file")
		fmt.Println("  -name NAME           Full name (required)")
		fmt.Println("  -class-year YEAR     First-Year, Sophomore, Junior or Senior")
		fmt.Println("  -concentration TEXT  Field of study")
		fmt.Println("  -gpa NUMBER          GPA between 0 and 4.0")
		fmt.Println("  -interests TEXT      Interests")
		fmt.Println("  -cities LIST         Comma-separated preferred cities")
		fmt.Println("  -resume              Has a resume")
	case "show":
		fmt.Println("profilevault show [-json]")
		fmt.Println()
		fmt.Println("Decrypt and print the stored profile.")
		fmt.Println("If the vault cannot be decrypted, nothing is printed and the")
		fmt.Println("command fails; use 'profilevault wipe' to start over.")
	case "status":
		fmt.Println("profilevault status")
		fmt.Println()
		fmt.Println("Show the backend, cipher and vault state. Nothing is decrypted.")
	case "rotate":
		fmt.Println("profilevault rotate")
		fmt.Println()
		fmt.Println("Generate a new key and re-encrypt the stored profile with it.")
		fmt.Println("Copies of the old envelope cannot be opened afterwards.")
	case "wipe":
		fmt.Println("profilevault wipe [-force] [-all]")
		fmt.Println()
		fmt.Println("Delete the stored profile, its marker and the vault key.")
		fmt.Println("With -all every entry in the backend is removed.")
		fmt.Println("Asks for confirmation on a terminal; -force is required otherwise.")
	case "diff":
		fmt.Println("profilevault diff <profile.json>")
		fmt.Println()
		fmt.Println("Show line differences between the stored profile and a JSON file.")
	case "compact":
		fmt.Println("profilevault compact")
		fmt.Println()
		fmt.Println("Rewrite the bolt database to reclaim space left by deleted data.")
	case "completion":
		fmt.Println("profilevault completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Print a shell completion script.")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		return false
	}
	fmt.Println()
	fmt.Println("Common options:")
	fmt.Println("  -config PATH  Config file (default $PROFILEVAULT_CONFIG or ~/.config/profilevault/config.toml)")
	fmt.Println("  -v            Verbose output")
	fmt.Println("  -debug        Debug output")
	return true
}
