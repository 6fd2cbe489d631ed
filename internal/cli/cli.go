package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Merge  *MergeCommand
	Sync   *SyncCommand
	Status *StatusCommand
	Fetch  *FetchCommand
	Prune  *PruneCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "snapsync"
	parser.LongDescription = "Keep local reference dataset stores synchronized with daily upstream id exports, deduplicated and crash-safe."

	cmds := &commands{
		Merge:  &MergeCommand{globals: &globals, version: version},
		Sync:   &SyncCommand{globals: &globals, version: version},
		Status: &StatusCommand{globals: &globals, version: version},
		Fetch:  &FetchCommand{globals: &globals, version: version},
		Prune:  &PruneCommand{globals: &globals, version: version},
	}

	parser.AddCommand("merge", "Merge one export into a store", "Fold one day's decompressed export into a domain's cumulative deduplicated store.", cmds.Merge)
	parser.AddCommand("sync", "Run the daily pipeline", "Run the daily pipeline for all configured domains: gate check, fetch, merge, audit.", cmds.Sync)
	parser.AddCommand("status", "Show store totals and recent runs", "Show per-domain store totals, recent run history, and the daily-gate state.", cmds.Status)
	parser.AddCommand("fetch", "Download one export", "Download and decompress one domain's daily export without merging it.", cmds.Fetch)
	parser.AddCommand("prune", "Clean up temporaries", "Remove orphaned merge temporaries and stale downloaded exports.", cmds.Prune)

	return parser, &globals, cmds
}

// Run is the main entry point for the snapsync CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the
// matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("snapsync %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
