// Package cmd provides the command-line interface for rtrash
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"rtrash/internal/config"
	"rtrash/internal/filter"
	"rtrash/internal/model"
	"rtrash/internal/resolver"
	"rtrash/internal/trash"
	"rtrash/internal/utils"

	"github.com/schollz/progressbar/v3"
)

// Subcommands
const (
	cmdRemove = "remove"
	cmdEmpty  = "empty"
	cmdList   = "list"
	cmdHelp   = "help"
)

// options holds the parsed command line
type options struct {
	command    string
	targets    []string
	dryRun     bool
	verbose    bool
	noProgress bool

	// empty filters
	olderThan    string
	newerThan    string
	sizeFilter   string
	exclude      []string
	include      []string
	regexPattern string
}

// Execute runs the main CLI logic
func Execute() error {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		return err
	}

	if opts.command == cmdHelp {
		printHelp(os.Stdout)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	r, err := resolver.New(cfg)
	if err != nil {
		return err
	}

	mgr := trash.NewManager(cfg, r, trash.WithLogger(newLogger(opts.verbose)))

	switch opts.command {
	case cmdEmpty:
		return handleEmpty(os.Stdout, mgr, opts, cfg.ShowProgress)
	case cmdList:
		return handleList(os.Stdout, mgr)
	default:
		return handleRemove(os.Stdout, mgr, opts, cfg.ShowProgress)
	}
}

// newLogger logs diagnostics to stderr, debug level with -v
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// parseArgs parses command line arguments
func parseArgs(args []string) (*options, error) {
	opts := &options{command: cmdRemove}
	flagsDone := false

	for _, arg := range args {
		if flagsDone {
			opts.targets = append(opts.targets, arg)
			continue
		}

		switch {
		case arg == "--":
			flagsDone = true
		case arg == "-h" || arg == "--help":
			opts.command = cmdHelp
			return opts, nil
		case arg == "--dry":
			opts.dryRun = true
		case arg == "-v" || arg == "--verbose":
			opts.verbose = true
		case arg == "--no-progress":
			opts.noProgress = true
		case strings.HasPrefix(arg, "--older-than="):
			opts.olderThan = strings.TrimPrefix(arg, "--older-than=")
		case strings.HasPrefix(arg, "--newer-than="):
			opts.newerThan = strings.TrimPrefix(arg, "--newer-than=")
		case strings.HasPrefix(arg, "--size="):
			opts.sizeFilter = strings.TrimPrefix(arg, "--size=")
		case strings.HasPrefix(arg, "--exclude="):
			opts.exclude = append(opts.exclude, strings.TrimPrefix(arg, "--exclude="))
		case strings.HasPrefix(arg, "--include="):
			opts.include = append(opts.include, strings.TrimPrefix(arg, "--include="))
		case strings.HasPrefix(arg, "--regex="):
			opts.regexPattern = strings.TrimPrefix(arg, "--regex=")
		case strings.HasPrefix(arg, "-") && arg != "-":
			return nil, fmt.Errorf("unknown option: %s", arg)
		case len(opts.targets) == 0 && opts.command == cmdRemove && (arg == cmdEmpty || arg == cmdList):
			opts.command = arg
		default:
			opts.targets = append(opts.targets, arg)
		}
	}

	switch opts.command {
	case cmdRemove:
		if len(opts.targets) == 0 {
			opts.command = cmdHelp
		}
		if opts.hasFilters() {
			return nil, fmt.Errorf("filter options only apply to %q", cmdEmpty)
		}
	case cmdEmpty, cmdList:
		if len(opts.targets) > 0 {
			return nil, fmt.Errorf("%s takes no file arguments", opts.command)
		}
		if opts.dryRun {
			return nil, fmt.Errorf("--dry only applies to removing files")
		}
		if opts.command == cmdList && opts.hasFilters() {
			return nil, fmt.Errorf("filter options only apply to %q", cmdEmpty)
		}
	}

	return opts, nil
}

func (o *options) hasFilters() bool {
	return o.olderThan != "" || o.newerThan != "" || o.sizeFilter != "" ||
		len(o.exclude) > 0 || len(o.include) > 0 || o.regexPattern != ""
}

// createFilterOptions creates filter options from CLI flags
func createFilterOptions(opts *options, now time.Time) (*filter.Options, error) {
	f := &filter.Options{
		Exclude: opts.exclude,
		Include: opts.include,
	}

	// Parse older-than filter
	if opts.olderThan != "" {
		duration, err := utils.ParseDuration(opts.olderThan)
		if err != nil {
			return nil, fmt.Errorf("invalid --older-than value: %w", err)
		}
		cutoff := now.Add(-duration)
		f.OlderThan = &cutoff
	}

	// Parse newer-than filter
	if opts.newerThan != "" {
		duration, err := utils.ParseDuration(opts.newerThan)
		if err != nil {
			return nil, fmt.Errorf("invalid --newer-than value: %w", err)
		}
		cutoff := now.Add(-duration)
		f.NewerThan = &cutoff
	}

	// Parse size filter
	if opts.sizeFilter != "" {
		size, op, err := utils.ParseSizeFilter(opts.sizeFilter)
		if err != nil {
			return nil, fmt.Errorf("invalid --size value: %w", err)
		}
		f.SizeFilter = size
		f.SizeOp = op
	}

	// Compile regex pattern
	if opts.regexPattern != "" {
		re, err := regexp.Compile(opts.regexPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex pattern: %w", err)
		}
		f.Regex = re
	}

	return f, nil
}

// newProgressBar creates the bar shown while files are processed
func newProgressBar(out io.Writer, max int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(max,
		progressbar.OptionSetWriter(out),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// handleRemove moves the targets to trash, or prints the plan for --dry
func handleRemove(out io.Writer, mgr *trash.Manager, opts *options, showProgress bool) error {
	var bar *progressbar.ProgressBar
	if !opts.dryRun && showProgress && !opts.noProgress && !opts.verbose {
		bar = newProgressBar(out, len(opts.targets), "[cyan]Trashing[reset]")
	}

	result, err := mgr.Remove(opts.targets, opts.dryRun, func(model.Move, error) {
		if bar != nil {
			bar.Add(1)
		}
	})
	if bar != nil {
		bar.Finish()
		fmt.Fprintln(out)
	}
	if err != nil {
		return err
	}

	if opts.dryRun {
		fmt.Fprintln(out, "📋 DRY RUN - The following would be moved:")
		for _, mv := range result.Moves {
			fmt.Fprintf(out, "  %s -> %s\n", mv.Src, mv.Dest)
		}
		fmt.Fprintln(out, "\n✅ Dry run complete. No files were modified.")
		return nil
	}

	if opts.verbose {
		for _, mv := range result.Moves {
			fmt.Fprintf(out, "   %s -> %s\n", mv.Src, mv.Dest)
		}
	}

	fmt.Fprintf(out, "✅ Moved to trash: %d files\n", len(result.Moves))

	if len(result.Failed) > 0 {
		fmt.Fprintf(out, "⚠️  Errors: %d\n", len(result.Failed))
		for _, f := range result.Failed {
			fmt.Fprintf(out, "   - %v\n", f)
		}
		return fmt.Errorf("%d of %d files could not be moved to trash", len(result.Failed), len(opts.targets))
	}

	if len(result.Moves) > 0 {
		fmt.Fprintf(out, "\n💡 Use '%s empty' to permanently delete trashed files.\n", filepath.Base(os.Args[0]))
	}

	return nil
}

// handleEmpty permanently deletes trashed items. There is no confirmation.
func handleEmpty(out io.Writer, mgr *trash.Manager, opts *options, showProgress bool) error {
	filterOpts, err := createFilterOptions(opts, time.Now())
	if err != nil {
		return fmt.Errorf("invalid filter options: %w", err)
	}

	count, size, err := mgr.Count(filterOpts)
	if err != nil {
		return err
	}

	if count == 0 {
		fmt.Fprintln(out, "🗑️  Nothing to delete in trash.")
		return nil
	}

	if filterOpts.IsEmpty() {
		fmt.Fprintf(out, "🗑️  Deleting all %d items (%s)\n", count, utils.FormatSize(size))
	} else {
		fmt.Fprintf(out, "🗑️  Deleting %d matching items (%s)\n", count, utils.FormatSize(size))
	}

	var bar *progressbar.ProgressBar
	if showProgress && !opts.noProgress && !opts.verbose {
		bar = newProgressBar(out, count, "[cyan]Deleting[reset]")
	}

	result, err := mgr.Empty(filterOpts, func(string, error) {
		if bar != nil {
			bar.Add(1)
		}
	})
	if bar != nil {
		bar.Finish()
		fmt.Fprintln(out)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "✅ Deleted %d items, freed %s\n", result.Removed, utils.FormatSize(result.BytesFreed))

	if len(result.Failed) > 0 {
		fmt.Fprintf(out, "⚠️  Errors: %d\n", len(result.Failed))
		for _, f := range result.Failed {
			fmt.Fprintf(out, "   - %v\n", f)
		}
		return fmt.Errorf("%d trashed items could not be deleted", len(result.Failed))
	}

	return nil
}

// handleList shows what's in the trash
func handleList(out io.Writer, mgr *trash.Manager) error {
	items, totalSize, err := mgr.List()
	if err != nil {
		return err
	}

	if len(items) == 0 {
		fmt.Fprintln(out, "🗑️  Trash is empty.")
		return nil
	}

	fmt.Fprintf(out, "🗑️  Trash contents (%d items, %s):\n\n", len(items), utils.FormatSize(totalSize))

	for i, item := range items {
		fmt.Fprintf(out, "%d. %s\n", i+1, item.Name)
		if item.OriginalPath != "" {
			fmt.Fprintf(out, "   Original: %s\n", item.OriginalPath)
		}
		fmt.Fprintf(out, "   Location: %s\n", item.TrashPath)
		fmt.Fprintf(out, "   Size: %s\n", utils.FormatSize(item.Size))
		if !item.TrashedAt.IsZero() {
			fmt.Fprintf(out, "   Trashed: %s\n", item.TrashedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Fprintln(out)
	}

	return nil
}

// printHelp displays help information
func printHelp(out io.Writer) {
	help := `
rtrash - move files to a per-volume trash instead of deleting them

USAGE:
    rtrash [OPTIONS] <paths>...
    rtrash empty [FILTERS]
    rtrash list

DESCRIPTION:
    Every file is moved into the .rtrash directory of the volume it lives on
    (or of your home directory), so trashing is always a rename and never a
    copy. Each run is recorded in ~/.rtrash/.history.

OPTIONS:
    -h, --help           Show this help message
    -v, --verbose        Show every move and debug logs
    --dry                Show what would be moved without moving anything
    --no-progress        Do not draw a progress bar
    --                   Treat the remaining arguments as paths

COMMANDS:
    empty                Permanently delete everything in trash except the
                         history. There is no confirmation.
    list                 Show what's in the trash

EMPTY FILTERS:
    --older-than=<dur>   Only items trashed longer ago than dur (e.g. 30d, 24h)
    --newer-than=<dur>   Only items trashed within dur
    --size=<size>        Filter by size (+100MB for >100MB, -1GB for <1GB)
    --exclude=<pattern>  Keep items whose original name matches pattern
    --include=<pattern>  Only items whose original name matches pattern
    --regex=<pattern>    Only items whose original name matches regex

CONFIGURATION:
    ~/.config/rtrash/config.yaml
        mtab_path: /etc/mtab
        progress: true
        protected_paths:
          - ~/important

NOTES:
    Running several rtrash processes at once is not supported and can lose
    history entries.
`
	fmt.Fprintln(out, help)
}
