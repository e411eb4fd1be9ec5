package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/viniciusth/fmindex"
	"github.com/viniciusth/fmindex/internal/config"
	"github.com/viniciusth/fmindex/internal/textload"
)

var (
	app = kingpin.New("fmindex", "Build an FM-index over a text and search it")

	searchCmd = app.Command("search", "Encode a text, verify decoding and search patterns").Default()
	bwtCmd    = app.Command("bwt", "Print the Burrows-Wheeler transform of a text")
)

var appArgs = struct {
	verbose    *bool
	configPath *string
	saStep     *int
	tallyStep  *int
	normalize  *bool
	skipHeader *bool
}{
	app.Flag("verbose", "Log every build stage").Short('v').Bool(),
	app.Flag("config", "TOML file with sa_step, tally_step and patterns").Short('c').ExistingFile(),
	app.Flag("sa-step", "Suffix array checkpoint step (asked when missing)").Int(),
	app.Flag("tally-step", "Tally checkpoint step (asked when missing)").Int(),
	app.Flag("normalize", "Normalize the text to NFC before indexing").Bool(),
	app.Flag("skip-header", "Drop the first line of the input file").Default("true").Bool(),
}

var searchArgs = struct {
	file     *string
	patterns *[]string
}{
	searchCmd.Arg("file", "Text to index (a built-in sample when omitted)").ExistingFile(),
	searchCmd.Flag("pattern", "Pattern to search, repeatable").Short('p').Strings(),
}

var bwtArgs = struct {
	file *string
}{
	bwtCmd.Arg("file", "Text to transform (a built-in sample when omitted)").ExistingFile(),
}

func main() {
	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))

	level := slog.LevelInfo
	if *appArgs.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var err error
	switch cmd {
	case searchCmd.FullCommand():
		err = runSearch(logger, os.Stdout)
	case bwtCmd.FullCommand():
		err = runBWT(logger, os.Stdout)
	}
	if err != nil {
		logger.Error("fmindex failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func loadSettings() (*config.Config, error) {
	c := &config.Config{}
	if *appArgs.configPath != "" {
		var err error
		if c, err = config.Load(*appArgs.configPath); err != nil {
			return nil, err
		}
	}
	c.Merge(config.Config{
		SAStep:    *appArgs.saStep,
		TallyStep: *appArgs.tallyStep,
		Patterns:  *searchArgs.patterns,
	})
	return c, nil
}

func loadText(logger *slog.Logger, path string) ([]byte, error) {
	if path == "" {
		return []byte(textload.DefaultText), nil
	}
	text, err := textload.LoadFile(path, textload.Options{
		SkipHeader: *appArgs.skipHeader,
		Normalize:  *appArgs.normalize,
		Sentinel:   fmindex.DefaultSentinel,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("file loaded", slog.String("path", path), slog.String("size", humanize.Bytes(uint64(len(text)))))
	return text, nil
}

func build(logger *slog.Logger, text []byte, c *config.Config) (*fmindex.Index, time.Duration, error) {
	start := time.Now()
	idx, err := fmindex.NewBuilder(text).
		SAStep(c.SAStep).
		TallyStep(c.TallyStep).
		WithPrompter(config.NewLinePrompter(os.Stdin, os.Stderr)).
		WithLogger(logger).
		Build()
	if err != nil {
		return nil, 0, errors.Wrap(err, "encoding")
	}
	return idx, time.Since(start), nil
}

type patternResult struct {
	pattern string
	matches []fmindex.Match
	elapsed time.Duration
}

func runSearch(logger *slog.Logger, w io.Writer) error {
	c, err := loadSettings()
	if err != nil {
		return err
	}
	text, err := loadText(logger, *searchArgs.file)
	if err != nil {
		return err
	}

	runtime.GC()
	mm := newMemMonitor()

	idx, encodeTime, err := build(logger, text, c)
	if err != nil {
		mm.Stop()
		return err
	}

	start := time.Now()
	decoded, err := idx.Decode(idx.BWT())
	decodeTime := time.Since(start)
	if err != nil {
		mm.Stop()
		return errors.Wrap(err, "decoding")
	}
	if string(decoded) != string(text) {
		mm.Stop()
		return errors.New("decoded text differs from the input")
	}

	var results []patternResult
	for _, p := range c.PatternsOrDefault() {
		start := time.Now()
		matches, err := idx.SearchTextOrder([]byte(p))
		if err != nil {
			mm.Stop()
			return errors.Wrapf(err, "searching %q", p)
		}
		results = append(results, patternResult{pattern: p, matches: matches, elapsed: time.Since(start)})
	}
	peak := mm.Stop()

	saStep, tallyStep := idx.Steps()
	fmt.Fprintf(w, "BWT execution took %s\n", encodeTime)
	fmt.Fprintf(w, "Decode execution took %s\n", decodeTime)
	printResults(w, results, saStep, tallyStep)

	runtime.GC()
	fmt.Fprintf(w, "\nMemory usage: peak %s, retained %s\n", humanize.Bytes(peak), humanize.Bytes(getCurrentAlloc()))
	runtime.KeepAlive(idx)
	return nil
}

func printResults(w io.Writer, results []patternResult, saStep, tallyStep int) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Pattern", "Matches", "First offset", "FM search"})
	table.SetCaption(true, fmt.Sprintf("tally_step=%d, sa_step=%d", tallyStep, saStep))
	for i, r := range results {
		first := "-"
		if len(r.matches) > 0 {
			first = strconv.Itoa(r.matches[0].Start)
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			r.pattern,
			strconv.Itoa(len(r.matches)),
			first,
			r.elapsed.String(),
		})
	}
	table.Render()
}

func runBWT(logger *slog.Logger, w io.Writer) error {
	c, err := loadSettings()
	if err != nil {
		return err
	}
	text, err := loadText(logger, *bwtArgs.file)
	if err != nil {
		return err
	}
	idx, elapsed, err := build(logger, text, c)
	if err != nil {
		return err
	}
	logger.Debug("bwt computed", slog.Duration("elapsed", elapsed))
	_, err = fmt.Fprintf(w, "%s\n", idx.BWT())
	return err
}
