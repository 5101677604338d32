package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samvad-hq/samvad-archive-scraper/internal/app"
	"github.com/samvad-hq/samvad-archive-scraper/internal/config"
	"github.com/samvad-hq/samvad-archive-scraper/internal/crawler"
	"github.com/samvad-hq/samvad-archive-scraper/internal/domain"
	"github.com/samvad-hq/samvad-archive-scraper/internal/logger"
	"github.com/samvad-hq/samvad-archive-scraper/pkg/sources"
	"github.com/spf13/cobra"
)

const completedMessage = "The request was completed."

// errUsage marks argument errors that should be followed by the usage text.
var errUsage = errors.New("invalid arguments")

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scraper <output> <newspaper> <day> <month> <year> [<page> | <day_end> <month_end> <year_end>]",
		Short: "Extract newspaper articles from a daily archive into a CSV file",
		Long:  usageText(sources.SupportedNames()),
		// Negative numbers are positional values, not flags.
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd.Context(), args, stdout, stderr)
			if err != nil {
				fmt.Fprintf(stderr, "error: %v\n", err)
				if errors.Is(err, errUsage) {
					fmt.Fprintln(stderr, usageText(sources.SupportedNames()))
				}
			}
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	job, err := parseJob(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("scraper starting", "config", cfg)

	scraper, err := app.NewScraper(ctx, cfg, log, stdout)
	if err != nil {
		logger.ErrorObj("failed to initialize scraper", "error", err)
		return err
	}
	defer func() {
		if err := scraper.Close(); err != nil {
			logger.ErrorObj("scraper shutdown failed", "error", err)
		}
	}()

	res, err := scraper.Run(ctx, job)
	if res != nil {
		printFailures(stderr, res.Failures)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, completedMessage)
	fmt.Fprintf(stdout, "%d articles written to %s, %d failed.\n",
		len(res.Articles), job.OutputPath, len(res.ArticleFailures()))
	return nil
}

// parseJob reads the positional arguments:
//
//	<output> <newspaper> <day> <month> <year>
//	<output> <newspaper> <day> <month> <year> <page>
//	<output> <newspaper> <day> <month> <year> <day_end> <month_end> <year_end>
func parseJob(args []string) (app.Job, error) {
	switch len(args) {
	case 5, 6, 8:
	default:
		return app.Job{}, fmt.Errorf("%w: expected 5, 6 or 8 arguments, got %d", errUsage, len(args))
	}
	if strings.TrimSpace(args[0]) == "" {
		return app.Job{}, fmt.Errorf("%w: output path is empty", errUsage)
	}

	nums := make([]int, 0, len(args)-2)
	for _, raw := range args[2:] {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return app.Job{}, fmt.Errorf("%w: %q is not a number", errUsage, raw)
		}
		nums = append(nums, n)
	}

	var (
		r   domain.DateRange
		err error
	)
	switch len(nums) {
	case 3:
		r, err = domain.NewDay(nums[0], nums[1], nums[2])
	case 4:
		r, err = domain.NewPage(nums[0], nums[1], nums[2], nums[3])
	case 6:
		r, err = domain.NewRange(nums[0], nums[1], nums[2], nums[3], nums[4], nums[5])
	}
	if err != nil {
		return app.Job{}, err
	}
	return app.Job{OutputPath: args[0], SourceName: args[1], Range: r}, nil
}

func usageText(names []string) string {
	var b strings.Builder
	b.WriteString("Usage:\n")
	b.WriteString("  scraper <output.csv> <newspaper> <day> <month> <year>\n")
	b.WriteString("      extract every article of one day\n")
	b.WriteString("  scraper <output.csv> <newspaper> <day> <month> <year> <page>\n")
	b.WriteString("      extract one archive page of one day\n")
	b.WriteString("  scraper <output.csv> <newspaper> <day> <month> <year> <day_end> <month_end> <year_end>\n")
	b.WriteString("      extract every day between the two dates, both included\n")
	b.WriteString("\nSupported newspapers:\n")
	for _, n := range names {
		b.WriteString("  " + n + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// printFailures lists skipped articles and listings, one row per URL.
func printFailures(w io.Writer, failures []crawler.Failure) {
	if len(failures) == 0 {
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Skipped")
	t.AppendHeader(table.Row{"Stage", "Day", "URL", "Error"})
	for _, f := range failures {
		day := ""
		if !f.Day.IsZero() {
			day = f.Day.Format(time.DateOnly)
		}
		t.AppendRow(table.Row{f.Stage, day, f.URL, f.Err.Error()})
	}
	t.Render()
}
