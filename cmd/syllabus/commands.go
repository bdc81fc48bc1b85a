package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/poiesic/syllabus/config"
	"github.com/poiesic/syllabus/core"
	"github.com/poiesic/syllabus/ingestion"
	"github.com/poiesic/syllabus/mcpserver"
	"github.com/poiesic/syllabus/reembed"
	"github.com/poiesic/syllabus/search"
	"github.com/poiesic/syllabus/tools"
	"github.com/poiesic/syllabus/tui"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"
)

func ingestCommand(c *cli.Context) error {
	ctx := c.Context

	sys, cfg, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	dir := cfg.DocsDir
	if c.NArg() > 0 {
		dir = c.Args().First()
	}

	report, err := sys.IngestFolder(ctx, dir, c.Bool("clear"))
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	printReport(os.Stderr, report)

	if !c.Bool("watch") {
		return nil
	}

	watcher, err := sys.NewWatcher(dir, ingestion.WithIngestCallback(func(e ingestion.IngestEvent) {
		if e.Err != nil {
			fmt.Fprintf(os.Stderr, "Failed to ingest %s: %v\n", e.Path, e.Err)
			return
		}
		fmt.Fprintf(os.Stderr, "Updated %q (%d chunks)\n", e.Title, e.Chunks)
	}))
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Watching %s for changes (Ctrl+C to stop)\n", dir)
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printReport(w io.Writer, report *ingestion.Report) {
	fmt.Fprintf(w, "Loaded %d courses (%d chunks), skipped %d, failed %d\n",
		len(report.Loaded), report.Chunks, len(report.Skipped), len(report.Failed))
	for _, title := range report.Loaded {
		fmt.Fprintf(w, "  + %s\n", title)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(w, "  ! %v\n", f)
	}
}

func queryCommand(c *cli.Context) error {
	question := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(question) == "" {
		return errors.New("a question is required")
	}

	sys, _, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	result, err := sys.Query(c.Context, question, c.String("session"))
	if err != nil {
		return err
	}

	fmt.Println(result.Answer)
	if len(result.Sources) > 0 {
		fmt.Println()
		fmt.Println(tui.FormatSources(result.Sources))
	}
	fmt.Fprintf(os.Stderr, "Session: %s\n", result.SessionID)
	return nil
}

func chatCommand(c *cli.Context) error {
	sys, _, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		analytics, err := sys.Courses(c.Context)
		if err != nil {
			return err
		}
		title := fmt.Sprintf("%d courses indexed", analytics.TotalCourses)
		program := tea.NewProgram(tui.New(c.Context, sys, title), tea.WithAltScreen(), tea.WithContext(c.Context))
		_, err = program.Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	}
	return repl(c.Context, sys, os.Stdin, os.Stdout)
}

// repl answers one question per input line until EOF or a quit command.
// It is used when stdin or stdout is not a terminal.
func repl(ctx context.Context, asker tui.Asker, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	sessionID := ""
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			if sessionID != "" {
				asker.ClearSession(sessionID)
				sessionID = ""
			}
			fmt.Fprintln(out, "Conversation cleared.")
			continue
		}

		result, err := asker.Query(ctx, line, sessionID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		sessionID = result.SessionID
		fmt.Fprintln(out, result.Answer)
		if len(result.Sources) > 0 {
			fmt.Fprintln(out, tui.FormatSources(result.Sources))
		}
	}
}

func coursesCommand(c *cli.Context) error {
	sys, _, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	analytics, err := sys.Courses(c.Context)
	if err != nil {
		return err
	}
	fmt.Printf("%d courses\n", analytics.TotalCourses)
	for _, title := range analytics.Titles {
		fmt.Printf("  %s\n", title)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	text := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(text) == "" {
		return errors.New("a search query is required")
	}

	q := search.Query{
		Text:       text,
		CourseName: c.String("course"),
		Limit:      c.Int("limit"),
	}
	if c.IsSet("lesson") {
		lesson := c.Int("lesson")
		q.Lesson = &lesson
	}

	sys, _, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	outcome, err := sys.Search(c.Context, q)
	if err != nil {
		return err
	}
	printOutcome(os.Stdout, outcome)
	return nil
}

func printOutcome(w io.Writer, outcome *search.Outcome) {
	if outcome.Kind != search.OutcomeHits {
		fmt.Fprintln(w, tools.MissMessage(outcome))
		return
	}
	for i, hit := range outcome.Hits {
		if i > 0 {
			fmt.Fprintln(w)
		}
		label := hit.Chunk.CourseTitle
		if hit.Chunk.LessonNumber != core.NoLesson {
			label = fmt.Sprintf("%s - Lesson %d", label, hit.Chunk.LessonNumber)
		}
		fmt.Fprintf(w, "[%s] (distance %.3f)\n%s\n", label, hit.Distance, hit.Chunk.Text)
	}
}

func reembedCommand(c *cli.Context) error {
	reembedConfig := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}

	if reembedConfig.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if reembedConfig.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if reembedConfig.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	sys, cfg, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	fmt.Fprintf(os.Stderr, "Database: %s\n", cfg.DBPath)
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", cfg.AI.EmbeddingHost)
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", cfg.AI.EmbeddingModel)
	fmt.Fprintln(os.Stderr)

	if _, err := sys.Reembed(c.Context, reembedConfig, os.Stderr); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func mcpCommand(c *cli.Context) error {
	sys, _, err := openSystem(c)
	if err != nil {
		return err
	}
	defer sys.Close()

	server, err := mcpserver.NewServer(mcpserver.PortsFor(sys))
	if err != nil {
		return err
	}
	if addr := c.String("http"); addr != "" {
		return server.RunHTTP(c.Context, addr)
	}
	return server.Run(c.Context)
}

func initCommand(c *cli.Context) error {
	path := c.String("config")
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists; use --force to overwrite", path)
	}
	if err := config.Save(path, config.Default()); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
	return nil
}
