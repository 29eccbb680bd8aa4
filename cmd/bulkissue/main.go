// bulkissue drives a ticket campaign from a spreadsheet export: it reads a
// CSV of recipients, resolves each row's free-text ticket type, and issues
// tickets one at a time against a running API instance. Progress is recorded
// in an append-only JSONL ledger, so an interrupted or partially failed run
// can simply be re-run; recipients already marked ok in the ledger are
// skipped.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/spf13/pflag"

	"eventticketing/config"
	"eventticketing/internal/domain"
	"eventticketing/internal/ledger"
	"eventticketing/internal/pipeline"
	"eventticketing/internal/repository/postgres"
	"eventticketing/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		sourcePath  string
		baseURL     string
		apiKey      string
		delay       time.Duration
		maxAttempts int
		ledgerPath  string
		dryRun      bool
		skip        []string
		only        string
		typeFlags   []string
		synFlags    []string
		eventID     string
		requirePaid bool
		linkOnly    bool
		skipEmail   bool
		comma       string
	)

	flags := pflag.NewFlagSet("bulkissue", pflag.ContinueOnError)
	flags.StringVar(&sourcePath, "source", "", "path to the recipient CSV (required)")
	flags.StringVar(&baseURL, "url", "http://localhost:8080", "base URL of the ticket service")
	flags.StringVar(&apiKey, "api-key", "", "issue API key, sent as a bearer token")
	flags.DurationVar(&delay, "delay", 2*time.Second, "pause between consecutive sends")
	flags.IntVar(&maxAttempts, "max-attempts", 3, "attempts per recipient before giving up")
	flags.StringVar(&ledgerPath, "ledger", "ledger.jsonl", "path to the campaign ledger")
	flags.BoolVar(&dryRun, "dry-run", false, "print the plan without issuing anything")
	flags.StringArrayVar(&skip, "skip", nil, "recipient email to leave out (repeatable)")
	flags.StringVar(&only, "only", "", "restrict the run to a single recipient email")
	flags.StringArrayVar(&typeFlags, "type", nil, "ticket type as name=id (repeatable; alternative to --event)")
	flags.StringVar(&eventID, "event", "", "load the ticket-type table for this event from DATABASE_URL")
	flags.StringArrayVar(&synFlags, "synonym", nil, "type synonym as phrase=name (repeatable)")
	flags.BoolVar(&requirePaid, "require-paid", false, "skip rows whose payment cell is not affirmative")
	flags.BoolVar(&linkOnly, "link-only", false, "issue tickets without barcodes in the email")
	flags.BoolVar(&skipEmail, "skip-email", false, "issue tickets without sending email")
	flags.StringVar(&comma, "comma", ",", "CSV field separator")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	if sourcePath == "" {
		return fmt.Errorf("--source is required")
	}
	if len(typeFlags) == 0 && eventID == "" {
		return fmt.Errorf("either --type name=id or --event is required")
	}
	sep := []rune(comma)
	if len(sep) != 1 {
		return fmt.Errorf("--comma must be a single character")
	}

	ctx := context.Background()

	var types []*domain.TicketType
	var err error
	if len(typeFlags) > 0 {
		types, err = parseTypes(typeFlags)
		if err != nil {
			return err
		}
	} else {
		types, err = loadTypesFromStore(ctx, eventID)
		if err != nil {
			return err
		}
	}
	synonyms, err := parseSynonyms(synFlags)
	if err != nil {
		return err
	}

	logger := config.NewLogger()
	resolver := services.NewTypeResolver(types, services.TypeResolverConfig{Synonyms: synonyms})

	p, err := pipeline.New(pipeline.Config{
		Source:      pipeline.NewCSVSource(sourcePath, sep[0], pipeline.CSVColumns{}),
		Resolver:    resolver,
		Ledger:      ledger.NewFileLedger(ledgerPath),
		Issuer:      pipeline.NewHTTPIssuer(&http.Client{Timeout: 30 * time.Second}, baseURL, apiKey),
		Logger:      logger,
		Delay:       delay,
		MaxAttempts: maxAttempts,
		RequirePaid: requirePaid,
		Skip:        skip,
		Only:        only,
		LinkOnly:    linkOnly,
		SkipEmail:   skipEmail,
	})
	if err != nil {
		return err
	}

	plan, err := p.Plan(ctx)
	if err != nil {
		return err
	}

	for _, s := range plan.Skipped {
		fmt.Printf("skip line %d (%s): %s\n", s.Line, s.Email, s.Reason)
	}
	fmt.Printf("plan: %d to send, %d skipped, %d already sent\n",
		len(plan.Send), len(plan.Skipped)-plan.AlreadySent, plan.AlreadySent)

	if only != "" && len(plan.Send) == 0 {
		return fmt.Errorf("--only %s matched no eligible recipient", only)
	}
	if dryRun {
		return nil
	}

	summary, err := p.Run(ctx, plan)
	if err != nil {
		return err
	}
	fmt.Printf("done: %d sent, %d failed, %d skipped, %d already sent\n",
		summary.Sent, summary.Failed, summary.Skipped, summary.AlreadySent)
	if summary.Failed > 0 {
		return fmt.Errorf("%d recipients failed; re-run to retry them", summary.Failed)
	}
	return nil
}

// loadTypesFromStore reads the event's ticket-type table from the database
// named by DATABASE_URL, so campaign runs against a live deployment need no
// hand-maintained --type flags.
func loadTypesFromStore(ctx context.Context, eventID string) ([]*domain.TicketType, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	types, err := postgres.NewTicketTypeRepository(db).ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load ticket types for event %s: %w", eventID, err)
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("event %s has no ticket types", eventID)
	}
	return types, nil
}

func parseTypes(specs []string) ([]*domain.TicketType, error) {
	types := make([]*domain.TicketType, 0, len(specs))
	for _, s := range specs {
		name, id, ok := strings.Cut(s, "=")
		if !ok || name == "" || id == "" {
			return nil, fmt.Errorf("invalid --type %q, expected name=id", s)
		}
		types = append(types, &domain.TicketType{ID: id, Name: name})
	}
	return types, nil
}

func parseSynonyms(specs []string) (map[string]string, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	synonyms := make(map[string]string, len(specs))
	for _, s := range specs {
		phrase, name, ok := strings.Cut(s, "=")
		if !ok || phrase == "" || name == "" {
			return nil, fmt.Errorf("invalid --synonym %q, expected phrase=name", s)
		}
		synonyms[phrase] = name
	}
	return synonyms, nil
}
