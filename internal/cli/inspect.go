package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/muesli/termenv"

	"github.com/aretw0/syllabus"
	"github.com/aretw0/syllabus/internal/config"
	"github.com/aretw0/syllabus/internal/presentation/graph"
	"github.com/aretw0/syllabus/pkg/domain"
)

// InspectOptions configures the read-only commands.
type InspectOptions struct {
	Config config.Config
	JSON   bool
	Output io.Writer
}

// RunStatus prints completion progress and the next topic.
func RunStatus(ctx context.Context, opts InspectOptions) error {
	engine, err := createEngine(opts.Config, createLogger(opts.Config.Debug))
	if err != nil {
		return err
	}
	st, err := engine.Status(ctx)
	if err != nil {
		return err
	}
	if opts.JSON {
		return writeJSON(opts.Output, st)
	}
	PrintStatus(opts.Output, st)
	return nil
}

// PrintStatus writes a human-readable progress summary.
func PrintStatus(w io.Writer, st syllabus.Status) {
	p := termenv.EnvColorProfile()

	fmt.Fprintf(w, "Progress: %d/%d topics (%.0f%%)\n", st.Progress.Completed, st.Progress.Total, st.Progress.Percent())
	if st.Complete {
		fmt.Fprintln(w, p.String("Curriculum complete.").Foreground(p.Color("#22c55e")))
	} else if st.Next != nil {
		fmt.Fprintf(w, "Next: %s [%s] %s\n", p.String(st.Next.ID).Bold(), st.Next.Category, st.Next.Description)
	}
	if st.Last != nil {
		fmt.Fprintf(w, "Last: %s at %s\n", st.Last.TopicID, st.Last.CompletedAt.Format(time.RFC3339))
	}
	for _, id := range st.Stale {
		fmt.Fprintln(w, p.String(fmt.Sprintf("Warning: ledger entry %s matches no catalog topic", id)).Foreground(p.Color("#f59e0b")))
	}
}

// RunLedgerList prints every ledger entry in completion order.
func RunLedgerList(ctx context.Context, opts InspectOptions) error {
	engine, err := createEngine(opts.Config, createLogger(opts.Config.Debug))
	if err != nil {
		return err
	}
	ledger, err := engine.Ledger(ctx)
	if err != nil {
		return err
	}
	if opts.JSON {
		return writeJSON(opts.Output, ledger.Entries())
	}
	if ledger.Len() == 0 {
		fmt.Fprintln(opts.Output, "No topics completed yet.")
		return nil
	}
	PrintLedger(opts.Output, ledger)
	return nil
}

// PrintLedger writes the ledger as an aligned table.
func PrintLedger(w io.Writer, ledger domain.Ledger) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TOPIC\tCOMPLETED\tDESCRIPTION")
	for _, e := range ledger.Entries() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.TopicID, e.CompletedAt.Format(time.RFC3339), e.Description)
	}
	_ = tw.Flush()
}

// RunValidate checks the catalog and prints the report.
// It fails when the catalog cannot be loaded or a topic cannot be prepared.
func RunValidate(ctx context.Context, opts InspectOptions) error {
	engine, err := createEngine(opts.Config, createLogger(opts.Config.Debug))
	if err != nil {
		return err
	}
	report, err := engine.Validate(ctx)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if opts.JSON {
		if err := writeJSON(opts.Output, report); err != nil {
			return err
		}
		return report.Err()
	}

	for _, w := range report.Warnings {
		fmt.Fprintf(opts.Output, "Warning: %s\n", w)
	}
	if err := report.Err(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	fmt.Fprintf(opts.Output, "Catalog is valid! %d topics checked.\n", report.Topics)
	return nil
}

// RunGraph prints the Mermaid curriculum graph with the ledger overlay.
func RunGraph(ctx context.Context, opts InspectOptions) error {
	engine, err := createEngine(opts.Config, createLogger(opts.Config.Debug))
	if err != nil {
		return err
	}
	catalog, err := engine.Catalog(ctx)
	if err != nil {
		return err
	}
	st, err := engine.Status(ctx)
	if err != nil {
		return err
	}
	ledger, err := engine.Ledger(ctx)
	if err != nil {
		return err
	}

	overlay := &graph.Overlay{}
	for _, e := range ledger.Entries() {
		overlay.Completed = append(overlay.Completed, e.TopicID)
	}
	if st.Next != nil {
		overlay.Current = st.Next.ID
	}

	classify := func(t domain.Topic) (domain.Strategy, error) {
		return engine.Classify(catalog, t)
	}
	fmt.Fprint(opts.Output, graph.GenerateMermaid(catalog.Topics(), classify, overlay))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
