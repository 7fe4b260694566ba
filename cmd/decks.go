package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/quality-irrigation/mi-console/internal/config"
	"github.com/quality-irrigation/mi-console/internal/deck"
	"github.com/quality-irrigation/mi-console/internal/progress"
	"github.com/quality-irrigation/mi-console/internal/sanitize"
)

var decksCmd = &cobra.Command{
	Use:   "decks",
	Short: "Inspect the deck library",
}

var decksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the decks in the library",
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := libraryFromConfig()
		if err != nil {
			return err
		}

		catalog, err := lib.Scan()
		if err != nil {
			return fmt.Errorf("scanning deck library: %w", err)
		}
		if len(catalog.Decks) == 0 {
			fmt.Println("No decks found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tFILE")
		for _, entry := range catalog.Decks {
			id := entry.ID
			if id == catalog.DefaultDeckID {
				id += " *"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", id, entry.Title, entry.File)
		}
		w.Flush()
		fmt.Println("\n* default deck")
		return nil
	},
}

var validateStrict bool

var decksValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load every deck and report problems",
	Long: `Parses every deck in the library and reports slides that will not
present well. Warnings (out-of-range agenda indexes, media URLs the
renderer would hide) fail the run only with --strict.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := libraryFromConfig()
		if err != nil {
			return err
		}

		catalog, err := lib.Scan()
		if err != nil {
			return fmt.Errorf("scanning deck library: %w", err)
		}
		if len(catalog.Decks) == 0 {
			fmt.Println("No decks found.")
			return nil
		}

		reporter := progress.NewReporter()
		reporter.Start(len(catalog.Decks))

		var problems, warnings []string
		for i, entry := range catalog.Decks {
			reporter.Update(i+1, entry.ID)
			d, err := lib.Resolve(entry.ID)
			if err != nil {
				problems = append(problems, fmt.Sprintf("%s: %v", entry.ID, err))
				continue
			}
			p, w := validateDeck(entry.ID, d)
			problems = append(problems, p...)
			warnings = append(warnings, w...)
		}
		reporter.Finish()

		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "  warning: %s\n", w)
		}
		if validateStrict {
			problems = append(problems, warnings...)
		}
		if len(problems) > 0 {
			for _, p := range problems {
				fmt.Fprintf(os.Stderr, "  %s\n", p)
			}
			return fmt.Errorf("%d problem(s) across %d deck(s)", len(problems), len(catalog.Decks))
		}
		fmt.Printf("All %d deck(s) valid.\n", len(catalog.Decks))
		return nil
	},
}

// validateDeck flags content that loads but will not present well. Problems
// always fail the run; warnings only under --strict.
func validateDeck(id string, d deck.Deck) (problems, warnings []string) {
	for i, s := range d.Slides {
		if s.Title == "" && s.MarkdownSource() == "" && len(s.Bullets) == 0 &&
			s.Media.IsZero() && s.Chart == nil && len(s.Metrics) == 0 {
			problems = append(problems, fmt.Sprintf("%s: slide %d is empty", id, i+1))
		}
		if s.Chart != nil && len(s.Chart.Series) == 0 && len(s.Chart.DataSpec) == 0 &&
			(len(s.Chart.Labels) == 0 || len(s.Chart.Labels) != len(s.Chart.Values)) {
			problems = append(problems, fmt.Sprintf("%s: slide %d chart has no plottable data", id, i+1))
		}
		// agenda_index is 1-based; the item count itself is the last valid value.
		if s.AgendaIndex != 0 && (s.AgendaIndex < 0 || s.AgendaIndex > len(d.AgendaItems())) {
			warnings = append(warnings, fmt.Sprintf("%s: slide %d agenda_index %d out of range", id, i+1, s.AgendaIndex))
		}
		for _, m := range s.Media.Items() {
			if m.Src != "" && !sanitize.SafeSrc(m.Src) {
				warnings = append(warnings, fmt.Sprintf("%s: slide %d media src %q would be hidden", id, i+1, m.Src))
			}
		}
	}
	return problems, warnings
}

func libraryFromConfig() (*deck.Library, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	lib := deck.NewLibrary(cfg.DecksDir)
	if len(cfg.Include) > 0 {
		lib.Include = cfg.Include
	}
	lib.Exclude = cfg.Exclude
	lib.DefaultDeckID = cfg.DefaultDeck
	return lib, nil
}

func init() {
	decksValidateCmd.Flags().BoolVar(&validateStrict, "strict", false, "treat warnings as failures")
	decksCmd.AddCommand(decksListCmd)
	decksCmd.AddCommand(decksValidateCmd)
	rootCmd.AddCommand(decksCmd)
}
