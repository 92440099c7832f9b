// Command basket prints the deliverable basket for a UST futures contract.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/vitos/ust_basket/internal/config"
	"github.com/vitos/ust_basket/internal/domain"
	"github.com/vitos/ust_basket/internal/infrastructure/logger"
	"github.com/vitos/ust_basket/internal/infrastructure/storage"
	"github.com/vitos/ust_basket/internal/infrastructure/treasury"
	"github.com/vitos/ust_basket/internal/usecase"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		expiration string
		asJSON     bool
	)

	root := &cobra.Command{
		Use:   "basket CONTRACT",
		Short: "List Treasury securities deliverable into a UST futures contract",
		Long: `basket fetches the outstanding notes or bonds from TreasuryDirect and prints
the securities eligible for delivery into TU, FV, TY, TN, US or UB.
Maturities marked ** are within about two days of an eligibility boundary.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			log, err := logger.NewLogger(cfg.Logging.Level)
			if err != nil {
				return err
			}
			defer log.Sync()

			ref, err := usecase.ParseExpiration(expiration)
			if err != nil {
				return err
			}

			client := treasury.NewClient(cfg.Treasury.BaseURL, cfg.TreasuryTimeout(), cfg.Treasury.MaxRetries, nil, log)
			svc := usecase.NewBasketService(client, nil, nil, log)
			basket, err := svc.Compute(cmd.Context(), args[0], ref)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(basket)
			}
			return printBasket(cmd.OutOrStdout(), basket)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path")
	root.Flags().StringVar(&expiration, "expiration", "", "delivery month as YYYY-MM (default: front contract)")
	root.Flags().BoolVar(&asJSON, "json", false, "print the basket as JSON")

	root.AddCommand(newRequestsCmd(&configPath))
	return root
}

func newRequestsCmd(configPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Show recent basket computations recorded by the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cfg.Storage.DBPath == "" {
				return fmt.Errorf("storage.db_path is not configured")
			}
			store, err := storage.NewSQLiteStore(cfg.Storage.DBPath)
			if err != nil {
				return err
			}
			defer store.Close()

			logs, err := store.ListRequestLogs(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printRequests(cmd.OutOrStdout(), logs)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of requests to show")
	return cmd
}

// loadConfig falls back to defaults only when the file does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func printBasket(out io.Writer, b *domain.Basket) error {
	fmt.Fprintf(out, "%s delivery %s to %s\n\n", b.Name,
		b.Window.FirstDay.Format("2006-01-02"), b.Window.LastDay.Format("2006-01-02"))
	if len(b.Entries) == 0 {
		fmt.Fprintln(out, "No eligible securities.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CUSIP\tCOUPON\tMATURITY\tTTM\tISSUED\tLOW YIELD")
	for _, e := range b.Entries {
		fmt.Fprintf(tw, "%s\t%.3f\t%s\t%s\t%s\t%s\n", e.CUSIP, e.CouponRate, e.MaturityDate, e.TimeToMaturity, e.IssueDate, e.LowYield)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(b.Warnings) > 0 {
		fmt.Fprintf(out, "\n%d malformed record(s) skipped\n", len(b.Warnings))
	}
	return nil
}

func printRequests(out io.Writer, logs []*domain.RequestLog) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tCONTRACT\tSTATUS\tENTRIES\tEDGE\tMS")
	for _, l := range logs {
		name := l.Abbreviation
		if name == "" {
			name = l.Contract
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n", l.RequestedAt.Format("2006-01-02 15:04:05"), name, l.Status, l.Entries, l.EdgeCases, l.DurationMs)
	}
	return tw.Flush()
}
