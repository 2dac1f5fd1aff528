package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/UchiaGhost/mt5-gateway/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the execution journal",
	Long: `Query execution records from a SQLite journal.

Subcommands:
  get   - Get a single execution record by ID
  today - List executions recorded today
  day   - List executions recorded on a specific day

Examples:
  mt5-gateway journal get <execution-id>
  mt5-gateway journal today
  mt5-gateway journal day 2026-08-29`,
}

var journalGetCmd = &cobra.Command{
	Use:   "get <execution-id>",
	Short: "Get a single execution record",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalGet,
}

var journalTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "List executions recorded today",
	Args:  cobra.NoArgs,
	RunE:  runJournalToday,
}

var journalDayCmd = &cobra.Command{
	Use:   "day <YYYY-MM-DD>",
	Short: "List executions recorded on a specific day",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalDay,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalGetCmd)
	journalCmd.AddCommand(journalTodayCmd)
	journalCmd.AddCommand(journalDayCmd)

	journalCmd.PersistentFlags().StringVar(&journalDBPath, "db", "./executions.db", "path to SQLite journal")
}

func openSQLiteJournal() (*journal.SQLite, error) {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", journalDBPath, err)
	}
	return j, nil
}

func runJournalGet(cmd *cobra.Command, args []string) error {
	j, err := openSQLiteJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	rec, err := j.GetExecution(args[0])
	if err != nil {
		return err
	}
	printExecution(rec)
	return nil
}

func runJournalToday(cmd *cobra.Command, args []string) error {
	start := time.Now().UTC().Truncate(24 * time.Hour)
	return listExecutions(start, start.Add(24*time.Hour))
}

func runJournalDay(cmd *cobra.Command, args []string) error {
	day, err := time.Parse("2006-01-02", args[0])
	if err != nil {
		return fmt.Errorf("parse day: %w", err)
	}
	return listExecutions(day, day.Add(24*time.Hour))
}

func listExecutions(start, end time.Time) error {
	j, err := openSQLiteJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	recs, err := j.ListExecutionsBetween(start, end)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("no executions found")
		return nil
	}
	for _, rec := range recs {
		printExecution(rec)
	}
	return nil
}

func printExecution(rec journal.ExecutionRecord) {
	fmt.Printf("%s  %s %s %s %s lot=%.2f price=%.5f",
		rec.Time.Format(time.RFC3339), rec.ID, rec.Strategy, rec.Symbol, rec.Side, rec.LotSize, rec.Price)
	if rec.Status == "filled" {
		fmt.Printf(" order=%s\n", rec.OrderID)
	} else {
		fmt.Printf(" %s: %s\n", rec.Status, rec.Error)
	}
}
