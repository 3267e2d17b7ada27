package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/oms-support/ticketdesk/internal/config"
	"github.com/oms-support/ticketdesk/internal/database"
	"github.com/oms-support/ticketdesk/internal/export"
	"github.com/oms-support/ticketdesk/internal/listing"
	"github.com/oms-support/ticketdesk/internal/service"
	"github.com/spf13/cobra"
)

var (
	exportOut      string
	exportCriteria listing.Criteria
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export tickets to an Excel workbook",
	Long:  "Exports the ticket list to .xlsx, filtered and ordered the same way the admin dashboard shows it.",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (default tickets_export_<date>.xlsx)")
	exportCmd.Flags().StringVar(&exportCriteria.Operator, "operator", "", "filter by carrier")
	exportCmd.Flags().StringVar(&exportCriteria.Priority, "priority", "", "filter by priority")
	exportCmd.Flags().StringVar(&exportCriteria.Status, "status", "", "filter by status")
	exportCmd.Flags().StringVar(&exportCriteria.StartFrom, "start-from", "", "start time lower bound (RFC3339 or YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportCriteria.StartTo, "start-to", "", "start time upper bound")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	db, err := database.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	tickets, err := service.NewTicketService(db).ListAll(cmd.Context())
	if err != nil {
		return fmt.Errorf("list tickets: %w", err)
	}
	visible := listing.NewFilter(exportCriteria).Apply(tickets)
	listing.SortAdmin(visible)

	f, err := export.Workbook(visible)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	out := exportOut
	if out == "" {
		out = export.Filename(time.Now())
	}
	if err := f.SaveAs(out); err != nil {
		return fmt.Errorf("save %s: %w", out, err)
	}
	log.Printf("export: %d tickets written to %s", len(visible), out)
	return nil
}
