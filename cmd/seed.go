package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/oms-support/ticketdesk/internal/config"
	"github.com/oms-support/ticketdesk/internal/database"
	"github.com/oms-support/ticketdesk/internal/model"
	"github.com/oms-support/ticketdesk/internal/service"
	"github.com/spf13/cobra"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the staff directory from a JSON file",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "accepters.json", "JSON array of accepters (name, email, phone)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	data, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("read %s: %w", seedFile, err)
	}
	var accepters []model.Accepter
	if err := json.Unmarshal(data, &accepters); err != nil {
		return fmt.Errorf("parse %s: %w", seedFile, err)
	}

	db, err := database.Open(cfg.DSN())
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	svc := service.NewAccepterService(db)
	for i := range accepters {
		if err := svc.Create(cmd.Context(), &accepters[i]); err != nil {
			return fmt.Errorf("seed %q: %w", accepters[i].Name, err)
		}
	}
	log.Printf("seed: %d accepters loaded", len(accepters))
	return nil
}
