// Package export renders a ticket collection to an Excel workbook, one row
// per ticket, matching the dashboard's export columns.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/oms-support/ticketdesk/internal/model"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Tickets"

var header = []any{
	"Code", "Operator", "Country", "Issue", "Priority", "Status",
	"Creator", "Phone Number", "Start Time", "End Time", "Created At",
	"Issue Description", "KPIs Affected", "Counter Evaluation",
	"Optimization Actions", "Accepter", "Attachments",
}

const timeFormat = "2006-01-02 15:04:05"

// Filename names the workbook after the export date.
func Filename(now time.Time) string {
	return fmt.Sprintf("tickets_export_%s.xlsx", now.Format("2006-01-02"))
}

// Workbook builds the spreadsheet in memory. The caller decides where it
// goes; rows keep the order they were given in.
func Workbook(tickets []model.Ticket) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, err
	}
	for i := range tickets {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := ticketRow(&tickets[i])
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func ticketRow(t *model.Ticket) []any {
	endTime := "Not closed yet"
	if t.EndTime != nil {
		endTime = t.EndTime.Format(timeFormat)
	}
	accepter := ""
	if t.Accepter != nil {
		accepter = t.Accepter.Name
	}
	attachments := "No file"
	if len(t.Attachments) > 0 {
		attachments = strings.Join(t.Attachments, "\n")
	}
	return []any{
		t.Code, t.Operator, t.Country, t.Issue,
		string(t.Priority), string(t.Status),
		t.Creator, t.PhoneNumber,
		t.StartTime.Format(timeFormat), endTime,
		t.CreatedAt.Format(timeFormat),
		t.IssueDescription, t.KPIsAffected,
		t.CounterEvaluation, t.OptimizationActions,
		accepter, attachments,
	}
}
