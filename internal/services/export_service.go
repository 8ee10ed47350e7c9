package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/url"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"github.com/dealdesk/dealdesk-api/internal/dealform"
	"github.com/dealdesk/dealdesk-api/internal/refdata"
)

// ReportsClient is the slice of the core API client the export service needs.
type ReportsClient interface {
	ListDeals(ctx context.Context, token string, params url.Values) ([]map[string]any, error)
}

// ExportService renders the read-only deal feed as downloadable files and a
// draft preview summary as PDF. All figures come straight from the core API;
// nothing is recomputed locally.
type ExportService struct {
	client  ReportsClient
	filters *FilterService
}

// NewExportService creates a new export service
func NewExportService(client ReportsClient, filters *FilterService) *ExportService {
	return &ExportService{client: client, filters: filters}
}

var dealColumns = []struct {
	header string
	field  string
	label  string // lookup category for id-to-label resolution, "" for raw
	date   bool
}{
	{header: "Deal ID", field: "id"},
	{header: "Status", field: "statusId", label: refdata.CategoryStatuses},
	{header: "Developer", field: "developerId", label: refdata.CategoryDevelopers},
	{header: "Project", field: "projectId", label: refdata.CategoryProjects},
	{header: "Unit", field: "unitNumber"},
	{header: "Agent", field: "agentId", label: refdata.CategoryAgents},
	{header: "Booking Date", field: "bookingDate", date: true},
	{header: "Close Date", field: "closeDate", date: true},
	{header: "Deal Value", field: "dealValue"},
	{header: "Downpayment", field: "downpayment"},
}

func (s *ExportService) dealRows(ctx context.Context, token string, params url.Values) ([][]string, error) {
	deals, err := s.client.ListDeals(ctx, token, params)
	if err != nil {
		return nil, err
	}
	refs := s.filters.Cached()

	rows := make([][]string, 0, len(deals))
	for _, deal := range deals {
		row := make([]string, 0, len(dealColumns))
		for _, col := range dealColumns {
			value := recordString(deal[col.field])
			if col.date {
				value = recordDate(deal[col.field])
			} else if col.label != "" && value != "" {
				if label := refs.Label(col.label, value); label != "" {
					value = label
				}
			}
			row = append(row, value)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ExportDealsCSV renders the deal feed as CSV.
func (s *ExportService) ExportDealsCSV(ctx context.Context, token string, params url.Values) ([]byte, string, error) {
	rows, err := s.dealRows(ctx, token, params)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	_ = writer.Write([]string{"Deals Report", time.Now().Format("2006-01-02 15:04")})
	_ = writer.Write([]string{""})

	header := make([]string, 0, len(dealColumns))
	for _, col := range dealColumns {
		header = append(header, col.header)
	}
	_ = writer.Write(header)
	for _, row := range rows {
		_ = writer.Write(row)
	}
	writer.Flush()

	filename := fmt.Sprintf("deals_report_%s.csv", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportDealsXLSX renders the deal feed as an Excel workbook.
func (s *ExportService) ExportDealsXLSX(ctx context.Context, token string, params url.Values) ([]byte, string, error) {
	rows, err := s.dealRows(ctx, token, params)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Deals"
	_ = f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range dealColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, col.header)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	for r, row := range rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("deals_report_%s.xlsx", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}

// ExportSummaryPDF renders a preview summary as a printable PDF, section by
// section in the same order the confirmation screen shows them.
func (s *ExportService) ExportSummaryPDF(summary *dealform.Summary) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Deal Summary")
	pdf.Ln(12)

	for _, section := range summary.Sections {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(40, 10, section.Title)
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 10)
		for _, row := range section.Rows {
			pdf.Cell(60, 10, row.Label+":")
			pdf.Cell(100, 10, row.Value)
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	buf := new(bytes.Buffer)
	if err := pdf.Output(buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("deal_summary_%s.pdf", time.Now().Format("2006-01-02"))
	return buf.Bytes(), filename, nil
}
