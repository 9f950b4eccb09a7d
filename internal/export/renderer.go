package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	apperrors "github.com/spec-kit/demand-queue/pkg/util/errorutil"
)

// Format identifies a report output format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatText Format = "text"
)

// ParseFormat maps a query value to a format, defaulting to CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatText, "txt":
		return FormatText, nil
	default:
		return "", apperrors.NewInvalidInput("unknown report format", map[string]any{"format": raw})
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatText {
		return "text/plain; charset=utf-8"
	}
	return "text/csv; charset=utf-8"
}

func (f Format) extension() string {
	if f == FormatText {
		return "txt"
	}
	return "csv"
}

// Row is a flat, already-formatted report line.
type Row struct {
	Orgao       string
	Servico     string
	Fonte       string
	Responsavel string
	FinishedAt  string
}

// Report is the ordered result of a daily selection.
type Report struct {
	Day      time.Time
	Operator string
	Rows     []Row
}

// Filename derives the download name from the report date and optional
// operator filter, e.g. demandas_2024-05-10_ANA.csv.
func Filename(report Report, format Format) string {
	name := "demandas_" + report.Day.Format("2006-01-02")
	if report.Operator != "" {
		name += "_" + strings.ReplaceAll(report.Operator, " ", "_")
	}
	return name + "." + format.extension()
}

var header = []string{"ORGAO", "SERVICO", "FONTE", "RESPONSAVEL", "CONCLUIDO EM"}

// Render writes the report in the requested format.
func Render(w io.Writer, report Report, format Format) error {
	if format == FormatText {
		return renderText(w, report)
	}
	return renderCSV(w, report)
}

func renderCSV(w io.Writer, report Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range report.Rows {
		if err := cw.Write([]string{row.Orgao, row.Servico, row.Fonte, row.Responsavel, row.FinishedAt}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderText(w io.Writer, report Report) error {
	title := "DEMANDAS CONCLUIDAS EM " + report.Day.Format("02/01/2006")
	if report.Operator != "" {
		title += " - " + report.Operator
	}
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range report.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			row.Orgao, row.Servico, row.Fonte, row.Responsavel, row.FinishedAt)
	}
	return tw.Flush()
}
