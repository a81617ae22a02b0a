package report

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/adilg123/rle-huffman-lzw/internal/compression"
	"github.com/adilg123/rle-huffman-lzw/internal/history"
	"github.com/go-pdf/fpdf"
)

// PDFSection is one titled results table in a comparison report.
type PDFSection struct {
	Title   string
	Results []compression.Result
}

type pdfColumn struct {
	header string
	width  float64
}

var resultColumns = []pdfColumn{
	{"Algorithm", 36},
	{"Original", 25},
	{"Compressed", 25},
	{"Ratio", 22},
	{"Saved", 22},
	{"Time (s)", 24},
	{"Verified", 26},
}

var historyColumns = []pdfColumn{
	{"Timestamp", 36},
	{"Filename", 52},
	{"Algorithm", 24},
	{"Ratio", 22},
	{"Saved", 22},
	{"Time (s)", 24},
}

// pdfReport is an A4 page flow with a title block on the first page.
type pdfReport struct {
	*fpdf.Fpdf
	tr func(string) string
}

func newPDFReport(title string) *pdfReport {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	r := &pdfReport{Fpdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	r.SetFont("Helvetica", "B", 18)
	r.CellFormat(0, 12, r.tr(title), "", 1, "C", false, 0, "")
	r.SetFont("Helvetica", "", 10)
	r.CellFormat(0, 6, "Generated: "+time.Now().Format("2006-01-02 15:04:05"), "", 1, "C", false, 0, "")
	r.Ln(4)
	return r
}

func (r *pdfReport) heading(text string) {
	r.Ln(3)
	r.SetFont("Helvetica", "B", 13)
	r.CellFormat(0, 8, r.tr(text), "", 1, "L", false, 0, "")
}

func (r *pdfReport) line(text string) {
	r.SetFont("Helvetica", "", 10)
	r.CellFormat(0, 6, r.tr(text), "", 1, "L", false, 0, "")
}

func (r *pdfReport) table(columns []pdfColumn, rows [][]string) {
	r.SetFont("Helvetica", "B", 9)
	r.SetFillColor(52, 73, 94)
	r.SetTextColor(255, 255, 255)
	for _, column := range columns {
		r.CellFormat(column.width, 7, column.header, "1", 0, "C", true, 0, "")
	}
	r.Ln(-1)

	r.SetFont("Helvetica", "", 9)
	r.SetTextColor(0, 0, 0)
	r.SetFillColor(236, 240, 241)
	for i, row := range rows {
		for j, cell := range row {
			width := columns[j].width
			r.CellFormat(width, 6, r.fit(r.tr(cell), width-2), "1", 0, "C", i%2 == 1, 0, "")
		}
		r.Ln(-1)
	}
}

// fit shortens text with a trailing "..." until it is at most width wide.
func (r *pdfReport) fit(text string, width float64) string {
	if r.GetStringWidth(text) <= width {
		return text
	}
	for len(text) > 0 && r.GetStringWidth(text+"...") > width {
		text = text[:len(text)-1]
	}
	return text + "..."
}

func resultRows(results []compression.Result) [][]string {
	rows := make([][]string, 0, len(results))
	for _, result := range results {
		name := result.Algorithm
		if result.Baseline {
			name += " (baseline)"
		}
		verdict := "PASSED"
		if !result.IsCorrect {
			verdict = "FAILED"
		}
		rows = append(rows, []string{
			name,
			FormatSize(result.OriginalSize),
			FormatSize(result.CompressedSize),
			fmt.Sprintf("%.4f", result.CompressionRatio),
			fmt.Sprintf("%.2f%%", result.SpaceSavingPercent),
			fmt.Sprintf("%.4f", result.TotalTime),
			verdict,
		})
	}
	return rows
}

// fastest returns the correct, non-baseline result with the lowest
// compression time.
func fastest(results []compression.Result) (compression.Result, bool) {
	var (
		best  compression.Result
		found bool
	)
	for _, r := range results {
		if !r.IsCorrect || r.Baseline {
			continue
		}
		if !found || r.CompressionTime < best.CompressionTime {
			best, found = r, true
		}
	}
	return best, found
}

// WriteComparisonPDF writes one results table per section, each followed by
// its best ratio and fastest codec.
func WriteComparisonPDF(w io.Writer, title string, sections []PDFSection) error {
	r := newPDFReport(title)
	r.line(fmt.Sprintf("Files compared: %d", len(sections)))

	for _, section := range sections {
		r.heading(section.Title)
		r.table(resultColumns, resultRows(section.Results))
		r.Ln(2)
		if best, ok := Best(section.Results); ok {
			r.line(fmt.Sprintf("Best compression ratio: %s (%.4f, %.2f%% saved)",
				best.Algorithm, best.CompressionRatio, best.SpaceSavingPercent))
		}
		if quickest, ok := fastest(section.Results); ok {
			r.line(fmt.Sprintf("Fastest compression: %s (%.6fs)", quickest.Algorithm, quickest.CompressionTime))
		}
	}
	return r.Output(w)
}

// WriteHistoryPDF writes the store statistics followed by records in the
// order given.
func WriteHistoryPDF(w io.Writer, records []history.Record, stats history.Statistics) error {
	r := newPDFReport("Compression History Report")

	r.heading("Overall Statistics")
	r.line(fmt.Sprintf("Total compressions: %d", stats.TotalCompressions))
	r.line("By algorithm:")
	for _, algorithm := range sortedKeys(stats.AlgorithmStats) {
		line := fmt.Sprintf("    %s: %d", algorithm, stats.AlgorithmStats[algorithm])
		if averages, ok := stats.AverageStats[algorithm]; ok {
			line += fmt.Sprintf(" (avg ratio %.4f, avg saved %.2f%%)", averages.AvgRatio, averages.AvgSavings)
		}
		r.line(line)
	}
	r.line("By file type:")
	for _, fileType := range sortedKeys(stats.FileTypeStats) {
		r.line(fmt.Sprintf("    %s: %d", fileType, stats.FileTypeStats[fileType]))
	}

	r.heading("Recent Compression History")
	if len(records) == 0 {
		r.line("No compressions recorded.")
		return r.Output(w)
	}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Timestamp.Format("2006-01-02 15:04:05"),
			record.Filename,
			record.Algorithm,
			fmt.Sprintf("%.4f", record.CompressionRatio),
			fmt.Sprintf("%.2f%%", record.SpaceSavings),
			fmt.Sprintf("%.4f", record.Duration),
		})
	}
	r.table(historyColumns, rows)
	return r.Output(w)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
