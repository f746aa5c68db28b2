package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Load reads a summary from a .yaml/.yml summary or a .parquet ledger.
func Load(filename string) (Summary, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return LoadYAML(filename)
	case ".parquet":
		rows, err := ReadLedger(filename)
		if err != nil {
			return Summary{}, err
		}
		return FromLedger(rows), nil
	default:
		return Summary{}, fmt.Errorf("unsupported report file: %s (expected .yaml or .parquet)", filename)
	}
}

// Export writes sum to filename, choosing the encoding from the extension.
func Export(filename string, sum Summary) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return SaveYAML(filename, sum)
	case ".parquet":
		return WriteLedger(filename, LedgerRows(sum))
	default:
		return fmt.Errorf("unsupported report file: %s (expected .yaml or .parquet)", filename)
	}
}

// Render writes sum to w as text, json or csv.
func Render(w io.Writer, sum Summary, format string, human bool) error {
	switch format {
	case "text":
		return renderText(w, sum, human)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sum)
	case "csv":
		return renderCSV(w, sum)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func renderText(w io.Writer, sum Summary, human bool) error {
	size := func(n uint64) string {
		if human {
			return fmt.Sprintf("%s (%s)", humanize.Comma(int64(n)), humanize.Bytes(n))
		}
		return strconv.FormatUint(n, 10)
	}

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "Storage Estimate Report")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Session: %s\n", sum.SessionID)
	if !sum.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Created: %s\n", sum.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Images (%d):\n", len(sum.Images))
	for _, img := range sum.Images {
		grouped := ""
		if img.Grouped {
			grouped = "  [grouped]"
		}
		fmt.Fprintf(w, "  [%d] %-4s %dx%d  size: %s%s\n", img.ID, img.Format, img.Width, img.Height, size(img.Size), grouped)
	}

	if len(sum.Groups) > 0 {
		fmt.Fprintf(w, "\nGroups (%d):\n", len(sum.Groups))
		for i, g := range sum.Groups {
			ids := make([]string, 0, len(g.Members))
			for _, m := range g.Members {
				ids = append(ids, strconv.Itoa(m.ID))
			}
			fmt.Fprintf(w, "  #%d members [%s]  previous: %s  compressed: %s  delta: %d\n",
				i+1, strings.Join(ids, " "), size(g.PreCompression), size(g.Compressed), g.Delta)
		}
	}

	fmt.Fprintln(w)
	if human {
		fmt.Fprintf(w, "Total size: %s bytes\n", humanize.Comma(sum.Total))
	} else {
		fmt.Fprintf(w, "Total size: %d bytes\n", sum.Total)
	}
	return nil
}

func renderCSV(w io.Writer, sum Summary) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"kind", "id", "format", "width", "height", "size", "compressed", "contribution", "members"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range LedgerRows(sum) {
		members := make([]string, 0, len(row.Members))
		for _, id := range row.Members {
			members = append(members, strconv.FormatInt(id, 10))
		}
		record := []string{
			row.Kind,
			strconv.FormatInt(row.ImageID, 10),
			row.Format,
			strconv.FormatInt(row.Width, 10),
			strconv.FormatInt(row.Height, 10),
			strconv.FormatInt(row.Size, 10),
			strconv.FormatInt(row.Compressed, 10),
			strconv.FormatInt(row.Contribution, 10),
			strings.Join(members, " "),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
