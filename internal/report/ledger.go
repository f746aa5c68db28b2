package report

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/lehigh-university-libraries/storagecalc/internal/estimator"
	"github.com/lehigh-university-libraries/storagecalc/internal/footprint"
	"github.com/lehigh-university-libraries/storagecalc/internal/registry"
	"github.com/parquet-go/parquet-go"
)

// Ledger row kinds.
const (
	KindImage = "image"
	KindGroup = "group"
)

// LedgerRow is one event of a session in the order it happened: an image
// creation or a group compression. Contribution is what the event added to
// the running total.
type LedgerRow struct {
	SessionID    string  `parquet:"session_id"`
	CreatedAt    int64   `parquet:"created_at"`
	Seq          int64   `parquet:"seq"`
	Kind         string  `parquet:"kind"`
	ImageID      int64   `parquet:"image_id"`
	Format       string  `parquet:"format"`
	Width        int64   `parquet:"width"`
	Height       int64   `parquet:"height"`
	Size         int64   `parquet:"size"`
	Grouped      bool    `parquet:"grouped"`
	Requested    []int64 `parquet:"requested"`
	Members      []int64 `parquet:"members"`
	MemberSizes  []int64 `parquet:"member_sizes"`
	Compressed   int64   `parquet:"compressed"`
	Contribution int64   `parquet:"contribution"`
}

// LedgerRows flattens a summary into one row per event, in the order the
// events happened. A summary without an event log lists its images first
// and then its groups.
func LedgerRows(sum Summary) []LedgerRow {
	events := sum.Events
	if len(events) == 0 {
		events = defaultEvents(sum)
	}

	rows := make([]LedgerRow, 0, len(events))
	created := sum.CreatedAt.UnixMilli()

	for _, ev := range events {
		row := LedgerRow{
			SessionID: sum.SessionID,
			CreatedAt: created,
			Seq:       int64(len(rows) + 1),
		}
		switch {
		case ev.Kind == estimator.EventImage && ev.Index >= 0 && ev.Index < len(sum.Images):
			imageRow(&row, sum.Images[ev.Index])
		case ev.Kind == estimator.EventGroup && ev.Index >= 0 && ev.Index < len(sum.Groups):
			groupRow(&row, sum.Groups[ev.Index])
		default:
			slog.Warn("Skipping event outside the summary", "kind", ev.Kind, "index", ev.Index)
			continue
		}
		rows = append(rows, row)
	}

	return rows
}

func defaultEvents(sum Summary) []estimator.Event {
	events := make([]estimator.Event, 0, len(sum.Images)+len(sum.Groups))
	for i := range sum.Images {
		events = append(events, estimator.Event{Kind: estimator.EventImage, Index: i})
	}
	for i := range sum.Groups {
		events = append(events, estimator.Event{Kind: estimator.EventGroup, Index: i})
	}
	return events
}

func imageRow(row *LedgerRow, img ImageRow) {
	row.Kind = KindImage
	row.ImageID = int64(img.ID)
	row.Format = img.Format
	row.Width = int64(img.Width)
	row.Height = int64(img.Height)
	row.Size = int64(img.Size)
	row.Grouped = img.Grouped
	row.Contribution = int64(img.Size)
}

func groupRow(row *LedgerRow, g registry.GroupResult) {
	row.Kind = KindGroup
	row.Size = int64(g.PreCompression)
	row.Compressed = int64(g.Compressed)
	row.Contribution = g.Delta
	row.Requested = make([]int64, 0, len(g.Requested))
	row.Members = make([]int64, 0, len(g.Members))
	row.MemberSizes = make([]int64, 0, len(g.Members))
	for _, id := range g.Requested {
		row.Requested = append(row.Requested, int64(id))
	}
	for _, m := range g.Members {
		row.Members = append(row.Members, int64(m.ID))
		row.MemberSizes = append(row.MemberSizes, int64(m.Size))
	}
}

// FromLedger rebuilds a summary from ledger rows. The total is recomputed
// from the contributions.
func FromLedger(rows []LedgerRow) Summary {
	var sum Summary
	formats := map[int64]string{}

	rows = append([]LedgerRow(nil), rows...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Seq < rows[j].Seq })

	for _, row := range rows {
		if sum.SessionID == "" {
			sum.SessionID = row.SessionID
			sum.CreatedAt = time.UnixMilli(row.CreatedAt)
		}
		sum.Total += row.Contribution

		switch row.Kind {
		case KindImage:
			formats[row.ImageID] = row.Format
			sum.Events = append(sum.Events, estimator.Event{Kind: estimator.EventImage, Index: len(sum.Images)})
			sum.Images = append(sum.Images, ImageRow{
				ID:      int(row.ImageID),
				Format:  row.Format,
				Width:   uint64(row.Width),
				Height:  uint64(row.Height),
				Size:    uint64(row.Size),
				Grouped: row.Grouped,
			})
		case KindGroup:
			g := registry.GroupResult{
				Requested:      make([]int, 0, len(row.Requested)),
				Members:        make([]registry.Member, 0, len(row.Members)),
				PreCompression: uint64(row.Size),
				Compressed:     uint64(row.Compressed),
				Delta:          row.Contribution,
			}
			for _, id := range row.Requested {
				g.Requested = append(g.Requested, int(id))
			}
			for i, id := range row.Members {
				m := registry.Member{ID: int(id), Format: formatLabel(formats[id])}
				if i < len(row.MemberSizes) {
					m.Size = uint64(row.MemberSizes[i])
				}
				g.Members = append(g.Members, m)
			}
			sum.Events = append(sum.Events, estimator.Event{Kind: estimator.EventGroup, Index: len(sum.Groups)})
			sum.Groups = append(sum.Groups, g)
		default:
			slog.Warn("Skipping ledger row of unknown kind", "kind", row.Kind, "seq", row.Seq)
		}
	}

	return sum
}

func formatLabel(tag string) string {
	f, err := footprint.ParseFormat(tag)
	if err != nil {
		return tag
	}
	return f.String()
}

// WriteLedger writes rows to a Parquet file.
func WriteLedger(filename string, rows []LedgerRow) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[LedgerRow](file)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}

	slog.Debug("Wrote ledger", "path", filename, "rows", len(rows))
	return file.Close()
}

// ReadLedger loads every row of a Parquet ledger.
func ReadLedger(filename string) ([]LedgerRow, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened", "path", filename, "num_rows", pf.NumRows())

	reader := parquet.NewGenericReader[LedgerRow](pf)
	defer reader.Close()

	var records []LedgerRow
	for {
		// Fresh batch each read: repeated columns may share buffers.
		batch := make([]LedgerRow, 64)
		n, err := reader.Read(batch)
		records = append(records, batch[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
		if n == 0 {
			break
		}
	}

	return records, nil
}
