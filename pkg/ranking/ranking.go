package ranking

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"lintang/walkability/pkg/concurrent"
	"lintang/walkability/pkg/engine"
	"lintang/walkability/pkg/server/rest/service"
	"lintang/walkability/pkg/util"

	"golang.org/x/exp/slices"
)

var ErrBadHeader = errors.New("regions csv needs region, lat and lon columns")

type Analyzer interface {
	Analyze(ctx context.Context, p service.AnalyzeParams) (*engine.Analysis, error)
}

type Row struct {
	Region string
	Score  float64
	Grade  string
	Lat    float64
	Lon    float64
}

// ReadRegions reads a csv with a header row. The name column may be called region,
// district or name.
func ReadRegions(r io.Reader) ([]concurrent.RegionJobItem, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	nameCol, latCol, lonCol := -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case "region", "district", "name":
			if nameCol < 0 {
				nameCol = i
			}
		case "lat", "latitude":
			latCol = i
		case "lon", "lng", "longitude":
			lonCol = i
		}
	}
	if nameCol < 0 || latCol < 0 || lonCol < 0 {
		return nil, ErrBadHeader
	}

	var regions []concurrent.RegionJobItem
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(rec[latCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d lat: %w", line, err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(rec[lonCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d lon: %w", line, err)
		}
		regions = append(regions, concurrent.RegionJobItem{Name: rec[nameCol], Lat: lat, Lon: lon})
	}
	return regions, nil
}

type rankResult struct {
	row Row
	err error
}

// Rank scores every region on a worker pool. Regions whose analysis fails are logged and
// left out. Rows come back sorted by score, highest first, ties by region name.
func Rank(ctx context.Context, a Analyzer, regions []concurrent.RegionJobItem, workers int, logger *slog.Logger, onDone func()) []Row {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	pool := concurrent.NewWorkerPool[concurrent.RegionJobItem, rankResult](workers, len(regions))
	for _, r := range regions {
		pool.AddJob(r)
	}
	pool.Close()

	pool.Start(func(job concurrent.RegionJobItem) rankResult {
		res, err := a.Analyze(ctx, service.AnalyzeParams{Lat: job.Lat, Lon: job.Lon})
		if onDone != nil {
			onDone()
		}
		if err != nil {
			return rankResult{row: Row{Region: job.Name}, err: err}
		}
		return rankResult{row: Row{
			Region: job.Name,
			Score:  res.Result.CompositeScore,
			Grade:  res.Result.Grade,
			Lat:    job.Lat,
			Lon:    job.Lon,
		}}
	})
	pool.Wait()

	rows := make([]Row, 0, len(regions))
	for r := range pool.CollectResults() {
		if r.err != nil {
			logger.Warn("region skipped", slog.String("region", r.row.Region), slog.String("error", r.err.Error()))
			continue
		}
		rows = append(rows, r.row)
	}
	slices.SortFunc(rows, func(a, b Row) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return strings.Compare(a.Region, b.Region)
	})
	return rows
}

func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"region", "score", "grade", "lat", "lon"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Region,
			strconv.FormatFloat(util.RoundFloat(r.Score, 2), 'f', -1, 64),
			r.Grade,
			strconv.FormatFloat(r.Lat, 'f', -1, 64),
			strconv.FormatFloat(r.Lon, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
