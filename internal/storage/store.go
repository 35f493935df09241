package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/sortviz/internal/animate"
	"github.com/san-kum/sortviz/internal/scene"
	"github.com/san-kum/sortviz/internal/sorting"
	"github.com/san-kum/sortviz/internal/visualizer"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Algorithm string             `json:"algorithm"`
	Timestamp time.Time          `json:"timestamp"`
	PacingMs  int64              `json:"pacing_ms"`
	ElapsedMs int64              `json:"elapsed_ms"`
	Initial   []int              `json:"initial"`
	Final     []int              `json:"final"`
	Steps     int                `json:"steps"`
	Sorted    bool               `json:"sorted"`
	Cancelled bool               `json:"cancelled"`
	Stale     bool               `json:"stale"`
	Metrics   map[string]float64 `json:"metrics"`
}

// StepRow is one line of steps.csv.
type StepRow struct {
	Index   int
	Step    sorting.Step
	Outcome string
	Values  []int
}

func (s *Store) Save(report *visualizer.Report) (string, error) {
	runID := fmt.Sprintf("%s_%d", report.Algorithm, report.Started.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Algorithm: string(report.Algorithm),
		Timestamp: report.Started,
		PacingMs:  report.Pacing.Milliseconds(),
		ElapsedMs: report.Elapsed.Milliseconds(),
		Initial:   report.Initial,
		Final:     report.Final,
		Steps:     len(report.Records),
		Sorted:    report.Sorted,
		Cancelled: report.Cancelled,
		Stale:     report.Stale,
		Metrics:   report.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "steps.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := w.Write([]string{"step", "op", "i", "j", "a", "b", "outcome", "values"}); err != nil {
		return "", err
	}
	for _, rec := range report.Records {
		row := []string{
			strconv.Itoa(rec.Index),
			rec.Step.Op.String(),
			strconv.Itoa(rec.Step.I),
			strconv.Itoa(rec.Step.J),
			string(rec.Step.A),
			string(rec.Step.B),
			rec.Outcome.String(),
			joinInts(rec.Values),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns every stored run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) LoadSteps(runID string) ([]StepRow, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "steps.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 8

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []StepRow{}, nil
	}

	rows := make([]StepRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", runID, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (StepRow, error) {
	idx, err := strconv.Atoi(rec[0])
	if err != nil {
		return StepRow{}, err
	}
	op, err := sorting.ParseOp(rec[1])
	if err != nil {
		return StepRow{}, err
	}
	i, err := strconv.Atoi(rec[2])
	if err != nil {
		return StepRow{}, err
	}
	j, err := strconv.Atoi(rec[3])
	if err != nil {
		return StepRow{}, err
	}
	values, err := splitInts(rec[7])
	if err != nil {
		return StepRow{}, err
	}
	return StepRow{
		Index:   idx,
		Step:    sorting.Step{Op: op, I: i, J: j, A: scene.Identity(rec[4]), B: scene.Identity(rec[5])},
		Outcome: rec[6],
		Values:  values,
	}, nil
}

// Applied reports whether the row moved bars on screen.
func (r StepRow) Applied() bool { return r.Outcome == animate.Applied.String() }

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

func splitInts(s string) ([]int, error) {
	fields := strings.Fields(s)
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
