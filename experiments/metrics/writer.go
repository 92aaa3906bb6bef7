package metrics

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

type GameRecord struct {
	Config int // AgentConfig.ID
	Round  int // Index of the seed shared by every agent
	GameMetric
}

type MoveRecord struct {
	Game string // GameMetric.ID
	MoveMetric
}

// Setup describes an experiment run so results can be reproduced.
type Setup struct {
	Name    string        `json:"name"`
	Width   int           `json:"width"`
	Height  int           `json:"height"`
	Seeds   []string      `json:"seeds"`
	Configs []AgentConfig `json:"configs"`
	Started time.Time     `json:"started"`
}

// MoveRow is the parquet layout of a MoveRecord.
type MoveRow struct {
	Game       string `parquet:"game,dict"`
	Agent      string `parquet:"agent,dict"`
	Step       int32  `parquet:"step"`
	Move       string `parquet:"move,dict"`
	Score      int32  `parquet:"score"`
	Length     int32  `parquet:"length"`
	Depth      int32  `parquet:"depth"`
	DurationUs int64  `parquet:"duration_us"`
	Nodes      int32  `parquet:"nodes"`
	Leaves     int32  `parquet:"leaves"`
	Cutoffs    int32  `parquet:"cutoffs"`
	CacheHits  int32  `parquet:"cache_hits"`
	Stage      string `parquet:"stage,dict"`
}

type Writer struct {
	baseDir string
}

func NewWriter(root, name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("20060102T150405.000Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteSetup(setup Setup) error {
	data, err := json.MarshalIndent(setup, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode setup: %w", err)
	}
	err = os.WriteFile(filepath.Join(w.baseDir, "setup.json"), data, 0644)
	if err != nil {
		return fmt.Errorf("failed to write setup: %w", err)
	}
	return nil
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	// Create a file
	path := filepath.Join(w.baseDir, "agent_configs.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create agent configs file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	// Write header
	header := []string{"id", "kind", "depth", "memory", "exact_cache", "goroutines", "episodes", "duration", "cutoff", "model"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write agent configs header: %w", err)
	}

	// Write each row
	for _, config := range configs {
		row := []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.Itoa(config.Depth),
			strconv.Itoa(config.Memory),
			strconv.FormatBool(config.ExactCache),
			strconv.Itoa(config.Goroutines),
			strconv.Itoa(config.Episodes),
			config.Duration.String(),
			strconv.Itoa(config.Cutoff),
			config.Model,
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write agent config row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	// Create a file
	path := filepath.Join(w.baseDir, "game_records.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create game records file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	// Write header
	header := []string{"id", "config", "round", "agent", "seed", "width", "height", "score", "length", "ticks", "termination", "start_time", "end_time", "duration"}
	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write game records header: %w", err)
	}

	// Write each row
	for _, record := range records {
		row := []string{
			record.ID,
			strconv.Itoa(record.Config),
			strconv.Itoa(record.Round),
			record.Agent,
			record.Seed,
			strconv.Itoa(record.Width),
			strconv.Itoa(record.Height),
			strconv.Itoa(record.Score),
			strconv.Itoa(record.Length),
			strconv.Itoa(record.Ticks),
			record.Termination,
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
		}
		err = writer.Write(row)
		if err != nil {
			return fmt.Errorf("failed to write game record row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteMoveRecords stores per-move search metrics as zstd compressed parquet.
// The file appears only once it is complete.
func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	rows := make([]MoveRow, len(records))
	for i, record := range records {
		rows[i] = MoveRow{
			Game:       record.Game,
			Agent:      record.Agent,
			Step:       int32(record.Step),
			Move:       record.Move,
			Score:      int32(record.Score),
			Length:     int32(record.Length),
			Depth:      int32(record.Depth),
			DurationUs: record.Duration.Microseconds(),
			Nodes:      int32(record.Nodes),
			Leaves:     int32(record.Leaves),
			Cutoffs:    int32(record.Cutoffs),
			CacheHits:  int32(record.CacheHits),
			Stage:      record.Stage,
		}
	}

	path := filepath.Join(w.baseDir, "move_records.parquet")
	tmpPath := path + ".tmp"
	_ = os.Remove(tmpPath)

	err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "move_row_v1"),
	)
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write move records: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename move records: %w", err)
	}
	return nil
}

func ReadMoveRows(path string) ([]MoveRow, error) {
	rows, err := parquet.ReadFile[MoveRow](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read move records: %w", err)
	}
	return rows, nil
}
