package instructions

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"crowdwatch-worker-go/internal/models"
)

// Region names double as exit names, except Central which has no exit
const (
	RegionNorth   = "North"
	RegionSouth   = "South"
	RegionEast    = "East"
	RegionWest    = "West"
	RegionCentral = "Central"
)

// DefaultMaxExits is how many nearest exits an instruction names
const DefaultMaxExits = 2

// edgeFraction of each dimension counts as the edge band next to an exit
const edgeFraction = 0.3

type exit struct {
	name     string
	row, col int
}

// Generator turns classification records into exit-routing instructions for a rows x cols grid.
// Exits sit at the midpoint of each side.
type Generator struct {
	rows, cols int
	edgeRows   int
	edgeCols   int
	maxExits   int
	exits      []exit
}

func NewGenerator(rows, cols, maxExits int) (*Generator, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions %dx%d", rows, cols)
	}
	if maxExits <= 0 {
		maxExits = DefaultMaxExits
	}

	g := &Generator{
		rows:     rows,
		cols:     cols,
		edgeRows: edgeBand(rows),
		edgeCols: edgeBand(cols),
		maxExits: maxExits,
		exits: []exit{
			{name: RegionNorth, row: 0, col: cols / 2},
			{name: RegionSouth, row: rows - 1, col: cols / 2},
			{name: RegionEast, row: rows / 2, col: cols - 1},
			{name: RegionWest, row: rows / 2, col: 0},
		},
	}
	if g.maxExits > len(g.exits) {
		g.maxExits = len(g.exits)
	}
	return g, nil
}

func edgeBand(n int) int {
	band := int(float64(n) * edgeFraction)
	if band < 1 {
		band = 1
	}
	return band
}

// Region classifies a cell. Rows take precedence over columns: North, South, East, West, then Central.
func (g *Generator) Region(row, col int) string {
	switch {
	case row < g.edgeRows:
		return RegionNorth
	case row >= g.rows-g.edgeRows:
		return RegionSouth
	case col >= g.cols-g.edgeCols:
		return RegionEast
	case col < g.edgeCols:
		return RegionWest
	default:
		return RegionCentral
	}
}

// NearestExits orders exits by Manhattan distance from the cell, ties broken by name
func (g *Generator) NearestExits(row, col int) []string {
	type ranked struct {
		name     string
		distance int
	}
	all := make([]ranked, 0, len(g.exits))
	for _, e := range g.exits {
		all = append(all, ranked{name: e.name, distance: abs(row-e.row) + abs(col-e.col)})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].distance != all[j].distance {
			return all[i].distance < all[j].distance
		}
		return all[i].name < all[j].name
	})

	names := make([]string, 0, g.maxExits)
	for _, r := range all[:g.maxExits] {
		names = append(names, r.name)
	}
	return names
}

// Generate builds the instruction for one zone
func (g *Generator) Generate(zoneID string, row, col int, level models.Level, severity float64) models.Instruction {
	exits := g.NearestExits(row, col)
	region := g.Region(row, col)
	tmpl := templateFor(level)

	text := tmpl.singleExit
	exitText := exits[0]
	if region == RegionCentral || len(exits) > 1 {
		text = tmpl.multipleExits
		exitText = strings.Join(exits, " and ")
	}
	text = strings.NewReplacer(
		"{zone}", zoneID,
		"{exits}", exitText,
		"{severity}", fmt.Sprintf("%.1f", severity),
	).Replace(text)

	return models.Instruction{
		ZoneID:           zoneID,
		Row:              row,
		Col:              col,
		Level:            level,
		Severity:         severity,
		PrimaryExit:      exits[0],
		AlternativeExits: append([]string{}, exits[1:]...),
		Region:           region,
		Text:             text,
		Icon:             tmpl.icon,
		Priority:         tmpl.priority,
	}
}

// GenerateBatch builds one instruction per record, in record order
func (g *Generator) GenerateBatch(records []models.ClassificationRecord) []models.Instruction {
	out := make([]models.Instruction, 0, len(records))
	for _, r := range records {
		out = append(out, g.Generate(r.ZoneID, r.Row, r.Col, r.Level, r.SeverityScore))
	}
	return out
}

// PriorityInstructions keeps EMERGENCY, CRITICAL and HIGH instructions, most urgent first
// and higher severity first within a priority
func PriorityInstructions(instructions []models.Instruction) []models.Instruction {
	out := make([]models.Instruction, 0)
	for _, inst := range instructions {
		if rank, ok := priorityRank[inst.Priority]; ok && rank <= priorityRank[models.PriorityHigh] {
			out = append(out, inst)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := priorityRank[out[i].Priority], priorityRank[out[j].Priority]
		if ri != rj {
			return ri < rj
		}
		return out[i].Severity > out[j].Severity
	})
	return out
}

// FormatDisplay renders an instruction as a single display line
func FormatDisplay(inst models.Instruction) string {
	return inst.Icon + " " + inst.Text
}

func Summarize(instructions []models.Instruction) models.InstructionSummary {
	summary := models.InstructionSummary{
		TotalInstructions: len(instructions),
		PriorityBreakdown: make(map[models.InstructionPriority]int, len(priorityRank)),
		ExitUsage:         make(map[string]int),
	}
	for p := range priorityRank {
		summary.PriorityBreakdown[p] = 0
	}
	for _, inst := range instructions {
		summary.PriorityBreakdown[inst.Priority]++
		summary.ExitUsage[inst.PrimaryExit]++
	}
	summary.RequiresImmediateAction = summary.PriorityBreakdown[models.PriorityEmergency] +
		summary.PriorityBreakdown[models.PriorityCritical]
	summary.ZonesMonitored = summary.PriorityBreakdown[models.PriorityMedium] +
		summary.PriorityBreakdown[models.PriorityLow]
	return summary
}

// Export writes instructions as an indented JSON array
func Export(w io.Writer, instructions []models.Instruction) error {
	if instructions == nil {
		instructions = []models.Instruction{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(instructions); err != nil {
		return fmt.Errorf("failed to encode instructions: %w", err)
	}
	return nil
}

// ExportFile writes instructions to path, creating parent directories
func ExportFile(path string, instructions []models.Instruction) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	defer f.Close()

	if err := Export(f, instructions); err != nil {
		return err
	}

	log.Info().
		Str("path", path).
		Int("instructions", len(instructions)).
		Msg("Instructions exported")
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
