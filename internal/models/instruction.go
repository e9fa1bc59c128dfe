package models

// InstructionPriority ranks operator instructions
type InstructionPriority string

const (
	PriorityLow       InstructionPriority = "LOW"
	PriorityMedium    InstructionPriority = "MEDIUM"
	PriorityHigh      InstructionPriority = "HIGH"
	PriorityCritical  InstructionPriority = "CRITICAL"
	PriorityEmergency InstructionPriority = "EMERGENCY"
)

// Instruction is the exit-routing guidance generated for one zone
type Instruction struct {
	ZoneID           string              `json:"zone_id"`
	Row              int                 `json:"x"`
	Col              int                 `json:"y"`
	Level            Level               `json:"level"`
	Severity         float64             `json:"severity"`
	PrimaryExit      string              `json:"primary_exit"`
	AlternativeExits []string            `json:"alternative_exits"`
	Region           string              `json:"region"`
	Text             string              `json:"instruction_text"`
	Icon             string              `json:"icon"`
	Priority         InstructionPriority `json:"priority"`
}

// InstructionSummary aggregates a set of instructions
type InstructionSummary struct {
	TotalInstructions       int                         `json:"total_instructions"`
	PriorityBreakdown       map[InstructionPriority]int `json:"priority_breakdown"`
	ExitUsage               map[string]int              `json:"exit_usage"`
	RequiresImmediateAction int                         `json:"requires_immediate_action"`
	ZonesMonitored          int                         `json:"zones_monitored"`
}
