package instructions

import (
	"crowdwatch-worker-go/internal/models"
)

// template placeholders: {zone}, {exits} and {severity}
type levelTemplate struct {
	singleExit    string
	multipleExits string
	icon          string
	priority      models.InstructionPriority
}

var templates = [models.LevelCount]levelTemplate{
	models.LevelSafe: {
		singleExit:    "Zone {zone}: ✓ NORMAL OPERATIONS. Continue monitoring conditions. Nearest exit: {exits}.",
		multipleExits: "Zone {zone}: ✓ NORMAL OPERATIONS. Continue monitoring conditions. Available exits: {exits}.",
		icon:          "✓",
		priority:      models.PriorityLow,
	},
	models.LevelModerate: {
		singleExit: "Zone {zone}: ⚠ INCREASED DENSITY detected. Maintain orderly movement. " +
			"If evacuation needed, proceed toward {exits} exit. Monitor for escalation.",
		multipleExits: "Zone {zone}: ⚠ INCREASED DENSITY detected. Maintain orderly movement. " +
			"If evacuation needed, available exits: {exits}. Monitor for escalation.",
		icon:     "⚠",
		priority: models.PriorityMedium,
	},
	models.LevelWarning: {
		singleExit: "Zone {zone}: ⚠️ HIGH DENSITY WARNING! Slow crowd movement immediately. " +
			"Prepare for possible redirection to {exits} exit. " +
			"Deploy security personnel. Restrict new entries to this zone.",
		multipleExits: "Zone {zone}: ⚠️ HIGH DENSITY WARNING! Slow crowd movement immediately. " +
			"Prepare for possible redirection. Optimal exit routes: {exits}. " +
			"Deploy security personnel. Restrict new entries to this zone.",
		icon:     "⚠️",
		priority: models.PriorityHigh,
	},
	models.LevelCritical: {
		singleExit: "Zone {zone}: 🔴 CRITICAL CONGESTION! IMMEDIATE ACTION REQUIRED. " +
			"RESTRICT all entry to this zone. BEGIN controlled evacuation via {exits} exit. " +
			"Deploy all available personnel. Situation severity: {severity}/100. " +
			"Potential for escalation to emergency.",
		multipleExits: "Zone {zone}: 🔴 CRITICAL CONGESTION! IMMEDIATE ACTION REQUIRED. " +
			"RESTRICT all entry to this zone. BEGIN controlled evacuation. " +
			"Direct crowd to: {exits}. Deploy all available personnel. " +
			"Situation severity: {severity}/100. Potential for escalation to emergency.",
		icon:     "🔴",
		priority: models.PriorityCritical,
	},
	models.LevelEmergency: {
		singleExit: "Zone {zone}: 🚨 EMERGENCY - EVACUATE NOW! " +
			"IMMEDIATE evacuation required via {exits} exit. " +
			"ALL PERSONNEL: Priority response needed. Severity: {severity}/100. " +
			"⚠️ POTENTIAL STAMPEDE RISK. Activate emergency protocols. " +
			"Clear evacuation path. Prevent entry from all directions.",
		multipleExits: "Zone {zone}: 🚨 EMERGENCY - EVACUATE NOW! " +
			"IMMEDIATE evacuation required. Direct to nearest: {exits}. " +
			"ALL PERSONNEL: Priority response needed. Severity: {severity}/100. " +
			"⚠️ POTENTIAL STAMPEDE RISK. Activate emergency protocols. " +
			"Clear all evacuation paths. Prevent entry from all directions.",
		icon:     "🚨",
		priority: models.PriorityEmergency,
	},
}

func templateFor(level models.Level) levelTemplate {
	if !level.Valid() {
		return templates[models.LevelSafe]
	}
	return templates[level]
}

var priorityRank = map[models.InstructionPriority]int{
	models.PriorityEmergency: 0,
	models.PriorityCritical:  1,
	models.PriorityHigh:      2,
	models.PriorityMedium:    3,
	models.PriorityLow:       4,
}
