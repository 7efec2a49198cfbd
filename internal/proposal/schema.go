package proposal

import (
	"github.com/opinity/proposal-generator/internal/llm"
	"github.com/opinity/proposal-generator/internal/types"
)

var basicProperties = map[string]*llm.Schema{
	"challenge":    llm.String("Description of the problem focusing on waste and flow."),
	"approach":     llm.String("Proposed team composition and roles."),
	"solution":     llm.String("Technical solution including CI/CD, DORA, and VSM session."),
	"trinityFocus": llm.String("How this aligns with Happy Engineers, DevOps Mindset, and Winning Together."),
	"investment":   llm.String("Estimated hours or cost structure, incorporating the user provided budget."),
}

var basicRequired = []string{"challenge", "approach", "solution", "trinityFocus", "investment"}

// ResponseSchema returns the structured output schema requested from the model for variant.
func ResponseSchema(variant types.SchemaVariant) *llm.Schema {
	props := make(map[string]*llm.Schema, len(basicProperties)+3)
	for name, s := range basicProperties {
		props[name] = s
	}
	required := append([]string(nil), basicRequired...)

	if variant == types.VariantExtended {
		props["vsmSession"] = llm.String("The Value Stream Mapping session: goal, participants, outcome and fixed price.")
		props["doraMetrics"] = llm.String("The four DORA metrics and how each will be measured for this client.")
		props["azureDevOpsExport"] = &llm.Schema{
			Type:        llm.TypeObject,
			Description: "Backlog ready for import into Azure DevOps.",
			Properties: map[string]*llm.Schema{
				"projectMission": llm.String("One sentence project mission."),
				"userStories":    llm.ArrayOf("Ordered backlog of user stories.", userStorySchema()),
			},
			Required: []string{"projectMission", "userStories"},
		}
		required = append(required, "vsmSession", "doraMetrics", "azureDevOpsExport")
	}

	return &llm.Schema{
		Type:       llm.TypeObject,
		Properties: props,
		Required:   required,
	}
}

func userStorySchema() *llm.Schema {
	return &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"id":                 llm.String("Unique story id such as US-001."),
			"title":              llm.String("Short story title."),
			"description":        llm.String("As a ..., I want ..., so that ..."),
			"acceptanceCriteria": llm.ArrayOf("Acceptance criteria, at least one.", llm.String("One testable criterion.")),
			"priority":           llm.Enum("Backlog priority.", string(types.PriorityHigh), string(types.PriorityMedium), string(types.PriorityLow)),
		},
		Required: []string{"id", "title", "description", "acceptanceCriteria", "priority"},
	}
}

func schemaName(variant types.SchemaVariant) string {
	return "opinity_proposal_" + string(variant)
}
