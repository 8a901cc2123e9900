package llm

import (
	"fmt"
	"strings"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/taxonomy"
)

// buildFieldPrompt creates the strict-JSON classification prompt for one
// field's text. The prompt pins the allowed role list, so its content is
// versioned alongside the taxonomy in the cache key.
func buildFieldPrompt(tax *taxonomy.Taxonomy, fieldName, fieldText string) string {
	roleList := "- " + strings.Join(tax.Roles(), "\n- ")

	return fmt.Sprintf(`You are a strict taxonomy classifier.
Allowed canonical roles:
%s

Return ONLY valid JSON with this schema:
{
  "field": "<field_name>",
  "text": "<original_text>",
  "candidates": [
    {"canonical_role": "<one of allowed canonical roles>", "confidence": <0..1>}
  ],
  "level": <1..5 or null>,
  "specialization": "<string or null>"
}
Rules:
- Always return exactly 3 candidates, sorted by confidence desc.
- Each confidence must be between 0 and 1.
- The sum of confidences across the 3 candidates must equal 1.0.
- Avoid ties unless truly indistinguishable.
- Do not output roles outside the allowed list.
- level must be null unless the text explicitly includes a seniority keyword.
- Seniority keywords: Junior=1, Mid=3, Senior=4, Lead/Principal/Staff=5.
- specialization must be null unless explicitly stated (e.g., Android, iOS, Backend, Frontend, Automation, Kubernetes).
- Output JSON only. No markdown.
- If the input text is generic (e.g., 'Software Engineer'), prefer broader canonical roles over very specific ones.
Now classify field=%q text=%q.`, roleList, fieldName, fieldText)
}
