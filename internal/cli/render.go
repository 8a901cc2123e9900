package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/model"
)

// RenderDecision prints one aggregated decision in a human-readable form.
func RenderDecision(w io.Writer, row model.ResultRow) {
	res := row.Result

	fmt.Fprintln(w, TitleStyle.Render("Decision"))

	family := res.FinalFamily
	if family == "" {
		family = "(undetermined)"
	}
	role := res.FinalRole
	if role == "" {
		role = "(undetermined)"
	}

	fmt.Fprintf(w, "  %s %s\n", BoldStyle.Render("Family:"), decisionText(family, res.FamilyNeedsReview))
	fmt.Fprintf(w, "  %s   %s\n", BoldStyle.Render("Role:"), decisionText(role, res.RoleNeedsReview))
	fmt.Fprintf(w, "  %s\n", SubtleStyle.Render(fmt.Sprintf(
		"family score %.4f (margin %.4f), role score %.4f (margin %.4f), %d contributing field(s)",
		res.FamilyScore, res.FamilyMargin, res.RoleScore, res.RoleMargin, res.ContributingFields)))

	if row.Level != nil || row.Specialization != "" {
		level := "-"
		if row.Level != nil {
			level = fmt.Sprintf("%d", *row.Level)
		}
		spec := row.Specialization
		if spec == "" {
			spec = "-"
		}
		fmt.Fprintf(w, "  %s level %s, specialization %s\n", SubtleStyle.Render("Attributes:"), level, spec)
	}

	if res.NeedsReview {
		fmt.Fprintln(w, "  "+FormatWarning("needs review"))
	} else {
		fmt.Fprintln(w, "  "+FormatSuccess("trusted"))
	}

	if row.Errors != "" {
		fmt.Fprintln(w, "  "+FormatError(row.Errors))
	}
}

// RenderSummary prints pipeline completion statistics.
func RenderSummary(w io.Writer, rows []model.ResultRow, outputPath string) {
	review := 0
	errored := 0
	for _, row := range rows {
		if row.Result.NeedsReview {
			review++
		}
		if row.Errors != "" {
			errored++
		}
	}

	fmt.Fprintln(w, TitleStyle.Render("Classification complete"))
	fmt.Fprintf(w, "  %s\n", FormatSuccess(fmt.Sprintf("%d record(s) processed", len(rows))))
	if review > 0 {
		fmt.Fprintf(w, "  %s\n", FormatWarning(fmt.Sprintf("%d record(s) flagged for review", review)))
	}
	if errored > 0 {
		fmt.Fprintf(w, "  %s\n", FormatError(fmt.Sprintf("%d record(s) with field errors", errored)))
	}
	fmt.Fprintf(w, "  %s\n", SubtleStyle.Render("results written to "+outputPath))
}

func decisionText(name string, needsReview bool) string {
	if needsReview {
		return WarningStyle.Render(name)
	}
	return SuccessStyle.Render(name)
}

// RenderBreakdown prints a ranked score list for audit output.
func RenderBreakdown(w io.Writer, label string, ranked []model.ScoredName) {
	if len(ranked) == 0 {
		return
	}
	var parts []string
	for _, s := range ranked {
		parts = append(parts, fmt.Sprintf("%s=%.4f", s.Name, s.Score))
	}
	fmt.Fprintf(w, "  %s %s\n", SubtleStyle.Render(label+":"), strings.Join(parts, ", "))
}
