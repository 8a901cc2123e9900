package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/model"
)

// outputHeader is the fixed result column set, in order.
var outputHeader = []string{
	"username",
	"role_title",
	"job_title",
	"vendor_role",

	"final_family",
	"final_canonical_role",

	"family_score",
	"family_second_score",
	"family_margin",
	"family_needs_review",

	"role_score",
	"role_second_score",
	"role_margin",
	"role_needs_review",

	"contributing_fields",
	"needs_review",

	"final_level",
	"final_specialization",

	"role_title_candidates",
	"job_title_candidates",
	"vendor_role_candidates",

	"errors",
}

// Save writes result rows to a CSV file, replacing any existing file.
func Save(path string, rows []model.ResultRow) error {
	f, err := os.Create(path) // #nosec G304 -- operator-supplied output path
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Write(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Write emits the header and one CSV row per result row.
func Write(w io.Writer, rows []model.ResultRow) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(outputHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		if err := writer.Write(formatRow(row)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

func formatRow(row model.ResultRow) []string {
	res := row.Result

	level := ""
	if row.Level != nil {
		level = strconv.Itoa(*row.Level)
	}

	return []string{
		row.Record.Username,
		row.Record.RoleTitle,
		row.Record.JobTitle,
		row.Record.VendorRole,

		res.FinalFamily,
		res.FinalRole,

		formatScore(res.FamilyScore),
		formatScore(res.FamilySecondScore),
		formatScore(res.FamilyMargin),
		strconv.FormatBool(res.FamilyNeedsReview),

		formatScore(res.RoleScore),
		formatScore(res.RoleSecondScore),
		formatScore(res.RoleMargin),
		strconv.FormatBool(res.RoleNeedsReview),

		strconv.Itoa(res.ContributingFields),
		strconv.FormatBool(res.NeedsReview),

		level,
		row.Specialization,

		row.RoleTitleCandidates,
		row.JobTitleCandidates,
		row.VendorRoleCandidates,

		row.Errors,
	}
}

// formatScore rounds diagnostics to four decimal places for the output row.
func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
