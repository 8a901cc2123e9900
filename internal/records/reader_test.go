package records

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	t.Run("full header", func(t *testing.T) {
		input := `username,role_title,job_title,vendor_role
jdoe,Senior SDET,QA Lead,Test Automation Contractor
asmith, Data Engineer II ,,
`
		records, err := Read(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}

		if records[0].Username != "jdoe" || records[0].VendorRole != "Test Automation Contractor" {
			t.Errorf("unexpected first record: %+v", records[0])
		}
		if records[1].RoleTitle != "Data Engineer II" {
			t.Errorf("field values must be trimmed, got %q", records[1].RoleTitle)
		}
		if records[1].JobTitle != "" || records[1].VendorRole != "" {
			t.Errorf("empty columns must read as empty strings: %+v", records[1])
		}
	})

	t.Run("header case and spacing ignored", func(t *testing.T) {
		input := "Username, Role_Title ,JOB_TITLE,vendor_role\njdoe,a,b,c\n"
		records, err := Read(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if records[0].RoleTitle != "a" || records[0].JobTitle != "b" {
			t.Errorf("unexpected record: %+v", records[0])
		}
	})

	t.Run("missing optional columns read empty", func(t *testing.T) {
		input := "username,job_title\njdoe,QA Lead\n"
		records, err := Read(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if records[0].RoleTitle != "" || records[0].VendorRole != "" {
			t.Errorf("missing columns must read as empty: %+v", records[0])
		}
	})

	t.Run("short rows tolerated", func(t *testing.T) {
		input := "username,role_title,job_title,vendor_role\njdoe,Engineer\n"
		records, err := Read(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		if records[0].JobTitle != "" {
			t.Errorf("short row columns must read as empty: %+v", records[0])
		}
	})

	t.Run("missing username column is an error", func(t *testing.T) {
		if _, err := Read(strings.NewReader("role_title\nEngineer\n")); err == nil {
			t.Error("expected error for missing username column")
		}
	})

	t.Run("empty input is an error", func(t *testing.T) {
		if _, err := Read(strings.NewReader("")); err == nil {
			t.Error("expected error for empty input")
		}
	})
}

func TestLoad(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "input.csv")
		content := "username,role_title,job_title,vendor_role\njdoe,SDET,,\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}

		records, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if len(records) != 1 || records[0].RoleTitle != "SDET" {
			t.Errorf("unexpected records: %+v", records)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
