package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bytehatacademy/academy/internal/app"
	"github.com/bytehatacademy/academy/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var validateFlags *StandardFlags

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration and the course catalog",
	Long: `Check the effective configuration (file, environment, and flags) and
load the course catalog, reporting every problem found.

Missing syllabus PDFs are reported as warnings: the course pages still
link to them.

Examples:
  academy validate
  academy validate --config prod.yml --format json`,
	RunE: runValidateCommand,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateFlags = AddStandardFlags(validateCmd, "output")
}

// ValidationReport is the outcome of the validate command.
type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Courses  int      `json:"courses"`
	Articles int      `json:"articles"`
}

var errInvalid = errors.New("validation failed")

func runValidateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Decode(viper.GetViper())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	report := buildValidationReport(cfg)

	if validateFlags.Format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printValidationReport(cmd.OutOrStdout(), report)
	}

	if !report.Valid {
		return errInvalid
	}
	return nil
}

func buildValidationReport(cfg *config.Config) ValidationReport {
	report := ValidationReport{Errors: []string{}, Warnings: []string{}}

	result := config.ValidateConfigWithDetails(cfg)
	for _, e := range result.Errors {
		report.Errors = append(report.Errors, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	for _, w := range result.Warnings {
		report.Warnings = append(report.Warnings, fmt.Sprintf("%s: %s", w.Field, w.Message))
	}

	catalog, err := app.ProvideCatalog(cfg)
	if err != nil {
		report.Errors = append(report.Errors, "catalog: "+err.Error())
	} else {
		report.Courses = len(catalog.Courses())
		report.Articles = len(catalog.Articles())
		for _, c := range catalog.Courses() {
			pdf := filepath.Join(cfg.Content.SyllabusDir, c.Slug+".pdf")
			if _, err := os.Stat(pdf); err != nil {
				report.Warnings = append(report.Warnings, "syllabus missing for "+c.Slug+": "+pdf)
			}
		}
	}

	report.Valid = len(report.Errors) == 0
	return report
}

func printValidationReport(w io.Writer, report ValidationReport) {
	for _, e := range report.Errors {
		fmt.Fprintf(w, "%s %s\n", failStyle.Render("✗"), e)
	}
	for _, warn := range report.Warnings {
		fmt.Fprintf(w, "%s %s\n", warnStyle.Render("!"), warn)
	}
	if report.Valid {
		fmt.Fprintf(w, "%s configuration valid, %d courses, %d articles\n",
			okStyle.Render("✓"), report.Courses, report.Articles)
	}
}
