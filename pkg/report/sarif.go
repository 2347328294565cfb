package report

import (
	"fmt"
	"io"

	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/lint"
	"github.com/owenrumney/go-sarif/v2/sarif"
)

const (
	toolName = "spfxdoctor"
	toolURI  = "https://github.com/leapstack-labs/spfxdoctor"
)

// SARIF writes the records as a SARIF 2.1.0 log with one result per record.
func SARIF(w io.Writer, in Input) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	if in.ToolVersion != "" {
		version := in.ToolVersion
		run.Tool.Driver.Version = &version
	}

	for _, r := range in.Records {
		rule := run.AddRule(r.ID).
			WithDescription(r.Description).
			WithHelpURI(lint.BuildDocURL(r.ID)).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: toSarifLevel(r.Severity),
			})

		region := sarif.NewRegion().WithStartLine(1)
		if r.Position != nil {
			region = sarif.NewRegion().WithStartLine(r.Position.Line).WithStartColumn(r.Position.Character)
		}
		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(TourPath(r.File))).
				WithRegion(region),
		)

		message := r.Title
		if r.Resolution != "" {
			message = fmt.Sprintf("%s: %s", r.Title, r.Resolution)
		}
		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(message)).
			WithLevel(toSarifLevel(r.Severity)).
			WithLocations([]*sarif.Location{location})
		run.AddResult(result)
	}
	report.AddRun(run)

	return report.PrettyWrite(w)
}

func toSarifLevel(s core.Severity) string {
	switch s {
	case core.SeverityRequired:
		return "error"
	case core.SeverityRecommended:
		return "warning"
	case core.SeverityOptional:
		return "note"
	default:
		return "none"
	}
}
