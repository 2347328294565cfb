package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/pkgmgr"
)

// Format selects how a report is rendered.
type Format string

// Supported output formats.
const (
	FormatJSON  Format = "json"
	FormatText  Format = "text"
	FormatMD    Format = "md"
	FormatTour  Format = "tour"
	FormatSARIF Format = "sarif"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatText, FormatMD, FormatTour, FormatSARIF}

// ParseFormat validates an output format name. Empty selects JSON.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatJSON, nil
	}
	f := Format(strings.ToLower(s))
	if !slices.Contains(Formats, f) {
		names := make([]string, len(Formats))
		for i, f := range Formats {
			names[i] = string(f)
		}
		return "", fmt.Errorf("unsupported output %q, expected one of: %s", s, strings.Join(names, ", "))
	}
	return f, nil
}

// Input is everything a renderer needs.
type Input struct {
	ProjectName string
	Manager     pkgmgr.Manager
	Records     []FindingToReport
	Now         time.Time
	ToolVersion string

	// ToVersion marks an upgrade report onto that SPFx version.
	ToVersion string
}

// Title names the report, e.g. "Upgrade project x to v1.21.0".
func (in Input) Title() string {
	if in.ToVersion != "" {
		return fmt.Sprintf("Upgrade project %s to v%s", in.ProjectName, in.ToVersion)
	}
	return "Validate project " + in.ProjectName
}

// TourName returns the file name of the tour under TourDir.
func (in Input) TourName() string {
	if in.ToVersion != "" {
		return UpgradeTourFile
	}
	return TourFile
}

// Render writes the report in format f. Tour output is only rendered here;
// WriteTour persists it.
func Render(w io.Writer, f Format, in Input) error {
	switch f {
	case FormatText:
		_, err := io.WriteString(w, Text(in)+"\n")
		return err
	case FormatMD:
		_, err := io.WriteString(w, Markdown(in)+"\n")
		return err
	case FormatTour:
		payload, err := Tour(in)
		if err != nil {
			return err
		}
		_, err = w.Write(append(payload, '\n'))
		return err
	case FormatSARIF:
		return SARIF(w, in)
	default:
		return Raw(w, in.Records)
	}
}

// Raw writes the flattened records as indented JSON.
func Raw(w io.Writer, records []FindingToReport) error {
	if records == nil {
		records = []FindingToReport{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// Text returns the consolidated command script, one command per line.
func Text(in Input) string {
	if len(in.Records) == 0 {
		return NoIssuesMessage
	}
	script := BuildData(in.Records, in.Manager).Script()
	if len(script) == 0 {
		return NoCommandsMessage
	}
	return strings.Join(script, "\n")
}

// Markdown returns a report document with one section per finding and a
// summary of the commands and file changes to apply.
func Markdown(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", in.Title())
	fmt.Fprintf(&b, "Date: %s\n\n", in.Now.Format("1/2/2006"))
	b.WriteString("## Findings\n\n")

	if len(in.Records) == 0 {
		b.WriteString(NoIssuesMessage + "\n")
		return strings.TrimSpace(b.String())
	}

	b.WriteString("Following is the list of issues found in your project. [Summary](#Summary) of the recommended fixes is included at the end of the report.\n\n")

	for _, r := range in.Records {
		fmt.Fprintf(&b, "### %s %s | %s\n\n", r.ID, r.Title, r.Severity)
		fmt.Fprintf(&b, "%s\n\n", r.Description)

		switch r.ResolutionType {
		case core.ResolutionCmd:
			fmt.Fprintf(&b, "Execute the following command:\n\n```sh\n%s\n```\n", r.Resolution)
		case core.ResolutionJSON:
			fmt.Fprintf(&b, "In file [%s](%s) update the code as follows:\n\n```json\n%s\n```\n", r.File, r.File, r.Resolution)
		}

		location := r.File
		if r.Position != nil {
			location = fmt.Sprintf("%s:%d:%d", r.File, r.Position.Line, r.Position.Character)
		}
		fmt.Fprintf(&b, "\nFile: [%s](%s)\n\n", location, r.File)
	}

	data := BuildData(in.Records, in.Manager)
	b.WriteString("## Summary\n\n")

	if script := data.Script(); len(script) > 0 {
		b.WriteString("### Execute script\n\n```sh\n")
		b.WriteString(strings.Join(script, "\n"))
		b.WriteString("\n```\n\n")
	}

	if len(data.ModificationPerFile) > 0 {
		b.WriteString("### Modify files\n\n")
		files := make([]string, 0, len(data.ModificationPerFile))
		for file := range data.ModificationPerFile {
			files = append(files, file)
		}
		slices.Sort(files)

		for _, file := range files {
			fmt.Fprintf(&b, "#### [%s](%s)\n\n", file, file)
			for _, m := range data.ModificationPerFile[file] {
				fmt.Fprintf(&b, "%s:\n\n```%s\n%s\n```\n\n", m.Description, data.ModificationTypePerFile[file], indentJSON(m.Modification))
			}
		}
	}

	return strings.TrimSpace(b.String())
}

func indentJSON(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
