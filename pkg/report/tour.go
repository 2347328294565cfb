package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/spfxdoctor/pkg/core"
)

// Tour file location, relative to the project root.
const (
	TourDir         = ".tours"
	TourFile        = "validation.tour"
	UpgradeTourFile = "upgrade.tour"
)

// TourReport is a CodeTour walkthrough of the findings.
type TourReport struct {
	Title string     `json:"title"`
	Steps []TourStep `json:"steps"`
}

// TourStep is one stop of the tour.
type TourStep struct {
	File        string `json:"file"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Line        int    `json:"line,omitempty"`
}

// Tour returns the tour document with one step per record and a final step
// asking to delete the tour.
func Tour(in Input) ([]byte, error) {
	tour := TourReport{
		Title: in.Title(),
		Steps: make([]TourStep, 0, len(in.Records)+1),
	}

	for _, r := range in.Records {
		line := 1
		if r.Position != nil && r.Position.Line > 0 {
			line = r.Position.Line
		}

		var resolution string
		if r.ResolutionType == core.ResolutionCmd {
			arg, err := marshal(r.Resolution)
			if err != nil {
				return nil, err
			}
			resolution = fmt.Sprintf("Execute the following command:\r\n\r\n[`%s`](command:codetour.sendTextToTerminal?[%s])", r.Resolution, arg)
		}

		sev := strings.ToUpper(r.Severity.String())
		tour.Steps = append(tour.Steps, TourStep{
			File:        TourPath(r.File),
			Title:       fmt.Sprintf("%s: %s (%s)", sev, r.Title, r.ID),
			Description: fmt.Sprintf("### %s\r\n\r\n%s\r\n\r\n%s", sev, r.Description, resolution),
			Line:        line,
		})
	}

	tour.Steps = append(tour.Steps, TourStep{
		File:        TourDir + "/" + in.TourName(),
		Title:       "RECOMMENDED: Delete tour",
		Description: "### THAT'S IT!!!\r\nOnce you have tested that your project has no more issues, you can delete the `.tours` folder and its contents. Otherwise, you'll be prompted to launch this CodeTour every time you open this project.",
	})

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tour); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// marshal encodes v as compact JSON without HTML escaping.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// TourPath converts a project file path to the form CodeTour expects:
// forward slashes and relative to the root without a leading "./".
func TourPath(file string) string {
	file = strings.ReplaceAll(file, `\`, "/")
	for strings.HasPrefix(file, "./") {
		file = strings.TrimPrefix(file, "./")
	}
	return strings.ReplaceAll(file, "/./", "/")
}

// WriteTour writes the tour payload to .tours/<name> under root, creating
// the directory when needed. It returns the written path.
func WriteTour(root, name string, payload []byte) (string, error) {
	dir := filepath.Join(root, TourDir)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, payload, 0600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
