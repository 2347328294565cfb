package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/lint/rules"
	"github.com/leapstack-labs/spfxdoctor/pkg/pkgmgr"
)

// ruleDoc collects what is known about one rule id across all versions.
type ruleDoc struct {
	info     core.RuleInfo // as checked for the latest version
	versions []string
}

// generateRuleDocs writes one page per rule id plus an index. BuildDocURL
// links resolve to these pages.
func generateRuleDocs(outDir string) error {
	log.Printf("Generating rule docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	docs, err := collectRuleDocs()
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(docs))
	for id := range docs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	if err := generateRulesIndex(outDir, ids, docs); err != nil {
		return err
	}
	log.Printf("  Generated index.md")

	for _, id := range ids {
		if err := generateRulePage(outDir, docs[id]); err != nil {
			return fmt.Errorf("failed to generate page for %s: %w", id, err)
		}
	}
	log.Printf("  Generated %d rule pages", len(ids))

	return nil
}

func collectRuleDocs() (map[string]*ruleDoc, error) {
	docs := make(map[string]*ruleDoc)
	for _, version := range rules.SupportedVersions() {
		set, err := rules.Resolve(version, pkgmgr.NPM)
		if err != nil {
			return nil, fmt.Errorf("version %s: %w", version, err)
		}
		for _, info := range set.Info() {
			d, ok := docs[info.ID]
			if !ok {
				d = &ruleDoc{}
				docs[info.ID] = d
			}
			if info.ResolutionType == core.ResolutionCmd {
				info.Resolution = pkgmgr.Substitute(info.Resolution, pkgmgr.NPM)
			}
			d.info = info
			d.versions = append(d.versions, version)
		}
	}
	return docs, nil
}

func generateRulesIndex(outDir string, ids []string, docs map[string]*ruleDoc) error {
	w := NewMarkdownWriter()

	w.Frontmatter("Rules", "Rules checked by spfxdoctor")
	w.GeneratedMarker()

	w.Header(1, "Rules")
	w.Paragraph(fmt.Sprintf("spfxdoctor checks **%d rules** across %d SharePoint Framework versions. "+
		"Each version runs the generic rules followed by the rules of its profile.",
		len(ids), len(rules.SupportedVersions())))

	w.Header(2, "Severity Levels")
	w.Table(
		[]string{"Severity", "Description"},
		[][]string{
			{InlineCode(core.SeverityRequired.String()), "The project does not build or run correctly until fixed"},
			{InlineCode(core.SeverityRecommended.String()), "Deviates from the project template for the version"},
			{InlineCode(core.SeverityOptional.String()), "Cosmetic or convenience changes"},
		},
	)

	w.Header(2, "All Rules")
	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		d := docs[id]
		rows = append(rows, []string{
			fmt.Sprintf("[%s](%s.md)", id, strings.ToLower(id)),
			cleanDescription(d.info.Title),
			d.info.Severity.String(),
			versionRange(d.versions),
		})
	}
	w.Table([]string{"ID", "Title", "Severity", "Versions"}, rows)

	return os.WriteFile(filepath.Join(outDir, "index.md"), w.Bytes(), 0600)
}

func generateRulePage(outDir string, d *ruleDoc) error {
	info := d.info
	w := NewMarkdownWriter()

	w.Frontmatter(info.ID, info.Title)
	w.GeneratedMarker()

	w.Header(1, fmt.Sprintf("%s %s", info.ID, info.Title))
	w.Paragraph(info.Description)

	items := []string{
		Bold("Severity") + ": " + info.Severity.String(),
		Bold("File") + ": " + InlineCode(info.File),
		Bold("Versions") + ": " + versionRange(d.versions),
	}
	if len(info.Supersedes) > 0 {
		items = append(items, Bold("Supersedes")+": "+joinCode(info.Supersedes))
	}
	w.BulletList(items)

	if info.Resolution != "" {
		w.Header(2, "Resolution")
		switch info.ResolutionType {
		case core.ResolutionJSON:
			w.Paragraph(fmt.Sprintf("Update %s as follows:", InlineCode(info.File)))
			w.CodeBlock("json", info.Resolution)
		default:
			w.Paragraph("Execute the following command (shown for npm on the latest version checked):")
			w.CodeBlock("sh", info.Resolution)
		}
	}

	return os.WriteFile(filepath.Join(outDir, strings.ToLower(info.ID)+".md"), w.Bytes(), 0600)
}

// versionRange summarizes the ascending versions a rule is checked for.
func versionRange(versions []string) string {
	switch len(versions) {
	case 0:
		return ""
	case 1:
		return versions[0]
	}
	return fmt.Sprintf("%s to %s", versions[0], versions[len(versions)-1])
}
