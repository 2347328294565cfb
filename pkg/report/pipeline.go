package report

import (
	"encoding/json"

	"github.com/leapstack-labs/spfxdoctor/pkg/core"
	"github.com/leapstack-labs/spfxdoctor/pkg/lint"
	"github.com/leapstack-labs/spfxdoctor/pkg/lint/rules"
	"github.com/leapstack-labs/spfxdoctor/pkg/pkgmgr"
)

// Supersede removes findings made redundant by other findings.
//
// Findings are processed in order. For each finding still in the list, the
// first finding with each ID it supersedes is removed. The pass is not
// transitive: a finding removed before its turn supersedes nothing.
func Supersede(findings []lint.Finding) []lint.Finding {
	out := append([]lint.Finding(nil), findings...)

	for i := 0; i < len(out); i++ {
		for _, id := range out[i].Supersedes {
			j := lint.FindIndex(out, id)
			if j < 0 {
				continue
			}
			out = append(out[:j], out[j+1:]...)
			if j < i {
				i--
			} else if j == i {
				// The finding superseded itself; its remaining IDs are dropped.
				i--
				break
			}
		}
	}
	return out
}

// Flatten expands findings into one record per occurrence.
func Flatten(findings []lint.Finding) []FindingToReport {
	records := make([]FindingToReport, 0, len(findings))
	for _, f := range findings {
		for _, o := range f.Occurrences {
			records = append(records, FindingToReport{
				Description:    f.Description,
				ID:             f.ID,
				File:           o.File,
				Position:       o.Position,
				Resolution:     o.Resolution,
				ResolutionType: f.ResolutionType,
				Severity:       f.Severity,
				Title:          f.Title,
			})
		}
	}
	return records
}

// Template replaces the abstract package operation leading each
// resolution with the command of package manager m.
func Template(records []FindingToReport, m pkgmgr.Manager) []FindingToReport {
	out := make([]FindingToReport, len(records))
	for i, r := range records {
		r.Resolution = pkgmgr.Substitute(r.Resolution, m)
		out[i] = r
	}
	return out
}

// Prepare runs supersession, flattening and templating.
func Prepare(findings []lint.Finding, m pkgmgr.Manager) []FindingToReport {
	return Template(Flatten(Supersede(findings)), m)
}

// BuildData aggregates templated records into consolidated remediation steps.
func BuildData(records []FindingToReport, m pkgmgr.Manager) Data {
	data := Data{
		ModificationPerFile:     make(map[string][]Modification),
		ModificationTypePerFile: make(map[string]string),
	}
	buckets := pkgmgr.NewBuckets(m)

	for _, r := range records {
		switch r.ResolutionType {
		case core.ResolutionCmd:
			if buckets.Classify(r.Resolution) || r.ID == rules.DedupeRuleID {
				continue
			}
			data.CommandsToExecute = appendOnce(data.CommandsToExecute, r.Resolution)
		case core.ResolutionJSON:
			var snippet any
			if err := json.Unmarshal([]byte(r.Resolution), &snippet); err != nil {
				snippet = r.Resolution
			}
			data.ModificationPerFile[r.File] = append(data.ModificationPerFile[r.File], Modification{
				ID:           r.ID,
				Description:  r.Description,
				Modification: snippet,
			})
			data.ModificationTypePerFile[r.File] = string(core.ResolutionJSON)
		}
	}

	data.PackageManagerCommands = buckets.Reduce()

	// The dedupe step runs after every install, as is.
	if m == pkgmgr.NPM {
		for _, r := range records {
			if r.ID == rules.DedupeRuleID {
				data.PackageManagerCommands = append(data.PackageManagerCommands, r.Resolution)
				break
			}
		}
	}
	return data
}

func appendOnce(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}
