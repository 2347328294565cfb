package pkgmgr

import "strings"

// Buckets collects package specs from templated commands so they can be
// merged into one command per operation.
type Buckets struct {
	Manager Manager

	DepExact []string // install
	DevExact []string // installDev
	DepUn    []string // uninstall
	DevUn    []string // uninstallDev
}

// NewBuckets creates empty buckets for m.
func NewBuckets(m Manager) *Buckets {
	return &Buckets{Manager: m}
}

// classifyOrder is the order command prefixes are compared when classifying.
var classifyOrder = []Verb{InstallDev, Install, UninstallDev, Uninstall}

// Classify adds the packages of a templated command to its bucket.
// It reports false when the command is not a package operation of the
// bucket's manager, e.g. "npm dedupe".
func (b *Buckets) Classify(command string) bool {
	for _, verb := range classifyOrder {
		prefix := Command(verb, b.Manager) + " "
		if !strings.HasPrefix(command, prefix) {
			continue
		}
		packages := Fields(strings.TrimPrefix(command, prefix))
		if len(packages) == 0 {
			return false
		}
		bucket := b.bucket(verb)
		*bucket = appendUnique(*bucket, packages...)
		return true
	}
	return false
}

// Reduce returns one command per non-empty bucket in the order install,
// installDev, uninstall, uninstallDev.
func (b *Buckets) Reduce() []string {
	var commands []string
	for _, verb := range []Verb{Install, InstallDev, Uninstall, UninstallDev} {
		if packages := *b.bucket(verb); len(packages) > 0 {
			commands = append(commands, CommandFor(verb, b.Manager, packages))
		}
	}
	return commands
}

func (b *Buckets) bucket(verb Verb) *[]string {
	switch verb {
	case InstallDev:
		return &b.DevExact
	case Uninstall:
		return &b.DepUn
	case UninstallDev:
		return &b.DevUn
	default:
		return &b.DepExact
	}
}

func appendUnique(list []string, items ...string) []string {
	for _, item := range items {
		dup := false
		for _, existing := range list {
			if existing == item {
				dup = true
				break
			}
		}
		if !dup {
			list = append(list, item)
		}
	}
	return list
}

// Fields splits a command line on spaces, keeping double-quoted
// arguments (quotes included) together.
func Fields(s string) []string {
	var (
		fields  []string
		cur     strings.Builder
		quoted  bool
		started bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			cur.WriteRune(r)
			started = true
		case r == ' ' && !quoted:
			if started {
				fields = append(fields, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if started {
		fields = append(fields, cur.String())
	}
	return fields
}
