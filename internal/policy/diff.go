package policy

import (
	"fmt"
	"strings"
)

// NotPresent marks the missing side of a diff row.
const NotPresent = "(not present)"

// DiffRow is one difference between two configs.
type DiffRow struct {
	Construct string // TABLE or POLICY
	Name      string // table, or table.policy
	Source    string
	Target    string
}

type diffRecord struct {
	construct string
	name      string
	key       string
	value     string
}

// Diff compares the RLS toggles and policies of two configs. Rows follow
// source order, then target-only entries in target order.
func Diff(source, target *Config) []DiffRow {
	sourceRecords := records(source)
	targetRecords := records(target)

	targetMap := make(map[string]*diffRecord, len(targetRecords))
	for i := range targetRecords {
		targetMap[targetRecords[i].key] = &targetRecords[i]
	}

	var rows []DiffRow
	seen := map[string]bool{}
	for _, rec := range sourceRecords {
		seen[rec.key] = true
		tgt, ok := targetMap[rec.key]
		if !ok {
			rows = append(rows, DiffRow{rec.construct, rec.name, rec.value, NotPresent})
			continue
		}
		if rec.value != tgt.value {
			rows = append(rows, DiffRow{rec.construct, rec.name, rec.value, tgt.value})
		}
	}
	for _, rec := range targetRecords {
		if !seen[rec.key] {
			rows = append(rows, DiffRow{rec.construct, rec.name, NotPresent, rec.value})
		}
	}
	return rows
}

// records flattens a config into comparable entries keyed by the
// schema-qualified table name, so "blogs" and "public.blogs" match.
func records(cfg *Config) []diffRecord {
	var out []diffRecord
	if cfg == nil {
		return out
	}
	for _, t := range cfg.Tables {
		schema, table := t.SplitName()
		tableKey := strings.ToLower(schema + "." + table)
		out = append(out, diffRecord{
			construct: "TABLE",
			name:      t.Name,
			key:       "table:" + tableKey,
			value:     rlsSummary(t),
		})
		for _, p := range t.Policies {
			out = append(out, diffRecord{
				construct: "POLICY",
				name:      t.Name + "." + p.Name,
				key:       "policy:" + tableKey + "." + p.Name,
				value:     policySummary(p),
			})
		}
	}
	return out
}

func rlsSummary(t Table) string {
	switch {
	case t.EnableRLS && t.ForceRLS:
		return "enabled, forced"
	case t.EnableRLS:
		return "enabled"
	case t.ForceRLS:
		return "forced"
	}
	return "off"
}

func policySummary(p Policy) string {
	actions := make([]string, len(p.Actions))
	for i, a := range p.Actions {
		actions[i] = string(a)
	}
	s := "FOR " + strings.Join(actions, ",")
	if len(actions) == 0 {
		s = "no actions"
	}
	if p.Role != "" {
		s += " TO " + p.Role
	}
	if p.Using != "" {
		s += fmt.Sprintf(" USING (%s)", p.Using)
	}
	if p.Check != "" {
		s += fmt.Sprintf(" WITH CHECK (%s)", p.Check)
	}
	return s
}
