package policy

import (
	"fmt"
	"strings"
)

// Banner is the first line of every generated script.
const Banner = "-- Generated by blogkit"

// ── Quoting ───────────────────────────────────────────────────────────────────

// QuoteIdent quotes a possibly schema-qualified name. Each of the at most two
// segments is double-quoted with embedded quotes doubled.
func QuoteIdent(name string) string {
	parts := strings.SplitN(name, ".", 2)
	for i, p := range parts {
		parts[i] = quoteIdentPart(p)
	}
	return strings.Join(parts, ".")
}

func quoteIdentPart(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// ── Statements ────────────────────────────────────────────────────────────────

// Generate renders the whole script: banner, BEGIN, per-table blocks in
// declaration order, COMMIT. The result depends only on cfg.
func Generate(cfg *Config) string {
	out := []string{Banner, "BEGIN;"}
	for _, t := range cfg.Tables {
		out = append(out, TableStatements(t)...)
	}
	out = append(out, "COMMIT;")
	return strings.Join(out, "\n") + "\n"
}

// TableStatements returns the enable and force toggles of t followed by one
// guarded CREATE POLICY block per policy action.
func TableStatements(t Table) []string {
	var out []string
	target := QuoteIdent(t.Name)
	if t.EnableRLS {
		out = append(out, fmt.Sprintf("ALTER TABLE %s ENABLE ROW LEVEL SECURITY;", target))
	}
	if t.ForceRLS {
		out = append(out, fmt.Sprintf("ALTER TABLE %s FORCE ROW LEVEL SECURITY;", target))
	}
	for _, p := range t.Policies {
		for _, a := range p.Actions {
			out = append(out, CreatePolicyBlock(t, p, a))
		}
	}
	return out
}

// CreatePolicyBlock renders a DO block that creates the policy for one action
// unless pg_policies already has a row for (schema, table, policy name). The
// guard ignores the action, so only the first action of a multi-action
// policy is created.
func CreatePolicyBlock(t Table, p Policy, a Action) string {
	var clauses strings.Builder
	if p.Role != "" {
		clauses.WriteString(" TO " + p.Role)
	}
	if p.Using != "" {
		clauses.WriteString(" USING (" + p.Using + ")")
	}
	if p.Check != "" {
		clauses.WriteString(" WITH CHECK (" + p.Check + ")")
	}

	schema, table := t.SplitName()
	body := fmt.Sprintf(`BEGIN
  IF NOT EXISTS (
    SELECT 1 FROM pg_policies
    WHERE schemaname = %s
      AND tablename = %s
      AND policyname = %s
  ) THEN
    CREATE POLICY %s ON %s FOR %s%s;
  END IF;
END`,
		quoteLiteral(schema), quoteLiteral(table), quoteLiteral(p.Name),
		quoteIdentPart(p.Name), QuoteIdent(t.Name), a, clauses.String())

	tag := dollarTag(body)
	return "DO " + tag + "\n" + body + tag + ";"
}

// dollarTag picks a dollar-quote delimiter that does not occur in body.
func dollarTag(body string) string {
	for _, tag := range []string{"$$", "$blogkit$"} {
		if !strings.Contains(body, tag) {
			return tag
		}
	}
	for i := 1; ; i++ {
		tag := fmt.Sprintf("$blogkit%d$", i)
		if !strings.Contains(body, tag) {
			return tag
		}
	}
}

// Stats counts the statements Generate emits for cfg.
type Stats struct {
	Enable   int
	Force    int
	Policies int
}

// Count returns the statement counts for cfg.
func Count(cfg *Config) Stats {
	var s Stats
	for _, t := range cfg.Tables {
		if t.EnableRLS {
			s.Enable++
		}
		if t.ForceRLS {
			s.Force++
		}
		for _, p := range t.Policies {
			s.Policies += len(p.Actions)
		}
	}
	return s
}
