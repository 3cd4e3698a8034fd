package policy

import (
	"fmt"
	"strings"
)

// DefaultSchema is assumed for table names without a schema segment.
const DefaultSchema = "public"

// Config is the top-level structure of a policy config file.
type Config struct {
	Version int     `yaml:"version,omitempty"`
	Tables  []Table `yaml:"tables"`
}

// Table holds the row-level security toggles and policies of one table.
type Table struct {
	Name      string   `yaml:"name"` // schema.table or table
	EnableRLS bool     `yaml:"enable_rls,omitempty"`
	ForceRLS  bool     `yaml:"force_rls,omitempty"`
	Policies  []Policy `yaml:"policies,omitempty"`
}

// Policy is a named access rule attached to a table. Using and Check are
// SQL predicates passed through verbatim.
type Policy struct {
	Name    string   `yaml:"name"`
	Actions []Action `yaml:"actions,flow"`
	Role    string   `yaml:"role,omitempty"`
	Using   string   `yaml:"using,omitempty"`
	Check   string   `yaml:"check,omitempty"`
}

// Action is the command a policy applies to.
type Action string

const (
	ActionSelect Action = "select"
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// ParseAction maps a config value onto an Action, ignoring case.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case ActionSelect, ActionInsert, ActionUpdate, ActionDelete:
		return a, nil
	}
	return "", fmt.Errorf("unknown action %q (expected select, insert, update or delete)", s)
}

// SplitName returns the schema and table parts of the table name. Only the
// first '.' separates; the remainder is the table name verbatim.
func (t Table) SplitName() (schema, table string) {
	if s, rest, ok := strings.Cut(t.Name, "."); ok {
		return s, rest
	}
	return DefaultSchema, t.Name
}
