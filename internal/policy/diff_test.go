package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiff(t *testing.T) {
	source := &Config{Tables: []Table{
		{Name: "blogs", EnableRLS: true, Policies: []Policy{
			{Name: "read", Actions: []Action{ActionSelect}, Role: "anon", Using: "true"},
			{Name: "gone", Actions: []Action{ActionDelete}},
		}},
		{Name: "storage.objects", EnableRLS: true, ForceRLS: true},
	}}
	target := &Config{Tables: []Table{
		{Name: "public.blogs", EnableRLS: true, ForceRLS: true, Policies: []Policy{
			{Name: "read", Actions: []Action{ActionSelect}, Role: "authenticated", Using: "true"},
		}},
		{Name: "storage.objects", EnableRLS: true, ForceRLS: true},
		{Name: "comments"},
	}}

	want := []DiffRow{
		{"TABLE", "blogs", "enabled", "enabled, forced"},
		{"POLICY", "blogs.read", "FOR select TO anon USING (true)", "FOR select TO authenticated USING (true)"},
		{"POLICY", "blogs.gone", "FOR delete", NotPresent},
		{"TABLE", "comments", NotPresent, "off"},
	}
	assert.Equal(t, want, Diff(source, target))
}

func TestDiffIdentical(t *testing.T) {
	cfg := &Config{Tables: []Table{{Name: "t", Policies: []Policy{{Name: "p"}}}}}
	assert.Empty(t, Diff(cfg, cfg))
}

func TestPolicySummary(t *testing.T) {
	assert.Equal(t, "no actions", policySummary(Policy{Name: "p"}))
	assert.Equal(t, "FOR insert,update WITH CHECK (ok)", policySummary(Policy{
		Actions: []Action{ActionInsert, ActionUpdate},
		Check:   "ok",
	}))
}
