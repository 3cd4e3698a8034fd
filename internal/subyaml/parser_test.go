package subyaml

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTableShape(t *testing.T) {
	text := `
version: 1
# comment line
tables:
  - name: public.blogs
    enable_rls: true
    force_rls: false
    policies:
      - name: blogs_read
        actions: [select, "insert"]
        role: anon
        using: "true"
      - name: blogs_write
        actions: []
        check: 'author = current_user'

  - name: storage.objects
    policies:
`
	got := Parse(text).Interface()
	want := map[string]any{
		"version": int64(1),
		"tables": []any{
			map[string]any{
				"name":       "public.blogs",
				"enable_rls": true,
				"force_rls":  false,
				"policies": []any{
					map[string]any{
						"name":    "blogs_read",
						"actions": []any{"select", "insert"},
						"role":    "anon",
						"using":   "true",
					},
					map[string]any{
						"name":    "blogs_write",
						"actions": []any{},
						"check":   "author = current_user",
					},
				},
			},
			map[string]any{
				"name":     "storage.objects",
				"policies": map[string]any{},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseKeyOrder(t *testing.T) {
	root := Parse("b: 1\na: 2\nc:\n  z: x\n  y: w\n")
	assert.Equal(t, []string{"b", "a", "c"}, root.Keys())
	assert.Equal(t, []string{"z", "y"}, root.Get("c").Keys())
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want any
	}{
		{"integer", "42", int64(42)},
		{"true", "true", true},
		{"false", "false", false},
		{"capitalised bool stays string", "True", "True"},
		{"double quoted", `"true"`, "true"},
		{"single quoted", `'bucket_id = ''x'''`, "bucket_id = ''x''"},
		{"quoted digits", `"12"`, "12"},
		{"raw", "bucket_id = 'pictures'", "bucket_id = 'pictures'"},
		{"signed number is raw", "-3", "-3"},
		{"decimal is raw", "1.5", "1.5"},
		{"lone quote is raw", `"`, `"`},
		{"inline list keeps raw strings", "[1, true, 'a']", []any{"1", "true", "a"}},
		{"empty inline list", "[ ]", []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decode(tt.in).Interface())
		})
	}
}

func TestDecodeEmptyIsPlaceholder(t *testing.T) {
	n := decode("")
	assert.Equal(t, Mapping, n.Kind)
	assert.True(t, n.placeholder)
	require.NoError(t, n.promote())
	assert.Equal(t, Sequence, n.Kind)
}

func TestPromoteRejectsFilledMapping(t *testing.T) {
	n := decode("")
	n.Set("k", NewScalar("v"))
	assert.Error(t, n.promote())
	assert.Equal(t, Mapping, n.Kind)

	assert.Error(t, NewMapping().promote())
}

func TestParseTabsAndCRLF(t *testing.T) {
	root := Parse("tables:\r\n\t- name: a\r\n\t\tenable_rls: true\r\n")
	tables := root.Get("tables")
	require.Equal(t, Sequence, tables.Kind)
	require.Len(t, tables.Items(), 1)

	item := tables.Items()[0]
	name, _ := item.Get("name").Text()
	assert.Equal(t, "a", name)
	b, ok := item.Get("enable_rls").Bool()
	assert.True(t, ok)
	assert.True(t, b)
}

func TestParseItemWithoutKey(t *testing.T) {
	root := Parse("list:\n  - plain\n  -\n  - k: v\n")
	items := root.Get("list").Items()
	require.Len(t, items, 2)
	assert.Equal(t, 0, items[0].Len())
	v, _ := items[1].Get("k").Text()
	assert.Equal(t, "v", v)
}

func TestParseItemNestedBlock(t *testing.T) {
	text := `
tables:
  - policies:
      - name: p
    name: t
`
	tables := Parse(text).Get("tables").Items()
	require.Len(t, tables, 1)
	name, _ := tables[0].Get("name").Text()
	assert.Equal(t, "t", name)
	require.Len(t, tables[0].Get("policies").Items(), 1)
}

func TestParseLenient(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]any
	}{
		{
			name: "item under root is dropped",
			text: "- name: a\nversion: 2\n",
			want: map[string]any{"version": int64(2)},
		},
		{
			name: "item under filled mapping is dropped",
			text: "tables:\n  a: 1\n  - name: x\n",
			want: map[string]any{"tables": map[string]any{"a": int64(1)}},
		},
		{
			name: "line without colon is dropped",
			text: "version 3\nversion: 4\n",
			want: map[string]any{"version": int64(4)},
		},
		{
			name: "item at same indent as key is dropped",
			text: "tables:\n- name: x\n",
			want: map[string]any{"tables": map[string]any{}},
		},
		{
			name: "key under inline list with scalar items is dropped",
			text: "actions: [select]\n  role: anon\n",
			want: map[string]any{"actions": []any{"select"}},
		},
		{
			name: "key under sequence extends last mapping",
			text: "tables:\n  - name: x\n enable_rls: true\n",
			want: map[string]any{"tables": []any{map[string]any{"name": "x", "enable_rls": true}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got any
			require.NotPanics(t, func() { got = Parse(tt.text).Interface() })
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	root := Parse("\n# only a comment\n   \n")
	assert.Equal(t, Mapping, root.Kind)
	assert.Equal(t, 0, root.Len())
}
