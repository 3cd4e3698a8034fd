package policy

import _ "embed"

// Example is a config granting public read access to the blog tables and the
// pictures storage bucket.
//
//go:embed example.yaml
var Example string
