// Package subyaml parses the small block-structured YAML dialect used by
// policy config files: nested mappings, "- " sequences of mappings, inline
// [a, b] lists and single-line scalars.
//
// It is not a general YAML parser. Input outside that shape never produces an
// error; lines that cannot be placed are dropped.
package subyaml

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	itemMarker    = "- "
	commentMarker = "#"
	tabWidth      = "  "
)

// frame is one open context on the indentation stack.
type frame struct {
	indent int
	key    string // key the container is bound to in its parent, "" for items and root
	node   *Node
}

type parser struct {
	stack  []frame
	lineNo int
}

// Parse converts text into a tree rooted at a mapping.
func Parse(text string) *Node {
	root := NewMapping()
	p := &parser{stack: []frame{{indent: -1, node: root}}}

	for i, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSuffix(raw, "\r")
		raw = strings.ReplaceAll(raw, "\t", tabWidth)
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, commentMarker) {
			continue
		}
		p.lineNo = i + 1
		indent := len(raw) - len(strings.TrimLeft(raw, " "))

		// Close every context opened at this indent or deeper.
		for indent <= p.top().indent {
			p.stack = p.stack[:len(p.stack)-1]
		}

		if strings.HasPrefix(line, itemMarker) {
			p.item(indent, line[len(itemMarker):])
		} else {
			p.keyValue(indent, line)
		}
	}
	return root
}

func (p *parser) top() *frame {
	return &p.stack[len(p.stack)-1]
}

func (p *parser) push(f frame) {
	p.stack = append(p.stack, f)
}

func (p *parser) drop(line, reason string) {
	log.Debug().Int("line", p.lineNo).Str("text", line).Str("reason", reason).Msg("line dropped")
}

// item handles a "- ..." line.
func (p *parser) item(indent int, content string) {
	top := p.top()
	if top.node.Kind != Sequence {
		if err := top.node.promote(); err != nil {
			p.drop(itemMarker+content, err.Error())
			return
		}
	}
	seq := top.node

	elem := NewMapping()
	seq.Append(elem)
	p.push(frame{indent: indent, node: elem})

	k, v, ok := strings.Cut(content, ":")
	if !ok {
		return
	}
	key := strings.TrimSpace(k)
	val := decode(strings.TrimSpace(v))
	elem.Set(key, val)
	if val.IsContainer() {
		// Keys of the element sit at the column after the marker.
		p.push(frame{indent: indent + len(itemMarker), key: key, node: val})
	}
}

// keyValue handles a "key: value" line.
func (p *parser) keyValue(indent int, line string) {
	k, v, ok := strings.Cut(line, ":")
	if !ok {
		p.drop(line, "no key")
		return
	}
	key := strings.TrimSpace(k)
	val := decode(strings.TrimSpace(v))

	holder := p.top().node
	switch holder.Kind {
	case Mapping:
		holder.Set(key, val)
	case Sequence:
		last := holder.Last()
		if last == nil || last.Kind != Mapping {
			p.drop(line, "sequence has no mapping element to extend")
			return
		}
		last.Set(key, val)
	default:
		p.drop(line, "scalar context")
		return
	}

	if val.IsContainer() {
		p.push(frame{indent: indent, key: key, node: val})
	}
}

// decode infers the type of a trimmed value. Precedence: empty placeholder,
// inline list, quoted string, boolean, integer, raw string.
func decode(v string) *Node {
	switch {
	case v == "":
		return newPlaceholder()
	case enclosed(v, '[', ']'):
		return inlineList(v)
	case quoted(v):
		return NewScalar(v[1 : len(v)-1])
	case v == "true" || v == "false":
		return NewScalar(v == "true")
	case digitsOnly(v):
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return NewScalar(i)
		}
	}
	return NewScalar(v)
}

// inlineList splits [a, "b", 'c'] on commas. Elements stay strings.
func inlineList(v string) *Node {
	seq := NewSequence()
	inner := strings.TrimSpace(v[1 : len(v)-1])
	if inner == "" {
		return seq
	}
	for _, part := range strings.Split(inner, ",") {
		part = strings.TrimSpace(part)
		if quoted(part) {
			part = part[1 : len(part)-1]
		}
		seq.Append(NewScalar(part))
	}
	return seq
}

func enclosed(s string, open, close byte) bool {
	return len(s) >= 2 && s[0] == open && s[len(s)-1] == close
}

func quoted(s string) bool {
	return enclosed(s, '"', '"') || enclosed(s, '\'', '\'')
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
