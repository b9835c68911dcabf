package rig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/wyrmrig/pkg/math"
)

// Key is one step of a registry path: a name or an integer index.
type Key struct {
	name    string
	index   int
	indexed bool
}

// Name returns a named key.
func Name(s string) Key { return Key{name: s} }

// Index returns an integer key.
func Index(i int) Key { return Key{index: i, indexed: true} }

// IsIndex reports whether k is an integer key.
func (k Key) IsIndex() bool { return k.indexed }

func (k Key) String() string {
	if k.IsIndex() {
		return "[" + strconv.Itoa(k.index) + "]"
	}
	return k.name
}

// Registry maps human labels ("root", "spine[3]", "wings[1][2]") to joints.
// Each node may hold a joint and any number of nested nodes. Intermediate
// nodes are created on demand. The registry has no effect on traversal.
type Registry struct {
	joint    JointID
	hasJoint bool
	children map[Key]*Registry
	order    []Key
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{joint: NoJoint}
}

// At returns the node at path, creating missing levels.
func (r *Registry) At(path ...Key) *Registry {
	node := r
	for _, k := range path {
		next, ok := node.children[k]
		if !ok {
			if node.children == nil {
				node.children = make(map[Key]*Registry)
			}
			next = NewRegistry()
			node.children[k] = next
			node.order = append(node.order, k)
		}
		node = next
	}
	return node
}

// Assign stores id at path.
func (r *Registry) Assign(id JointID, path ...Key) {
	node := r.At(path...)
	node.joint = id
	node.hasJoint = true
}

// Get returns the joint at path without creating anything.
func (r *Registry) Get(path ...Key) (JointID, bool) {
	node := r
	for _, k := range path {
		next, ok := node.children[k]
		if !ok {
			return NoJoint, false
		}
		node = next
	}
	return node.Joint()
}

// Joint returns the joint stored directly on this node.
func (r *Registry) Joint() (JointID, bool) {
	return r.joint, r.hasJoint
}

// Add stores id under the next integer key, Index(Len()).
func (r *Registry) Add(id JointID) {
	r.Assign(id, Index(len(r.order)))
}

// Len returns the number of direct children.
func (r *Registry) Len() int {
	return len(r.order)
}

// Keys returns the direct child keys in insertion order.
func (r *Registry) Keys() []Key {
	out := make([]Key, len(r.order))
	copy(out, r.order)
	return out
}

// Joints returns the joints stored directly under this node's children, in
// insertion order. Children holding only nested nodes are skipped.
func (r *Registry) Joints() []JointID {
	var out []JointID
	for _, k := range r.order {
		if id, ok := r.children[k].Joint(); ok {
			out = append(out, id)
		}
	}
	return out
}

// Entry is one assigned path in a registry walk.
type Entry struct {
	Path  string
	Joint JointID
}

// Entries walks every assigned joint depth-first in insertion order.
func (r *Registry) Entries() []Entry {
	var out []Entry
	var walk func(node *Registry, prefix []Key)
	walk = func(node *Registry, prefix []Key) {
		if node.hasJoint {
			out = append(out, Entry{Path: FormatPath(prefix...), Joint: node.joint})
		}
		for _, k := range node.order {
			walk(node.children[k], append(prefix[:len(prefix):len(prefix)], k))
		}
	}
	walk(r, nil)
	return out
}

// Names returns a reverse index from joint to its first registered path.
func (r *Registry) Names() map[JointID]string {
	out := make(map[JointID]string)
	for _, e := range r.Entries() {
		if _, ok := out[e.Joint]; !ok {
			out[e.Joint] = e.Path
		}
	}
	return out
}

// FormatPath renders keys as "wings[1][2]".
func FormatPath(path ...Key) string {
	var b strings.Builder
	for i, k := range path {
		if !k.IsIndex() && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(k.String())
	}
	return b.String()
}

// ParsePath is the inverse of FormatPath.
func ParsePath(s string) ([]Key, error) {
	var path []Key
	rest := s
	for len(rest) > 0 {
		switch rest[0] {
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated index in %q", math.ErrInvalidArgument, s)
			}
			n, err := strconv.Atoi(rest[1:end])
			if err != nil {
				return nil, fmt.Errorf("%w: bad index %q in %q", math.ErrInvalidArgument, rest[1:end], s)
			}
			path = append(path, Index(n))
			rest = rest[end+1:]
		case '.':
			if len(path) == 0 {
				return nil, fmt.Errorf("%w: path %q starts with '.'", math.ErrInvalidArgument, s)
			}
			rest = rest[1:]
			if rest == "" || rest[0] == '.' || rest[0] == '[' {
				return nil, fmt.Errorf("%w: empty name in %q", math.ErrInvalidArgument, s)
			}
		default:
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			if end == 0 || strings.ContainsRune(rest[:end], ']') {
				return nil, fmt.Errorf("%w: malformed path %q", math.ErrInvalidArgument, s)
			}
			path = append(path, Name(rest[:end]))
			rest = rest[end:]
		}
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("%w: empty path", math.ErrInvalidArgument)
	}
	return path, nil
}
