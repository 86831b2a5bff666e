package form

import (
	"fmt"

	"github.com/google/uuid"
)

// Replicator repeats its template sub-tree once per instance id. Template
// element ids stay untouched; evaluation disambiguates replicas with an id
// prefix derived from the replicator and instance ids.
type Replicator struct {
	Element
	Title        string   `json:"title,omitempty" yaml:"title,omitempty"`
	InstanceIDs  []string `json:"instanceIds" yaml:"instanceIds"`
	MinInstances int      `json:"minInstances,omitempty" yaml:"minInstances,omitempty"`
	MaxInstances int      `json:"maxInstances,omitempty" yaml:"maxInstances,omitempty"`
	Template     []Node   `json:"-" yaml:"-"`
}

func (r *Replicator) Children() []Node { return r.Template }

// AddInstance mints a new instance id, appends it, and returns it. The caller
// owns persistence of the updated id list.
func (r *Replicator) AddInstance() string {
	id := uuid.NewString()
	r.InstanceIDs = append(r.InstanceIDs, id)
	return id
}

// RemoveInstance drops an instance id; unknown ids are ignored.
func (r *Replicator) RemoveInstance(id string) {
	for i, existing := range r.InstanceIDs {
		if existing == id {
			r.InstanceIDs = append(r.InstanceIDs[:i], r.InstanceIDs[i+1:]...)
			return
		}
	}
}

// InstancePrefix builds the id prefix for one replica of this replicator.
func (r *Replicator) InstancePrefix(instanceID string) string {
	return fmt.Sprintf("%s.%s.", r.ID, instanceID)
}

// ResolvedID joins an evaluation-time prefix with an element id. The prefix
// is empty outside replicated sub-trees.
func ResolvedID(prefix, id string) string {
	if prefix == "" {
		return id
	}
	return prefix + id
}

// Index maps every element id in the tree (replicator templates included) to
// its node. The last duplicate wins; DuplicateIDs reports collisions.
type Index map[string]Node

// BuildIndex walks the tree and indexes nodes by bare element id.
func BuildIndex(root *Root) Index {
	idx := make(Index)
	var walk func(Node)
	walk = func(n Node) {
		if n == nil {
			return
		}
		if id := n.Base().ID; id != "" {
			idx[id] = n
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	walk(root)
	return idx
}

// DuplicateIDs returns ids that occur more than once in the tree, violating
// the uniqueness invariant. Authoring tools call this at save time; the
// engine itself stays permissive.
func DuplicateIDs(root *Root) []string {
	seen := make(map[string]int)
	var walk func(Node)
	walk = func(n Node) {
		if n == nil {
			return
		}
		if id := n.Base().ID; id != "" {
			seen[id]++
		}
		for _, child := range n.Children() {
			walk(child)
		}
	}
	walk(root)

	var dupes []string
	for id, count := range seen {
		if count > 1 {
			dupes = append(dupes, id)
		}
	}
	return dupes
}
