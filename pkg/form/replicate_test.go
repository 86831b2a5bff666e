package form

import (
	"testing"
)

func ownerReplicator() *Replicator {
	return &Replicator{
		Element:      Element{ID: "owners"},
		InstanceIDs:  []string{"first"},
		MinInstances: 1,
		MaxInstances: 3,
		Template: []Node{
			&Input{Element: Element{ID: "ownerName", Required: true}, Kind: FieldText},
		},
	}
}

func TestReplicatorInstances(t *testing.T) {
	t.Parallel()

	repl := ownerReplicator()
	id := repl.AddInstance()
	if id == "" {
		t.Fatalf("AddInstance returned empty id")
	}
	if len(repl.InstanceIDs) != 2 {
		t.Fatalf("expected 2 instances, got %v", repl.InstanceIDs)
	}

	repl.RemoveInstance("does-not-exist")
	if len(repl.InstanceIDs) != 2 {
		t.Fatalf("removing an unknown id must not change the list")
	}
	repl.RemoveInstance(id)
	if len(repl.InstanceIDs) != 1 || repl.InstanceIDs[0] != "first" {
		t.Fatalf("unexpected instances after removal: %v", repl.InstanceIDs)
	}
}

func TestInstancePrefix(t *testing.T) {
	t.Parallel()

	repl := ownerReplicator()
	prefix := repl.InstancePrefix("first")
	if prefix != "owners.first." {
		t.Fatalf("InstancePrefix = %q", prefix)
	}
	if got := ResolvedID(prefix, "ownerName"); got != "owners.first.ownerName" {
		t.Fatalf("ResolvedID = %q", got)
	}
	if got := ResolvedID("", "ownerName"); got != "ownerName" {
		t.Fatalf("empty prefix must pass the id through, got %q", got)
	}
}

func TestBuildIndexAndDuplicates(t *testing.T) {
	t.Parallel()

	root := &Root{
		Element: Element{ID: "f"},
		Steps: []*Step{
			{
				Element: Element{ID: "s1"},
				Role:    StepForm,
				Elements: []Node{
					&Input{Element: Element{ID: "a"}, Kind: FieldText},
					ownerReplicator(),
				},
			},
		},
	}

	idx := BuildIndex(root)
	for _, id := range []string{"f", "s1", "a", "owners", "ownerName"} {
		if _, ok := idx[id]; !ok {
			t.Fatalf("index missing %q", id)
		}
	}
	if dupes := DuplicateIDs(root); len(dupes) != 0 {
		t.Fatalf("unexpected duplicates: %v", dupes)
	}

	root.Steps[0].Elements = append(root.Steps[0].Elements,
		&Input{Element: Element{ID: "a"}, Kind: FieldNumber})
	dupes := DuplicateIDs(root)
	if len(dupes) != 1 || dupes[0] != "a" {
		t.Fatalf("expected duplicate id a, got %v", dupes)
	}
}
