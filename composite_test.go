package rebound

import (
	"testing"

	"github.com/akmonengine/rebound/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

func TestCompositeAddRemoveBody(t *testing.T) {
	world := NewComposite("World")
	body := createTestBox(0, 0, 20, false)

	world.AddBody(body)
	if len(world.Bodies) != 1 {
		t.Fatal("body not added")
	}
	if !world.IsModified {
		t.Error("add must set the modified flag")
	}

	world.IsModified = false
	world.RemoveBody(body, false)
	if len(world.Bodies) != 0 {
		t.Fatal("body not removed")
	}
	if !world.IsModified {
		t.Error("remove must set the modified flag")
	}
}

func TestCompositeModifiedPropagatesUp(t *testing.T) {
	root := NewComposite("root")
	child := NewComposite("child")
	root.AddComposite(child)
	root.SetModified(false, false, true)

	child.AddBody(createTestBox(0, 0, 20, false))

	if !child.IsModified || !root.IsModified {
		t.Error("modification did not propagate to the parent")
	}
}

// consecutive resets leave the tree unchanged
func TestSetModifiedIdempotent(t *testing.T) {
	root := NewComposite("root")
	child := NewComposite("child")
	root.AddComposite(child)

	root.SetModified(false, false, true)
	if root.IsModified || child.IsModified {
		t.Fatal("flags not cleared")
	}

	root.SetModified(false, false, true)
	if root.IsModified || child.IsModified {
		t.Error("second reset changed the tree")
	}
	if len(root.Composites) != 1 || root.Composites[0] != child {
		t.Error("tree structure changed")
	}
}

func TestAllBodiesFlattensTree(t *testing.T) {
	root := NewComposite("root")
	child := NewComposite("child")
	grandchild := NewComposite("grandchild")

	root.AddBody(createTestBox(0, 0, 20, false))
	child.AddBody(createTestBox(50, 0, 20, false))
	grandchild.AddBody(createTestBox(100, 0, 20, false))

	child.AddComposite(grandchild)
	root.AddComposite(child)

	if got := len(root.AllBodies()); got != 3 {
		t.Errorf("AllBodies = %d, want 3", got)
	}
	if got := len(root.AllComposites()); got != 2 {
		t.Errorf("AllComposites = %d, want 2", got)
	}
}

func TestAllConstraints(t *testing.T) {
	root := NewComposite("root")
	child := NewComposite("child")
	root.AddComposite(child)

	cfg := constraint.DefaultConfig()
	cfg.PointA = mgl64.Vec2{0, 0}
	cfg.PointB = mgl64.Vec2{10, 0}
	child.AddConstraint(constraint.New(&cfg))

	if got := len(root.AllConstraints()); got != 1 {
		t.Errorf("AllConstraints = %d, want 1", got)
	}
}

func TestClearKeepStatic(t *testing.T) {
	world := NewComposite("World")
	world.AddBody(createTestBox(0, 0, 20, false))
	world.AddBody(createTestBox(50, 0, 20, true))

	world.Clear(true, false)

	if len(world.Bodies) != 1 || !world.Bodies[0].IsStatic {
		t.Error("Clear(keepStatic) must retain only static bodies")
	}

	world.Clear(false, false)
	if len(world.Bodies) != 0 {
		t.Error("Clear must drop everything")
	}
}

func TestCompositeEvents(t *testing.T) {
	world := NewComposite("World")
	body := createTestBox(0, 0, 20, false)

	var sequence []EventType
	for _, name := range []EventType{BEFORE_ADD, AFTER_ADD, BEFORE_REMOVE, AFTER_REMOVE} {
		world.Events.Subscribe(name, func(event Event) {
			sequence = append(sequence, event.Type())
			if event.(CompositeEvent).Body != body {
				t.Error("event carries the wrong body")
			}
		})
	}

	world.AddBody(body)
	world.RemoveBody(body, false)

	want := []EventType{BEFORE_ADD, AFTER_ADD, BEFORE_REMOVE, AFTER_REMOVE}
	if len(sequence) != len(want) {
		t.Fatalf("got %d events, want %d", len(sequence), len(want))
	}
	for i := range want {
		if sequence[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, sequence[i], want[i])
		}
	}
}

func TestCompositeMoveBody(t *testing.T) {
	from := NewComposite("from")
	to := NewComposite("to")
	body := createTestBox(0, 0, 20, false)
	from.AddBody(body)

	from.MoveBody(body, to)

	if len(from.Bodies) != 0 || len(to.Bodies) != 1 {
		t.Error("body not moved between composites")
	}
}

func TestCompositeTranslate(t *testing.T) {
	world := NewComposite("World")
	body := createTestBox(10, 10, 20, false)
	world.AddBody(body)

	world.Translate(mgl64.Vec2{5, -5}, true)

	if body.Position != (mgl64.Vec2{15, 5}) {
		t.Errorf("body at %v, want (15, 5)", body.Position)
	}
}

func TestCompositeDeepRemove(t *testing.T) {
	root := NewComposite("root")
	child := NewComposite("child")
	root.AddComposite(child)
	body := createTestBox(0, 0, 20, false)
	child.AddBody(body)

	root.RemoveBody(body, true)

	if len(child.Bodies) != 0 {
		t.Error("deep remove did not reach the child composite")
	}
}
