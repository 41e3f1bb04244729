package dragdrop

import (
	"testing"

	"taskboard/internal/boardstate"
)

// fakeGeometry serves fixed rectangles keyed by task id.
type fakeGeometry struct {
	rects   map[string]Rect
	columns map[string][]string // category id -> task ids with rects
}

func (g *fakeGeometry) TaskRect(taskID string) (Rect, bool) {
	r, ok := g.rects[taskID]
	return r, ok
}

func (g *fakeGeometry) SiblingRects(categoryID string) map[string]Rect {
	out := map[string]Rect{}
	for _, id := range g.columns[categoryID] {
		if r, ok := g.rects[id]; ok {
			out[id] = r
		}
	}
	return out
}

// testBoard builds two columns: Todo with three cards stacked at
// y=0,100,200 (each 90 tall), Done with one card.
func testBoard() []boardstate.Category {
	return []boardstate.Category{
		{ID: "col-todo", Title: "Todo", Order: 0, Tasks: []boardstate.Task{
			{ID: "t-a", CategoryID: "col-todo", Title: "a", Order: 0},
			{ID: "t-b", CategoryID: "col-todo", Title: "b", Order: 1},
			{ID: "t-c", CategoryID: "col-todo", Title: "c", Order: 2},
		}},
		{ID: "col-done", Title: "Done", Order: 1, Tasks: []boardstate.Task{
			{ID: "t-x", CategoryID: "col-done", Title: "x", Order: 0},
		}},
	}
}

func testGeometry() *fakeGeometry {
	return &fakeGeometry{
		rects: map[string]Rect{
			"t-a": {Top: 0, Height: 90},
			"t-b": {Top: 100, Height: 90},
			"t-c": {Top: 200, Height: 90},
			"t-x": {Top: 0, Height: 90},
		},
		columns: map[string][]string{
			"col-todo": {"t-a", "t-b", "t-c"},
			"col-done": {"t-x"},
		},
	}
}

func rectPtr(r Rect) *Rect    { return &r }
func pointPtr(p Point) *Point { return &p }

func TestCrossColumnDropOnColumnLandsOnTop(t *testing.T) {
	intent, ok := Resolve(DropEvent{ActiveID: "t-a", OverID: "col-done"}, testBoard(), testGeometry())
	if !ok {
		t.Fatal("not resolved")
	}
	want := Intent{TaskID: "t-a", CategoryID: "col-done", Index: 0}
	if intent != want {
		t.Errorf("intent = %+v, want %+v", intent, want)
	}
}

func TestDropOnForeignCardTakesItsSlot(t *testing.T) {
	intent, ok := Resolve(DropEvent{ActiveID: "t-x", OverID: "t-b"}, testBoard(), testGeometry())
	if !ok {
		t.Fatal("not resolved")
	}
	want := Intent{TaskID: "t-x", CategoryID: "col-todo", Index: 1}
	if intent != want {
		t.Errorf("intent = %+v, want %+v", intent, want)
	}
}

func TestDropOnSiblingCardTakesItsSlot(t *testing.T) {
	intent, ok := Resolve(DropEvent{ActiveID: "t-a", OverID: "t-c"}, testBoard(), testGeometry())
	if !ok {
		t.Fatal("not resolved")
	}
	want := Intent{TaskID: "t-a", CategoryID: "col-todo", Index: 2}
	if intent != want {
		t.Errorf("intent = %+v, want %+v", intent, want)
	}
}

func TestSelfDropReconstructsPointerPosition(t *testing.T) {
	// Card a grabbed 45px into itself at y=0, dragged 160px down: the
	// pointer sits at y=205, below the centers of b (145) and c (245 is
	// below, so not counted). One sibling above -> index 1.
	ev := DropEvent{
		ActiveID:      "t-a",
		OverID:        "t-a",
		InitialRect:   rectPtr(Rect{Top: 0, Height: 90}),
		PointerOffset: pointPtr(Point{Y: 45}),
		Delta:         Point{Y: 160},
	}
	intent, ok := Resolve(ev, testBoard(), testGeometry())
	if !ok {
		t.Fatal("not resolved")
	}
	want := Intent{TaskID: "t-a", CategoryID: "col-todo", Index: 1}
	if intent != want {
		t.Errorf("intent = %+v, want %+v", intent, want)
	}
}

func TestSameColumnDropOnColumnUsesPointer(t *testing.T) {
	// Pointer ends at y=290, below every sibling center -> last slot.
	ev := DropEvent{
		ActiveID:      "t-a",
		OverID:        "col-todo",
		InitialRect:   rectPtr(Rect{Top: 0, Height: 90}),
		PointerOffset: pointPtr(Point{Y: 45}),
		Delta:         Point{Y: 245},
	}
	intent, ok := Resolve(ev, testBoard(), testGeometry())
	if !ok {
		t.Fatal("not resolved")
	}
	if intent.Index != 2 {
		t.Errorf("index = %d, want 2", intent.Index)
	}
}

func TestPointerFallsBackToLiveRect(t *testing.T) {
	// No grab offset recorded. The live rect for a (still at the top)
	// puts its center above b and c -> index 0.
	ev := DropEvent{ActiveID: "t-a", OverID: "t-a"}
	intent, ok := Resolve(ev, testBoard(), testGeometry())
	if !ok {
		t.Fatal("not resolved")
	}
	if intent.Index != 0 {
		t.Errorf("index = %d, want 0", intent.Index)
	}
}

func TestPointerFallsBackToTranslatedRect(t *testing.T) {
	// No offset, no live rect. The toolkit's translated rect centers
	// the card at y=245: b's center (145) is above it, c's (245) is
	// not strictly above, so one sibling counts and the index is 1.
	geo := testGeometry()
	delete(geo.rects, "t-a")
	ev := DropEvent{
		ActiveID:       "t-a",
		OverID:         "t-a",
		TranslatedRect: rectPtr(Rect{Top: 200, Height: 90}),
	}
	intent, ok := Resolve(ev, testBoard(), geo)
	if !ok {
		t.Fatal("not resolved")
	}
	if intent.Index != 1 {
		t.Errorf("index = %d, want 1", intent.Index)
	}
}

func TestPointerFallsBackToInitialRectPlusDelta(t *testing.T) {
	geo := testGeometry()
	delete(geo.rects, "t-a")
	ev := DropEvent{
		ActiveID:    "t-a",
		OverID:      "t-a",
		InitialRect: rectPtr(Rect{Top: 0, Height: 90}),
		Delta:       Point{Y: 210},
	}
	// Center reconstructs to 45+210=255. Both sibling centers (145 and
	// 245) sit above it, so the card lands in the last slot.
	intent, ok := Resolve(ev, testBoard(), geo)
	if !ok {
		t.Fatal("not resolved")
	}
	if intent.Index != 2 {
		t.Errorf("index = %d, want 2", intent.Index)
	}
}

func TestSelfDropWithoutGeometryKeepsIndex(t *testing.T) {
	intent, ok := Resolve(DropEvent{ActiveID: "t-b", OverID: "t-b"}, testBoard(), nil)
	if !ok {
		t.Fatal("not resolved")
	}
	want := Intent{TaskID: "t-b", CategoryID: "col-todo", Index: 1}
	if intent != want {
		t.Errorf("intent = %+v, want %+v", intent, want)
	}
}

func TestSelfDropWithoutSiblingRectsKeepsIndex(t *testing.T) {
	geo := &fakeGeometry{rects: map[string]Rect{}, columns: map[string][]string{}}
	ev := DropEvent{
		ActiveID:      "t-c",
		OverID:        "col-todo",
		InitialRect:   rectPtr(Rect{Top: 200, Height: 90}),
		PointerOffset: pointPtr(Point{Y: 10}),
		Delta:         Point{Y: -300},
	}
	intent, ok := Resolve(ev, testBoard(), geo)
	if !ok {
		t.Fatal("not resolved")
	}
	if intent.Index != 2 {
		t.Errorf("index = %d, want original 2", intent.Index)
	}
}

func TestIndexClamping(t *testing.T) {
	// Same column: pointer far below everything still lands on the last
	// valid slot, never past it.
	ev := DropEvent{
		ActiveID:      "t-a",
		OverID:        "col-todo",
		InitialRect:   rectPtr(Rect{Top: 0, Height: 90}),
		PointerOffset: pointPtr(Point{Y: 45}),
		Delta:         Point{Y: 5000},
	}
	intent, ok := Resolve(ev, testBoard(), testGeometry())
	if !ok {
		t.Fatal("not resolved")
	}
	if intent.Index != 2 {
		t.Errorf("index = %d, want 2", intent.Index)
	}
}

func TestUnknownActiveOrTarget(t *testing.T) {
	if _, ok := Resolve(DropEvent{ActiveID: "ghost", OverID: "col-todo"}, testBoard(), nil); ok {
		t.Error("resolved a drag of an unknown task")
	}
	if _, ok := Resolve(DropEvent{ActiveID: "t-a", OverID: "ghost"}, testBoard(), nil); ok {
		t.Error("resolved a drop onto an unknown target")
	}
}

func TestDropIntoEmptyColumn(t *testing.T) {
	board := testBoard()
	board = append(board, boardstate.Category{ID: "col-empty", Title: "Empty", Order: 2, Tasks: []boardstate.Task{}})

	intent, ok := Resolve(DropEvent{ActiveID: "t-a", OverID: "col-empty"}, board, nil)
	if !ok {
		t.Fatal("not resolved")
	}
	want := Intent{TaskID: "t-a", CategoryID: "col-empty", Index: 0}
	if intent != want {
		t.Errorf("intent = %+v, want %+v", intent, want)
	}
}
