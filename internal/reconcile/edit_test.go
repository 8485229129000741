package reconcile

import (
	"testing"

	"github.com/desertthunder/studio/internal/models"
	"github.com/google/go-cmp/cmp"
)

func TestEdits(t *testing.T) {
	t.Run("AddGroup appends a named group", func(t *testing.T) {
		current := group("A", "Duo (Print #1)", "duo", 2, nil)

		got, groupID := AddGroup(current, shape("trio", "Trio", 3), false, counter("n"))

		if groupID != "n-1" {
			t.Errorf("expected group id n-1, got %s", groupID)
		}
		if len(got) != 5 {
			t.Fatalf("expected 5 slots, got %d", len(got))
		}
		added := got[2:]
		for i, s := range added {
			if s.GroupID != groupID || s.GroupName != "Trio (Print #2)" || s.IndexInGroup != i || s.TemplateID != "trio" {
				t.Errorf("unexpected added slot %+v", s)
			}
		}
		if err := CheckInvariants(got); err != nil {
			t.Errorf("CheckInvariants() error = %v", err)
		}
		if len(current) != 2 {
			t.Error("AddGroup mutated its input")
		}
	})

	t.Run("AddGroup additional", func(t *testing.T) {
		got, _ := AddGroup(nil, shape("single", "Single", 1), true, counter("n"))
		if got[0].GroupName != "Single (Additional Print #1)" {
			t.Errorf("unexpected name %q", got[0].GroupName)
		}
	})

	t.Run("AddGroup after RemoveGroup does not repeat a label", func(t *testing.T) {
		a := group("A", "Duo (Print #1)", "duo", 2, nil)
		b := group("B", "Single (Print #2)", "single", 1, nil)

		got, groupID := AddGroup(RemoveGroup(concat(a, b), "A"), shape("duo", "Duo", 2), false, counter("n"))

		added, ok := FindGroup(got, groupID)
		if !ok {
			t.Fatal("added group not found")
		}
		if added.Name != "Duo (Print #3)" {
			t.Errorf("expected Duo (Print #3), got %q", added.Name)
		}
	})

	t.Run("PrintNumber", func(t *testing.T) {
		tests := []struct {
			name string
			want int
			ok   bool
		}{
			{"Duo (Print #2)", 2, true},
			{"Single (Additional Print #14)", 14, true},
			{"Custom label", 0, false},
			{"Duo (Print #x)", 0, false},
		}
		for _, tt := range tests {
			n, ok := PrintNumber(tt.name)
			if n != tt.want || ok != tt.ok {
				t.Errorf("PrintNumber(%q) = %d, %v; want %d, %v", tt.name, n, ok, tt.want, tt.ok)
			}
		}
	})

	t.Run("RemoveGroup", func(t *testing.T) {
		a := group("A", "Duo (Print #1)", "duo", 2, nil)
		b := group("B", "Single (Print #2)", "single", 1, nil)
		c := group("C", "Single (Print #3)", "single", 1, nil)

		got := RemoveGroup(concat(a, b, c), "B")

		if diff := cmp.Diff(concat(a, c), got); diff != "" {
			t.Errorf("RemoveGroup() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("AssignPhoto clears placement", func(t *testing.T) {
		current := group("A", "Duo (Print #1)", "duo", 2, nil)

		got, ok := AssignPhoto(current, "A-slot-1", "photo-9")
		if !ok {
			t.Fatal("expected slot to be found")
		}
		if got[1].PhotoRef != "photo-9" || got[1].Placement != nil {
			t.Errorf("unexpected slot %+v", got[1])
		}
		if current[1].PhotoRef != "" {
			t.Error("AssignPhoto mutated its input")
		}

		if _, ok := AssignPhoto(current, "missing", "photo"); ok {
			t.Error("expected missing slot to be reported")
		}
	})

	t.Run("ClearPhoto", func(t *testing.T) {
		current := group("A", "Duo (Print #1)", "duo", 2, map[int]string{0: "p0"})
		got, ok := ClearPhoto(current, "A-slot-0")
		if !ok || got[0].HasPhoto() {
			t.Errorf("expected cleared slot, got %+v", got[0])
		}
	})

	t.Run("SetPlacement", func(t *testing.T) {
		current := group("A", "Duo (Print #1)", "duo", 2, map[int]string{0: "p0"})
		placement := models.Placement{OffsetX: 0.5, Scale: 2}

		got, ok := SetPlacement(current, "A-slot-0", placement)
		if !ok {
			t.Fatal("expected slot to be found")
		}
		if diff := cmp.Diff(&placement, got[0].Placement); diff != "" {
			t.Errorf("placement mismatch (-want +got):\n%s", diff)
		}
	})
}
