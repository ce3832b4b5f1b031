package formdata_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/formdata"
)

func TestSetZeroCountDeletesBase(t *testing.T) {
	store := formdata.NewStore()
	store.Set("contents", []string{"a"})
	store.Set("contents_count", 0)

	if _, ok := store.Get("contents"); ok {
		t.Fatalf("zero count should delete the base key")
	}
	if v, ok := store.Get("contents_count"); !ok || v != 0 {
		t.Fatalf("count should still be stored, got %v %v", v, ok)
	}

	store.Set("weight", 4)
	store.Set("weight_count", 2)
	if _, ok := store.Get("weight"); !ok {
		t.Fatalf("non-zero count must keep the base key")
	}
}

func TestResizeRows(t *testing.T) {
	store := formdata.NewStore()
	store.ResizeRows("contents", 3)

	want := map[string]any{
		"contents":         []string{"", "", ""},
		"contents_numbers": []any{"", "", ""},
		"contents_count":   3,
	}
	if diff := cmp.Diff(want, store.Snapshot()); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	if err := store.SetRowContent("contents", 0, "Charger"); err != nil {
		t.Fatalf("SetRowContent: %v", err)
	}
	if err := store.SetRowNumber("contents", 0, "2"); err != nil {
		t.Fatalf("SetRowNumber: %v", err)
	}
	if err := store.SetRowContent("contents", 2, "Manual"); err != nil {
		t.Fatalf("SetRowContent: %v", err)
	}

	store.ResizeRows("contents", 1)
	contents, numbers := store.Rows("contents")
	if diff := cmp.Diff([]string{"Charger"}, contents); diff != "" {
		t.Fatalf("contents mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{2}, numbers); diff != "" {
		t.Fatalf("numbers mismatch (-want +got):\n%s", diff)
	}

	store.ResizeRows("contents", 2)
	contents, numbers = store.Rows("contents")
	if diff := cmp.Diff([]string{"Charger", ""}, contents); diff != "" {
		t.Fatalf("contents mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{2, ""}, numbers); diff != "" {
		t.Fatalf("numbers mismatch (-want +got):\n%s", diff)
	}

	store.ResizeRows("contents", 0)
	if _, ok := store.Get("contents"); ok {
		t.Fatalf("zero rows should clear the list")
	}
	if store.RowCount("contents") != 0 {
		t.Fatalf("row count should be zero")
	}
}

func TestRowEditsAndDelete(t *testing.T) {
	store := formdata.NewStore()
	store.ResizeRows("contents", 3)
	for i, v := range []string{"a", "b", "c"} {
		if err := store.SetRowContent("contents", i, v); err != nil {
			t.Fatalf("SetRowContent: %v", err)
		}
	}
	if err := store.SetRowNumber("contents", 1, "7"); err != nil {
		t.Fatalf("SetRowNumber: %v", err)
	}
	if err := store.SetRowNumber("contents", 1, ""); err != nil {
		t.Fatalf("clearing a number: %v", err)
	}
	if err := store.SetRowNumber("contents", 2, "x"); !errors.Is(err, formdata.ErrInvalidNumber) {
		t.Fatalf("expected ErrInvalidNumber, got %v", err)
	}
	if err := store.SetRowContent("contents", 5, "z"); !errors.Is(err, formdata.ErrRowOutOfRange) {
		t.Fatalf("expected ErrRowOutOfRange, got %v", err)
	}

	if err := store.DeleteRow("contents", 1); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	contents, numbers := store.Rows("contents")
	if diff := cmp.Diff([]string{"a", "c"}, contents); diff != "" {
		t.Fatalf("contents mismatch (-want +got):\n%s", diff)
	}
	if len(numbers) != 2 || store.RowCount("contents") != 2 {
		t.Fatalf("numbers/count not updated: %v, %d", numbers, store.RowCount("contents"))
	}

	_ = store.DeleteRow("contents", 0)
	_ = store.DeleteRow("contents", 0)
	if _, ok := store.Get("contents"); ok {
		t.Fatalf("deleting the last row should drop the list")
	}
}

func TestSnapshotIsACopyAndResetClears(t *testing.T) {
	store := formdata.NewStore()
	store.ResizeRows("contents", 1)
	snap := store.Snapshot()
	snap["contents"].([]string)[0] = "mutated"

	contents, _ := store.Rows("contents")
	if contents[0] != "" {
		t.Fatalf("snapshot shares memory with the store")
	}

	store.Reset()
	if store.Len() != 0 {
		t.Fatalf("reset should clear every key")
	}
}

func TestRowCountFromDecodedJSON(t *testing.T) {
	var count any
	if err := json.Unmarshal([]byte("3"), &count); err != nil {
		t.Fatalf("decode: %v", err)
	}
	store := formdata.NewStore()
	store.Set("contents_count", count)
	if got := store.RowCount("contents"); got != 3 {
		t.Fatalf("RowCount() = %d, want 3", got)
	}

	store.ResizeRows("contents", 2)
	if got := store.RowCount("contents"); got != 2 {
		t.Fatalf("RowCount() after resize = %d, want 2", got)
	}

	store.Set("contents_count", "bogus")
	if got := store.RowCount("contents"); got != 0 {
		t.Fatalf("RowCount() for a non-number = %d, want 0", got)
	}
}
