package pagination

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/goliatone/go-querystate/codec"
	"github.com/goliatone/go-querystate/pkg/state"
)

type continuityCase struct {
	Name     string `json:"name"`
	CurPage  int    `json:"curPage"`
	CurSize  int    `json:"curSize"`
	NewSize  int    `json:"newSize"`
	WantPage int    `json:"wantPage"`
}

func TestNewPageFixtures(t *testing.T) {
	cases := loadFixture[[]continuityCase](t, "continuity.json")
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			if got := NewPage(tc.CurPage, tc.CurSize, tc.NewSize); got != tc.WantPage {
				t.Fatalf("NewPage(%d, %d, %d) = %d, want %d", tc.CurPage, tc.CurSize, tc.NewSize, got, tc.WantPage)
			}
		})
	}
}

func TestNewPageContinuity(t *testing.T) {
	for curPage := 1; curPage <= 25; curPage++ {
		for curSize := 1; curSize <= 25; curSize++ {
			for newSize := 1; newSize <= 25; newSize++ {
				idx := 1 + (curPage-1)*curSize
				page := NewPage(curPage, curSize, newSize)
				if page < 1 {
					t.Fatalf("page %d below 1 for (%d, %d, %d)", page, curPage, curSize, newSize)
				}
				if !((page-1)*newSize < idx && idx <= page*newSize) {
					t.Fatalf("item %d not on page %d of size %d (from page %d size %d)", idx, page, newSize, curPage, curSize)
				}
			}
		}
	}
}

func TestStateLimitOffset(t *testing.T) {
	s := State{Page: 3, PageSize: 25}
	if s.Limit() != 25 || s.Offset() != 50 {
		t.Fatalf("unexpected limit/offset %d/%d", s.Limit(), s.Offset())
	}
	if (State{Page: 1, PageSize: 10}).Offset() != 0 {
		t.Fatalf("expected first page offset 0")
	}
}

func TestPaginatorDefaults(t *testing.T) {
	p := New(state.NewMemoryStore(), WithDefaultPageSize(50))
	got, err := p.State(context.Background())
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if got != (State{Page: 1, PageSize: 50}) {
		t.Fatalf("unexpected defaults %+v", got)
	}
	if New(state.NewMemoryStore(), WithDefaultPageSize(0)).DefaultPageSize() != DefaultPageSize {
		t.Fatalf("expected non-positive default to be ignored")
	}
}

func TestChangePageSizeWritesBothKeysAtomically(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore(state.WithInitialValues(map[string]codec.Raw{
		"page":     codec.RawOf("3"),
		"pageSize": codec.RawOf("20"),
	}))
	p := New(store)
	before := store.Meta().Version

	if err := p.ChangePageSize(ctx, 50); err != nil {
		t.Fatalf("change page size: %v", err)
	}
	got, _ := p.State(ctx)
	if got != (State{Page: 1, PageSize: 50}) {
		t.Fatalf("unexpected state %+v", got)
	}
	meta := store.Meta()
	if meta.Version != before+1 {
		t.Fatalf("expected one transition, version %d -> %d", before, meta.Version)
	}
	if len(meta.Keys) != 2 {
		t.Fatalf("expected both keys in one transition, got %v", meta.Keys)
	}
}

func TestChangePageSizeNonPositiveKeepsPage(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore(state.WithInitialValues(map[string]codec.Raw{
		"page":     codec.RawOf("4"),
		"pageSize": codec.RawOf("10"),
	}))
	p := New(store)

	if err := p.ChangePageSize(ctx, 0); err != nil {
		t.Fatalf("change page size: %v", err)
	}
	if raw := store.Raw("page"); len(raw.Values) != 1 || raw.Values[0] != "4" {
		t.Fatalf("expected page unchanged, got %v", raw.Values)
	}
	if raw := store.Raw("pageSize"); !raw.IsZero() {
		t.Fatalf("expected page size cleared, got %v", raw.Values)
	}
	got, _ := p.State(ctx)
	if got != (State{Page: 4, PageSize: DefaultPageSize}) {
		t.Fatalf("unexpected state %+v", got)
	}
}

func TestStoredNonPositiveValuesFallBackToDefaults(t *testing.T) {
	cases := map[string]struct {
		page, size string
		want       State
	}{
		"zero page":          {page: "0", size: "10", want: State{Page: 1, PageSize: 10}},
		"negative size":      {page: "2", size: "-5", want: State{Page: 2, PageSize: DefaultPageSize}},
		"both invalid":       {page: "-1", size: "0", want: State{Page: 1, PageSize: DefaultPageSize}},
		"garbage":            {page: "x", size: "1e3", want: State{Page: 1, PageSize: DefaultPageSize}},
		"positive unchanged": {page: "3", size: "25", want: State{Page: 3, PageSize: 25}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			store := state.NewMemoryStore(state.WithInitialValues(map[string]codec.Raw{
				"page":     codec.RawOf(tc.page),
				"pageSize": codec.RawOf(tc.size),
			}))
			got, err := New(store).State(context.Background())
			if err != nil {
				t.Fatalf("state: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
			if got.Offset() < 0 || got.Limit() < 1 {
				t.Fatalf("invalid derived window %d/%d", got.Offset(), got.Limit())
			}
		})
	}
}

func TestSetPaginationPartialPatch(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	p := New(store, WithKeys("p", "size"), WithHistory(state.HistoryPush))

	if err := p.SetPagination(ctx, Patch{Page: codec.Some(4), PageSize: codec.Some(10)}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := p.SetPagination(ctx, Patch{Page: codec.Some(2)}); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _ := p.State(ctx)
	if got != (State{Page: 2, PageSize: 10}) {
		t.Fatalf("unexpected state %+v", got)
	}
	if store.Depth() != 3 {
		t.Fatalf("expected pushed entries, depth %d", store.Depth())
	}

	if err := p.SetPagination(ctx, Patch{PageSize: codec.Null[int]()}); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _ = p.State(ctx)
	if got != (State{Page: 2, PageSize: DefaultPageSize}) {
		t.Fatalf("expected page size reset, got %+v", got)
	}

	before := store.Meta().Version
	if err := p.SetPagination(ctx, Patch{}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if store.Meta().Version != before {
		t.Fatalf("expected empty patch to be a no-op")
	}
}

func loadFixture[T any](t *testing.T, name string) T {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("unable to resolve caller for fixture %q", name)
	}
	path := filepath.Join(filepath.Dir(file), "testdata", name)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %q: %v", path, err)
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("failed to unmarshal fixture %q: %v", path, err)
	}
	return out
}
