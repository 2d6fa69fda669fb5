package filter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-querystate/codec"
	"github.com/goliatone/go-querystate/pkg/state"
)

type countingReader struct {
	inner state.Reader
	calls int
	err   error
}

func (r *countingReader) Get(ctx context.Context, schema codec.Schema) (codec.Snapshot, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.inner.Get(ctx, schema)
}

func decode(defs []Definition, values map[string]codec.Raw) codec.Snapshot {
	return codec.Decode(Combine(defs...), func(key string) codec.Raw { return values[key] })
}

func TestRangeExcludeNullWithMinOnly(t *testing.T) {
	defs := Definitions(Fields{{Label: "price", Generator: Integer().Range(ExcludeNull())}})
	snap := decode(defs, map[string]codec.Raw{"priceMin": codec.RawOf("5")})

	got := Apply(snap, defs...)
	want := []Expression{
		{Field: "price", Op: OpGreaterEqual, Value: 5},
		{Field: "price", Op: OpNotEqual, Value: nil},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRangeBounds(t *testing.T) {
	cases := []struct {
		name    string
		values  map[string]codec.Raw
		exclude bool
		want    []Expression
	}{
		{
			name:   "no bounds",
			values: map[string]codec.Raw{},
			want:   nil,
		},
		{
			name:    "no bounds exclude null emits nothing",
			values:  map[string]codec.Raw{},
			exclude: true,
			want:    nil,
		},
		{
			name:   "both bounds max first",
			values: map[string]codec.Raw{"ageMin": codec.RawOf("18"), "ageMax": codec.RawOf("65")},
			want: []Expression{
				{Field: "age", Op: OpLessEqual, Value: 65},
				{Field: "age", Op: OpGreaterEqual, Value: 18},
			},
		},
		{
			name:    "malformed bound dropped",
			values:  map[string]codec.Raw{"ageMin": codec.RawOf("x"), "ageMax": codec.RawOf("65")},
			exclude: true,
			want: []Expression{
				{Field: "age", Op: OpLessEqual, Value: 65},
				{Field: "age", Op: OpNotEqual, Value: nil},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var opts []RangeOption
			if tc.exclude {
				opts = append(opts, ExcludeNull())
			}
			defs := Definitions(Fields{}.Add("age", Integer().Range(opts...)))
			got := Apply(decode(defs, tc.values), defs...)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			if len(got) > 3 {
				t.Fatalf("range emitted %d expressions", len(got))
			}
		})
	}
}

func TestInDelimitedRoundTrip(t *testing.T) {
	gen := String().In(WithDelimiter(","))
	def := gen.Generate("tags")

	raw, err := def.Schema["tags"].Encode(codec.Some[any]([]string{"a", "b"}))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(raw.Values) != 1 || raw.Values[0] != "a,b" {
		t.Fatalf("expected single delimited occurrence, got %+v", raw)
	}

	snap := codec.Decode(def.Schema, func(string) codec.Raw { return raw })
	got := def.Transform(snap)
	want := []Expression{{Field: "tags", Op: OpEqual, Value: []string{"a", "b"}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestInRepeatedOccurrence(t *testing.T) {
	def := Integer().In().Generate("ids")
	snap := codec.Decode(def.Schema, func(string) codec.Raw { return codec.RawOf("1", "x", "3") })

	got := def.Transform(snap)
	want := []Expression{{Field: "ids", Op: OpEqual, Value: []int{1, 3}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestEqualSentinelDistinction(t *testing.T) {
	def := NullableString().Equal().Generate("search")

	absent := codec.Decode(def.Schema, func(string) codec.Raw { return codec.Raw{} })
	cleared := codec.Decode(def.Schema, func(string) codec.Raw { return codec.Raw{Cleared: true} })

	if got := def.Transform(absent); len(got) != 0 {
		t.Fatalf("expected no expression for missing value, got %v", got)
	}
	if got := def.Transform(cleared); len(got) != 0 {
		t.Fatalf("expected no expression for null value, got %v", got)
	}
	if !absent.Lookup("search").IsMissing() {
		t.Fatalf("expected absent key to decode as missing, got %s", absent.Lookup("search"))
	}
	if !cleared.Lookup("search").IsNull() {
		t.Fatalf("expected cleared key to decode as null, got %s", cleared.Lookup("search"))
	}
}

func TestEqualNonNullableIgnoresCleared(t *testing.T) {
	def := Enum("a", "b").Equal().Generate("kind")

	snap := codec.Decode(def.Schema, func(string) codec.Raw { return codec.Raw{Cleared: true} })
	if !snap.Lookup("kind").IsMissing() {
		t.Fatalf("expected non-nullable codec to ignore clear marker, got %s", snap.Lookup("kind"))
	}

	snap = codec.Decode(def.Schema, func(string) codec.Raw { return codec.RawOf("c") })
	if got := def.Transform(snap); len(got) != 0 {
		t.Fatalf("expected enum miss to emit nothing, got %v", got)
	}
}

func TestCombineLastDefinitionWins(t *testing.T) {
	first := String().Equal().Generate("q")
	second := Integer().Equal().Generate("q")

	schema := Combine(first, second)
	if got := schema["q"].Descriptor().Type; got != "integer" {
		t.Fatalf("expected later definition to win, got %q", got)
	}
	schema = Combine(second, first)
	if got := schema["q"].Descriptor().Type; got != "string" {
		t.Fatalf("expected later definition to win, got %q", got)
	}
}

func TestDefinitionsPreserveOrder(t *testing.T) {
	fields := Fields{}.
		Add("b", String().Equal()).
		Add("a", String().Equal()).
		Add("skip", nil).
		Add("c", String().Equal())

	defs := Definitions(fields)
	if len(defs) != 3 {
		t.Fatalf("expected 3 definitions, got %d", len(defs))
	}
	values := map[string]codec.Raw{"a": codec.RawOf("1"), "b": codec.RawOf("2"), "c": codec.RawOf("3")}
	got := Apply(decode(defs, values), defs...)
	order := []string{got[0].Field, got[1].Field, got[2].Field}
	if !reflect.DeepEqual(order, []string{"b", "a", "c"}) {
		t.Fatalf("expected declaration order, got %v", order)
	}
}

func TestDeriveReadsOnceAndIsDeterministic(t *testing.T) {
	store := state.NewMemoryStore(state.WithInitialValues(map[string]codec.Raw{
		"search":    codec.RawOf("shoes"),
		"priceMin":  codec.RawOf("10"),
		"priceMax":  codec.RawOf("99.5"),
		"category":  codec.RawOf("a,c"),
		"available": codec.RawOf("true"),
	}))
	fields := Fields{}.
		Add("search", NullableString().Equal()).
		Add("price", Float().Range(ExcludeNull())).
		Add("category", Enum("a", "b", "c").In(WithDelimiter(","))).
		Add("available", Boolean().Equal())
	defs := Definitions(fields)

	reader := &countingReader{inner: store}
	first, err := Derive(context.Background(), reader, defs...)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if reader.calls != 1 {
		t.Fatalf("expected exactly one read, got %d", reader.calls)
	}
	second, err := Derive(context.Background(), reader, defs...)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output, got %v and %v", first, second)
	}
	want := []Expression{
		{Field: "search", Op: OpEqual, Value: "shoes"},
		{Field: "price", Op: OpLessEqual, Value: 99.5},
		{Field: "price", Op: OpGreaterEqual, Value: float64(10)},
		{Field: "price", Op: OpNotEqual, Value: nil},
		{Field: "category", Op: OpEqual, Value: []string{"a", "c"}},
		{Field: "available", Op: OpEqual, Value: true},
	}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("unexpected expressions\nwant %v\n got %v", want, first)
	}

	a, b := encodeExpressions(t, first), encodeExpressions(t, second)
	if !bytes.Equal(a, b) {
		t.Fatalf("expected identical encoding, got %s and %s", a, b)
	}
	wantJSON := `[["search","=","shoes"],["price","<=",99.5],["price",">=",10],["price","!=",null],["category","=",["a","c"]],["available","=",true]]`
	if got := string(bytes.TrimSpace(a)); got != wantJSON {
		t.Fatalf("unexpected encoding\nwant %s\n got %s", wantJSON, got)
	}
}

func encodeExpressions(t *testing.T, exprs []Expression) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(exprs); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestDeriveWrapsReadError(t *testing.T) {
	boom := errors.New("boom")
	reader := &countingReader{err: boom}
	_, err := Derive(context.Background(), reader, String().Equal().Generate("q"))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped read error, got %v", err)
	}
}

func TestExpressionJSON(t *testing.T) {
	var e Expression
	if err := json.Unmarshal([]byte(`["age",">=",18]`), &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if e.Field != "age" || e.Op != OpGreaterEqual || e.Value != float64(18) {
		t.Fatalf("unexpected expression %+v", e)
	}
	if err := json.Unmarshal([]byte(`["age","~",18]`), &e); err == nil {
		t.Fatalf("expected unsupported operator error")
	}
	if err := json.Unmarshal([]byte(`["age","="]`), &e); err == nil {
		t.Fatalf("expected arity error")
	}
	raw, err := Expression{Field: "age", Op: OpLessEqual, Value: 5}.MarshalJSON()
	if err != nil || string(raw) != `["age","<=",5]` {
		t.Fatalf("unexpected encoding %s (%v)", raw, err)
	}
	if got := (Expression{Field: "age", Op: OpNotEqual}).String(); got != "age != null" {
		t.Fatalf("unexpected string %q", got)
	}
}
