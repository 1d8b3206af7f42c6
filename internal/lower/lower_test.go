package lower

import (
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/golangsnmp/asnc/internal/naming"
	"github.com/golangsnmp/asnc/internal/native"
	"github.com/golangsnmp/asnc/internal/parser"
	"github.com/golangsnmp/asnc/internal/resolver"
	"github.com/golangsnmp/asnc/internal/schema"
	"github.com/golangsnmp/asnc/internal/scope"
	"github.com/golangsnmp/asnc/internal/testutil"
)

func resolve(t *testing.T, src string) []*schema.Module {
	t.Helper()
	mods, err := parser.Parse([]byte(src), nil)
	testutil.NoError(t, err, "parse")
	resolved, err := resolver.ResolveAll(mods, nil)
	testutil.NoError(t, err, "resolve")
	return resolved
}

func lowerSource(t *testing.T, src string, mode naming.Mode) *native.Model {
	t.Helper()
	mods := resolve(t, src)
	model, err := Lower(mods[0], scope.New(mods...), Options{Naming: mode})
	testutil.NoError(t, err, "lower")
	return model
}

func shape[T native.Shape](t *testing.T, m *native.Model, name string) T {
	t.Helper()
	def, ok := m.Definition(name)
	testutil.True(t, ok, "definition %s", name)
	v, ok := def.Shape.(T)
	testutil.True(t, ok, "shape of %s is %T", name, def.Shape)
	return v
}

func is[T native.Type](t *testing.T, ty native.Type) T {
	t.Helper()
	v, ok := ty.(T)
	testutil.True(t, ok, "type is %T", ty)
	return v
}

func i64(v int64) *int64 { return &v }

func TestWidthSelection(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi *int64
		want   native.Width
	}{
		{"unbounded", nil, nil, native.U64},
		{"0..MAX", i64(0), nil, native.U64},
		{"0..255", i64(0), i64(255), native.U8},
		{"0..256", i64(0), i64(256), native.U16},
		{"0..65535", i64(0), i64(65535), native.U16},
		{"0..65536", i64(0), i64(65536), native.U32},
		{"0..4294967295", i64(0), i64(4294967295), native.U32},
		{"0..4294967296", i64(0), i64(4294967296), native.U64},
		{"-128..127", i64(-128), i64(127), native.I8},
		{"-129..127", i64(-129), i64(127), native.I16},
		{"-1..127", i64(-1), i64(127), native.I8},
		{"-1..128", i64(-1), i64(128), native.I16},
		{"-32768..32767", i64(-32768), i64(32767), native.I16},
		{"-32769..0", i64(-32769), i64(0), native.I32},
		{"-32768..32768", i64(-32768), i64(32768), native.I32},
		{"-2147483648..2147483647", i64(-2147483648), i64(2147483647), native.I32},
		{"-2147483649..0", i64(-2147483649), i64(0), native.I64},
		{"MIN..5", nil, i64(5), native.I64},
		{"-5..MAX", i64(-5), nil, native.I64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.Equal(t, tt.want, width(tt.lo, tt.hi), "width")
		})
	}
}

func TestIntegerBounds(t *testing.T) {
	unbounded := integer(schema.Range{})
	testutil.Equal(t, native.U64, unbounded.Width, "width")
	testutil.Nil(t, unbounded.Min, "no min")
	testutil.Nil(t, unbounded.Max, "no max")

	lo := schema.Lit[int64](0)
	open := integer(schema.Range{Min: &lo})
	testutil.Nil(t, open.Min, "0..MAX has no fixed bound")

	a, b := schema.Lit[int64](5), schema.Lit[int64](10)
	closed := integer(schema.Range{Min: &a, Max: &b, Extensible: true})
	testutil.Equal(t, native.U8, closed.Width, "width")
	testutil.Equal(t, int64(5), *closed.Min, "min")
	testutil.Equal(t, int64(10), *closed.Max, "max")
	testutil.True(t, closed.Extensible, "extensibility propagates")
}

func TestExtensionForcedOptional(t *testing.T) {
	m := lowerSource(t, `M DEFINITIONS ::= BEGIN
		Rec ::= SEQUENCE { a INTEGER, b INTEGER, ..., c INTEGER, d BOOLEAN OPTIONAL }
		END`, naming.Normalize)
	s := shape[*native.Struct](t, m, "Rec")
	testutil.Equal(t, 1, *s.ExtensionAfter, "extension after b")
	testutil.Len(t, s.Fields, 4, "fields")

	is[*native.Integer](t, s.Fields[1].Type)
	c := is[*native.Optional](t, s.Fields[2].Type)
	is[*native.Integer](t, c.Inner)
	d := is[*native.Optional](t, s.Fields[3].Type)
	is[*native.Boolean](t, d.Inner)
}

func TestHoisting(t *testing.T) {
	src := `M DEFINITIONS ::= BEGIN
		Outer ::= SEQUENCE {
			inner SEQUENCE { x INTEGER },
			items SEQUENCE OF CHOICE { a INTEGER, b BOOLEAN }
		}
		List ::= SEQUENCE OF SEQUENCE { v INTEGER }
		END`
	m := lowerSource(t, src, naming.Normalize)

	var names []string
	for _, d := range m.Definitions {
		names = append(names, d.Name)
	}
	testutil.SliceEqual(t, []string{"Outer", "OuterInner", "OuterItems", "List", "ListEntry"}, names, "definitions")

	outer := shape[*native.Struct](t, m, "Outer")
	inner := is[*native.Named](t, outer.Fields[0].Type)
	testutil.Equal(t, "OuterInner", inner.Name, "hoisted name")
	testutil.Equal(t, schema.ContextSpecific(0), inner.Tag, "field tag")

	items := is[*native.Vec](t, outer.Fields[1].Type)
	elem := is[*native.Named](t, items.Inner)
	testutil.Equal(t, "OuterItems", elem.Name, "element name")
	testutil.Equal(t, schema.ContextSpecific(0), elem.Tag, "choice tag is its lowest variant tag")
	shape[*native.DataEnum](t, m, "OuterItems")

	list := shape[*native.TupleStruct](t, m, "List")
	entry := is[*native.Named](t, is[*native.Vec](t, list.Inner).Inner)
	testutil.Equal(t, "ListEntry", entry.Name, "entry name")
	testutil.Equal(t, schema.Universal(16), entry.Tag, "sequence tag")

	again := lowerSource(t, src, naming.Normalize)
	testutil.Equal(t, m.Definitions[1].Name, again.Definitions[1].Name, "stable hoisted name")
}

func TestNestedHoistingNames(t *testing.T) {
	m := lowerSource(t, `M DEFINITIONS ::= BEGIN
		Q ::= SEQUENCE { a-b SEQUENCE { y SEQUENCE { z INTEGER } } }
		END`, naming.Normalize)

	var names []string
	for _, d := range m.Definitions {
		names = append(names, d.Name)
	}
	testutil.SliceEqual(t, []string{"Q", "QAB", "QABY"}, names, "definitions")
	q := shape[*native.Struct](t, m, "Q")
	testutil.Equal(t, "aB", q.Fields[0].Name, "field name")
	testutil.Equal(t, "QAB", is[*native.Named](t, q.Fields[0].Type).Name, "hoisted name")
}

func TestNamedReferenceTags(t *testing.T) {
	mods := resolve(t, `M1 DEFINITIONS ::= BEGIN
		IMPORTS Remote FROM M2;
		Rec ::= SEQUENCE { a [APPLICATION 1] Local, b Local, c Remote }
		Local ::= [APPLICATION 7] INTEGER
		END
		M2 DEFINITIONS ::= BEGIN
		Remote ::= [APPLICATION 3] SEQUENCE { x INTEGER }
		END`)
	m, err := Lower(mods[0], scope.New(mods...), Options{})
	testutil.NoError(t, err, "lower")

	rec := shape[*native.Struct](t, m, "Rec")
	want := []schema.Tag{schema.Application(1), schema.Application(7), schema.Application(3)}
	for i, w := range want {
		named := is[*native.Named](t, rec.Fields[i].Type)
		testutil.Equal(t, w, named.Tag, "tag of %s", rec.Fields[i].Name)
	}

	local, ok := m.Definition("Local")
	testutil.True(t, ok, "Local")
	testutil.Equal(t, schema.Application(7), *local.Tag, "outer tag kept")
}

func TestMissingTag(t *testing.T) {
	mods := resolve(t, `M DEFINITIONS ::= BEGIN
		Rec ::= SEQUENCE { a [0] INTEGER, b A }
		A ::= CHOICE { x [0] INTEGER, y B }
		B ::= CHOICE { p A, q [1] INTEGER }
		END`)
	_, err := Lower(mods[0], nil, Options{})
	e := testutil.ErrorAs[*Error](t, err, "lower error")
	testutil.Equal(t, MissingTag, e.Kind, "kind")
	testutil.Equal(t, "Rec", e.Definition, "definition")
	testutil.Equal(t, "b", e.Field, "field")
	testutil.Equal(t, "A", e.Name, "reference")
	testutil.Contains(t, e.Error(), "missing tag", "message")
}

func TestNotResolved(t *testing.T) {
	mods, err := parser.Parse([]byte(`M DEFINITIONS ::= BEGIN
		T ::= BOOLEAN
		END`), nil)
	testutil.NoError(t, err, "parse")
	_, err = Lower(mods[0], nil, Options{})
	e := testutil.ErrorAs[*Error](t, err, "lower error")
	testutil.Equal(t, NotResolved, e.Kind, "kind")
}

func TestSetOrdering(t *testing.T) {
	m := lowerSource(t, `M DEFINITIONS ::= BEGIN
		S ::= SET { b [APPLICATION 2] INTEGER, a [1] BOOLEAN, c [0] NULL }
		Bag ::= SET OF INTEGER
		Seq ::= SEQUENCE OF INTEGER
		END`, naming.Normalize)

	s := shape[*native.Struct](t, m, "S")
	testutil.SliceEqual(t, []int{0, 2, 1}, s.EncodingOrder, "canonical order")
	testutil.Equal(t, "b", s.Fields[0].Name, "declared order kept")

	bag := is[*native.Vec](t, shape[*native.TupleStruct](t, m, "Bag").Inner)
	testutil.Equal(t, native.Sort, bag.Ordering, "SET OF sorts")
	seq := is[*native.Vec](t, shape[*native.TupleStruct](t, m, "Seq").Inner)
	testutil.Equal(t, native.Keep, seq.Ordering, "SEQUENCE OF keeps order")
}

func TestEnumNumbering(t *testing.T) {
	m := lowerSource(t, `M DEFINITIONS ::= BEGIN
		E ::= ENUMERATED { a, b(0), c, ..., d, e(10), f }
		END`, naming.Verbatim)
	e := shape[*native.Enum](t, m, "E")
	want := []native.EnumVariant{
		{Name: "a", Value: 1},
		{Name: "b", Value: 0},
		{Name: "c", Value: 2},
		{Name: "d", Value: 3},
		{Name: "e", Value: 10},
		{Name: "f", Value: 11},
	}
	testutil.SliceEqual(t, want, e.Variants, "variants")
}

func TestConstantsAndNaming(t *testing.T) {
	src := `M DEFINITIONS ::= BEGIN
		level-type ::= INTEGER { low-value(1), high(9) } (0..10)
		END`

	m := lowerSource(t, src, naming.Normalize)
	level := shape[*native.TupleStruct](t, m, "LevelType")
	testutil.SliceEqual(t, []native.Constant{{Name: "LOW_VALUE", Value: 1}, {Name: "HIGH", Value: 9}}, level.Constants, "constants")
	testutil.Equal(t, native.U8, is[*native.Integer](t, level.Inner).Width, "width")

	m = lowerSource(t, src, naming.Verbatim)
	level = shape[*native.TupleStruct](t, m, "level-type")
	testutil.Equal(t, "low-value", level.Constants[0].Name, "verbatim constant")
}

func TestDefault(t *testing.T) {
	m := lowerSource(t, `M DEFINITIONS ::= BEGIN
		Rec ::= SEQUENCE { n INTEGER (0..100) DEFAULT 5 }
		END`, naming.Normalize)
	d := is[*native.Default](t, shape[*native.Struct](t, m, "Rec").Fields[0].Type)
	testutil.Equal(t, native.U8, is[*native.Integer](t, d.Inner).Width, "inner width")
	testutil.Equal(t, schema.Literal(schema.IntValue(5)), d.Value, "value")
}

func TestDeterminism(t *testing.T) {
	src := `M DEFINITIONS ::= BEGIN
		Msg ::= CHOICE {
			req SEQUENCE { id INTEGER (0..65535), body OCTET STRING (SIZE(1..64)) },
			res SET { code ENUMERATED { ok, fail }, tags SET OF UTF8String },
			...
		}
		END`
	first, err := yaml.Marshal(lowerSource(t, src, naming.Normalize))
	testutil.NoError(t, err, "marshal")
	second, err := yaml.Marshal(lowerSource(t, src, naming.Normalize))
	testutil.NoError(t, err, "marshal")
	testutil.Equal(t, string(first), string(second), "identical output")
}
