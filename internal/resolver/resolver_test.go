package resolver

import (
	"testing"

	"github.com/golangsnmp/asnc/internal/parser"
	"github.com/golangsnmp/asnc/internal/schema"
	"github.com/golangsnmp/asnc/internal/scope"
	"github.com/golangsnmp/asnc/internal/testutil"
)

const boundsSource = `
M1 DEFINITIONS AUTOMATIC TAGS ::= BEGIN
	IMPORTS minRef, maxRef FROM M2;
	Bounded ::= INTEGER (minRef..maxRef)
END
M2 DEFINITIONS ::= BEGIN
	minRef INTEGER ::= 10
	maxRef INTEGER ::= 20
END`

func parse(t *testing.T, src string) []*schema.Module {
	t.Helper()
	mods, err := parser.Parse([]byte(src), nil)
	testutil.NoError(t, err, "parse")
	return mods
}

func resolveErr(t *testing.T, src string) *Error {
	t.Helper()
	out, err := ResolveAll(parse(t, src), nil)
	testutil.Error(t, err, "resolve")
	testutil.True(t, out == nil, "no partial result")
	return testutil.ErrorAs[*Error](t, err, "resolver error")
}

func definition(t *testing.T, mod *schema.Module, name string) schema.TypeSpec {
	t.Helper()
	def, ok := mod.Definition(name)
	testutil.True(t, ok, "definition %s", name)
	return def.Type
}

func as[T schema.TypeSpec](t *testing.T, ty schema.TypeSpec) T {
	t.Helper()
	v, ok := ty.(T)
	testutil.True(t, ok, "type is %T, got %T", *new(T), ty)
	return v
}

func TestResolveAcrossImports(t *testing.T) {
	out, err := ResolveAll(parse(t, boundsSource), nil)
	testutil.NoError(t, err, "resolve")
	testutil.Len(t, out, 2, "modules")
	testutil.Equal(t, "M1", out[0].Name, "input order kept")
	testutil.Equal(t, schema.Resolved, out[0].State, "state")

	i := as[*schema.Integer](t, definition(t, out[0], "Bounded"))
	testutil.Equal(t, int64(10), i.Range.Min.MustLiteral(), "min")
	testutil.Equal(t, int64(20), i.Range.Max.MustLiteral(), "max")
	testutil.NoError(t, out[0].CheckResolved(), "fully resolved")
}

func TestResolveMissingImportSource(t *testing.T) {
	mods := parse(t, boundsSource)
	_, err := Resolve(mods[0], scope.New(mods[0]), nil)
	e := testutil.ErrorAs[*Error](t, err, "resolver error")
	testutil.Equal(t, FailedToResolveReference, e.Kind, "kind")
	testutil.Equal(t, "minRef", e.Name, "name")
	testutil.Equal(t, "Bounded", e.Owner, "owner")
}

func TestResolveLeavesInputUntouched(t *testing.T) {
	mods := parse(t, boundsSource)
	_, err := ResolveAll(mods, nil)
	testutil.NoError(t, err, "resolve")
	testutil.Equal(t, schema.Unresolved, mods[0].State, "input state")
	i := as[*schema.Integer](t, definition(t, mods[0], "Bounded"))
	testutil.True(t, i.Range.Min.IsRef(), "input bound still a reference")
}

func TestResolveValueChain(t *testing.T) {
	out, err := ResolveAll(parse(t, `M DEFINITIONS ::= BEGIN
		Buf ::= OCTET STRING (SIZE(a))
		a INTEGER ::= b
		b INTEGER ::= 5
		END`), nil)
	testutil.NoError(t, err, "resolve")
	s := as[*schema.OctetString](t, definition(t, out[0], "Buf"))
	testutil.Equal(t, uint64(5), s.Size.Min.MustLiteral(), "size")

	v, ok := out[0].Value("a")
	testutil.True(t, ok, "value a")
	testutil.Equal(t, schema.Literal(schema.IntValue(5)), v.Value.MustLiteral(), "value followed")
}

func TestResolveNegativeSize(t *testing.T) {
	mod := &schema.Module{
		Name: "M",
		Definitions: []schema.Definition{{
			Name: "Buf",
			Type: &schema.OctetString{Size: schema.Size{Min: ptr(schema.Ref[uint64]("n"))}},
		}},
		Values: []schema.ValueReference{{
			Name:  "n",
			Type:  &schema.Integer{},
			Value: schema.Lit[schema.Literal](schema.IntValue(-1)),
		}},
	}
	_, err := Resolve(mod, nil, nil)
	e := testutil.ErrorAs[*Error](t, err, "resolver error")
	testutil.Equal(t, FailedToParseLiteral, e.Kind, "kind")
	testutil.Equal(t, "n", e.Name, "name")
}

func TestResolveCycles(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"value", `M DEFINITIONS ::= BEGIN
			a INTEGER ::= b
			b INTEGER ::= a
			END`},
		{"self value", `M DEFINITIONS ::= BEGIN
			a INTEGER ::= a
			END`},
		{"alias", `M DEFINITIONS ::= BEGIN
			A ::= B
			B ::= A
			END`},
		{"cross module value", `A DEFINITIONS ::= BEGIN
			IMPORTS y FROM B;
			x INTEGER ::= y
			END
			B DEFINITIONS ::= BEGIN
			IMPORTS x FROM A;
			y INTEGER ::= x
			END`},
		{"import loop", `A DEFINITIONS ::= BEGIN
			IMPORTS n FROM B;
			T ::= INTEGER (0..n)
			END
			B DEFINITIONS ::= BEGIN
			IMPORTS n FROM A;
			END`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := resolveErr(t, tt.src)
			testutil.Equal(t, CyclicReference, e.Kind, "kind")
			testutil.Contains(t, e.Error(), "cycl", "message")
		})
	}
}

func TestResolveRecursiveTypeIsNotCycle(t *testing.T) {
	out, err := ResolveAll(parse(t, `M DEFINITIONS ::= BEGIN
		Node ::= SEQUENCE { value INTEGER, next Node OPTIONAL }
		END`), nil)
	testutil.NoError(t, err, "resolve")
	testutil.Len(t, out, 1, "modules")
}

func TestResolveUnknownType(t *testing.T) {
	e := resolveErr(t, `M DEFINITIONS ::= BEGIN
		Rec ::= SEQUENCE { a Missing }
		END`)
	testutil.Equal(t, FailedToResolveType, e.Kind, "kind")
	testutil.Equal(t, "Missing", e.Name, "name")
	testutil.Equal(t, "Rec", e.Owner, "owner")
}

func TestResolveDefaults(t *testing.T) {
	out, err := ResolveAll(parse(t, `M DEFINITIONS ::= BEGIN
		Color ::= ENUMERATED { red, green }
		Level ::= INTEGER { low(1), high(9) }
		Rec ::= SEQUENCE {
			c Color DEFAULT green,
			l Level DEFAULT high,
			n INTEGER DEFAULT limit,
			s UTF8String DEFAULT "x"
		}
		green INTEGER ::= 7
		limit INTEGER ::= 3
		END`), nil)
	testutil.NoError(t, err, "resolve")
	seq := as[*schema.Sequence](t, definition(t, out[0], "Rec"))

	want := []schema.Literal{
		schema.EnumValue("green"),
		schema.IntValue(9),
		schema.IntValue(3),
		schema.StringValue("x"),
	}
	for i, w := range want {
		d := as[*schema.Default](t, seq.Fields[i].Type)
		testutil.Equal(t, w, d.Value.MustLiteral(), "default of %s", seq.Fields[i].Name)
	}
}

func TestResolveDefaultKindMismatch(t *testing.T) {
	tests := []struct {
		name string
		src  string
		ref  string
	}{
		{"literal", `M DEFINITIONS ::= BEGIN
			Rec ::= SEQUENCE { b BOOLEAN DEFAULT 5 }
			END`, "5"},
		{"reference", `M DEFINITIONS ::= BEGIN
			Rec ::= SEQUENCE { b BOOLEAN DEFAULT v }
			v INTEGER ::= 1
			END`, "v"},
		{"unknown enum item", `M DEFINITIONS ::= BEGIN
			Color ::= ENUMERATED { red }
			Rec ::= SEQUENCE { c Color DEFAULT v }
			v INTEGER ::= 1
			END`, "v"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := resolveErr(t, tt.src)
			testutil.Equal(t, FailedToParseLiteral, e.Kind, "kind")
			testutil.Equal(t, tt.ref, e.Name, "name")
		})
	}
}

func TestResolveAutomaticTags(t *testing.T) {
	out, err := ResolveAll(parse(t, `M DEFINITIONS ::= BEGIN
		Auto ::= SEQUENCE { a INTEGER, b BOOLEAN }
		Manual ::= CHOICE { a [5] INTEGER, b BOOLEAN }
		END`), nil)
	testutil.NoError(t, err, "resolve")

	auto := as[*schema.Sequence](t, definition(t, out[0], "Auto"))
	for i, f := range auto.Fields {
		testutil.NotNil(t, f.Tag, "tag of %s", f.Name)
		testutil.Equal(t, schema.ContextSpecific(uint64(i)), *f.Tag, "tag of %s", f.Name)
	}

	manual := as[*schema.Choice](t, definition(t, out[0], "Manual"))
	testutil.Equal(t, schema.ContextSpecific(5), *manual.Variants[0].Tag, "explicit tag kept")
	testutil.Nil(t, manual.Variants[1].Tag, "untagged stays untagged")
}

func TestImportOrder(t *testing.T) {
	mods := parse(t, `App DEFINITIONS ::= BEGIN
		IMPORTS C FROM Common;
		END
		Common DEFINITIONS ::= BEGIN
		IMPORTS B FROM Base;
		C ::= B
		END
		Base DEFINITIONS ::= BEGIN
		B ::= INTEGER
		END`)
	order := importOrder(scope.New(mods...))
	var names []string
	for _, m := range order {
		names = append(names, m.Name)
	}
	testutil.SliceEqual(t, []string{"Base", "Common", "App"}, names, "order")
}

func ptr[T any](v T) *T { return &v }
