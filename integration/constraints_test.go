package integration

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/golangsnmp/asnc/internal/native"
	"github.com/golangsnmp/asnc/internal/schema"
)

func u64(v uint64) *uint64 { return &v }
func i64(v int64) *int64   { return &v }

func TestSizeConstraints(t *testing.T) {
	res := loadCorpus(t)

	name := asType[*native.String](t, getShape[*native.TupleStruct](t, res, "Base", "Name").Inner)
	require.Equal(t, native.Size{Min: u64(1), Max: u64(64)}, name.Size)

	digest := asType[*native.ByteArray](t, getShape[*native.TupleStruct](t, res, "Base", "Digest").Inner)
	require.Equal(t, native.Size{Min: u64(32), Max: u64(32)}, digest.Size)

	label := asType[*native.String](t, getShape[*native.TupleStruct](t, res, "Base", "Label").Inner)
	require.Equal(t, native.Size{}, label.Size)
}

func TestSizeFromImportedValueChain(t *testing.T) {
	res := loadCorpus(t)

	request := getShape[*native.Struct](t, res, "Messages", "Request")
	items := asType[*native.Vec](t, fieldType(t, request, "items"))
	require.Equal(t, native.Size{Min: u64(1), Max: u64(16)}, items.Size)
}

func TestIntegerRanges(t *testing.T) {
	res := loadCorpus(t)

	delta := asType[*native.Integer](t, getShape[*native.TupleStruct](t, res, "Base", "Delta").Inner)
	require.Equal(t, i64(-128), delta.Min)
	require.Equal(t, i64(127), delta.Max)

	level := asType[*native.Integer](t, getShape[*native.TupleStruct](t, res, "Base", "Level").Inner)
	require.True(t, level.Extensible)
	require.Equal(t, native.U8, level.Width, "extensibility does not widen")

	unbounded := asType[*native.Integer](t, getShape[*native.TupleStruct](t, res, "Base", "Unbounded").Inner)
	require.Nil(t, unbounded.Min)
	require.Nil(t, unbounded.Max)
}

func TestDefaultFromImportedValue(t *testing.T) {
	res := loadCorpus(t)

	header := getShape[*native.Struct](t, res, "Messages", "Header")
	priority := asType[*native.Default](t, fieldType(t, header, "priority"))
	require.Equal(t, schema.Literal(schema.IntValue(5)), priority.Value, "named number through a value assignment")
	require.Equal(t, "Priority", asType[*native.Named](t, priority.Inner).Name)
}

func TestExtensionAdditionsOptional(t *testing.T) {
	res := loadCorpus(t)

	header := getShape[*native.Struct](t, res, "Messages", "Header")
	require.NotNil(t, header.ExtensionAfter)
	require.Equal(t, 2, *header.ExtensionAfter)

	trace := asType[*native.Optional](t, fieldType(t, header, "trace"))
	asType[*native.ByteArray](t, trace.Inner)

	flags := asType[*native.Optional](t, fieldType(t, header, "flags"))
	asType[*native.Named](t, flags.Inner)
}

func TestResolvedValues(t *testing.T) {
	res := loadCorpus(t)

	base, ok := res.Module("Base")
	require.True(t, ok)
	for name, want := range map[string]int64{"maxItems": 16, "itemLimit": 16, "defaultPriority": 5} {
		v, ok := base.Value(name)
		require.True(t, ok, name)
		require.Equal(t, schema.Literal(schema.IntValue(want)), v.Value.MustLiteral(), name)
	}
}
