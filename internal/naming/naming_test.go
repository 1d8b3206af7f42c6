package naming

import (
	"testing"

	"github.com/golangsnmp/asnc/internal/testutil"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		fn   func(Mode, string) string
		in   string
		want string
	}{
		{"type from hyphens", Mode.Type, "my-type", "MyType"},
		{"type unchanged", Mode.Type, "MyType", "MyType"},
		{"variant from lower", Mode.Variant, "green-light", "GreenLight"},
		{"field from hyphens", Mode.Field, "some-field", "someField"},
		{"field from upper camel", Mode.Field, "SomeField", "someField"},
		{"field unchanged", Mode.Field, "someField", "someField"},
		{"constant from hyphens", Mode.Constant, "high-value", "HIGH_VALUE"},
		{"constant unchanged", Mode.Constant, "HIGH_VALUE", "HIGH_VALUE"},
		{"single letter words", Mode.Type, "a-b", "AB"},
		{"digit stays with word", Mode.Type, "v2-x", "V2X"},
		{"acronym type unchanged", Mode.Type, "HTTPServer", "HTTPServer"},
		{"acronym field", Mode.Field, "HTTPServer", "httpServer"},
		{"short acronym field", Mode.Field, "IPAddress", "ipAddress"},
		{"acronym constant", Mode.Constant, "HTTPServer", "HTTP_SERVER"},
		{"constant from camel", Mode.Constant, "someField", "SOME_FIELD"},
		{"type from underscores", Mode.Type, "my_type", "MyType"},
		{"leading digit", Mode.Field, "2nd-try", "2ndTry"},
		{"no words", Mode.Type, "-", "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.fn(Normalize, tt.in)
			testutil.Equal(t, tt.want, got, "normalized")
			testutil.Equal(t, got, tt.fn(Normalize, got), "idempotent")
		})
	}
}

func TestVerbatim(t *testing.T) {
	for _, in := range []string{"my-type", "some_field", "X"} {
		testutil.Equal(t, in, Verbatim.Type(in), "type")
		testutil.Equal(t, in, Verbatim.Field(in), "field")
		testutil.Equal(t, in, Verbatim.Constant(in), "constant")
	}
}

func TestJoin(t *testing.T) {
	testutil.Equal(t, "OuterInner", Normalize.Join("Outer", "inner"), "normalize")
	testutil.Equal(t, "OuterInner", Normalize.Join("Outer", "Inner"), "already normalized")
	testutil.Equal(t, "QAB", Normalize.Join("Q", "a-b"), "hoisted once")
	testutil.Equal(t, "QABY", Normalize.Join("QAB", "y"), "enclosing kept as-is")
	testutil.Equal(t, "OuterInner-x", Verbatim.Join("Outer", "inner-x"), "verbatim raises first letter")
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("verbatim")
	testutil.NoError(t, err, "verbatim")
	testutil.Equal(t, Verbatim, m, "mode")

	m, err = ParseMode("")
	testutil.NoError(t, err, "default")
	testutil.Equal(t, Normalize, m, "mode")

	_, err = ParseMode("shout")
	testutil.Error(t, err, "unknown")
}
