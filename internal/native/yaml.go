package native

// Types and shapes marshal as single-key maps naming their kind, e.g.
//
//	integer: {width: u8, min: 0, max: 255}
//
// The plain aliases below drop the methods so marshaling does not recurse.

type (
	plainInteger     Integer
	plainString      String
	plainByteArray   ByteArray
	plainBitArray    BitArray
	plainVec         Vec
	plainOptional    Optional
	plainDefault     Default
	plainNamed       Named
	plainTupleStruct TupleStruct
	plainStruct      Struct
	plainEnum        Enum
	plainDataEnum    DataEnum
)

func kind(name string, body any) (any, error) {
	return map[string]any{name: body}, nil
}

func (*Boolean) MarshalYAML() (any, error)     { return kind("boolean", struct{}{}) }
func (*Null) MarshalYAML() (any, error)        { return kind("null", struct{}{}) }
func (v *Integer) MarshalYAML() (any, error)   { return kind("integer", (*plainInteger)(v)) }
func (v *String) MarshalYAML() (any, error)    { return kind("string", (*plainString)(v)) }
func (v *ByteArray) MarshalYAML() (any, error) { return kind("bytes", (*plainByteArray)(v)) }
func (v *BitArray) MarshalYAML() (any, error)  { return kind("bits", (*plainBitArray)(v)) }
func (v *Vec) MarshalYAML() (any, error)       { return kind("vec", (*plainVec)(v)) }
func (v *Optional) MarshalYAML() (any, error)  { return kind("optional", (*plainOptional)(v)) }
func (v *Default) MarshalYAML() (any, error)   { return kind("default", (*plainDefault)(v)) }
func (v *Named) MarshalYAML() (any, error)     { return kind("named", (*plainNamed)(v)) }

func (v *TupleStruct) MarshalYAML() (any, error) { return kind("tuple", (*plainTupleStruct)(v)) }
func (v *Struct) MarshalYAML() (any, error)      { return kind("struct", (*plainStruct)(v)) }
func (v *Enum) MarshalYAML() (any, error)        { return kind("enum", (*plainEnum)(v)) }
func (v *DataEnum) MarshalYAML() (any, error)    { return kind("choice", (*plainDataEnum)(v)) }
