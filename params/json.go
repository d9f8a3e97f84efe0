package params

import (
	"reflect"
	"unsafe"

	jsoniter "github.com/json-iterator/go"

	"mapgen/vector"
)

// JSON is a jsoniter codec configured the way the teacher's server package
// configures its own: a process-wide frozen API with a custom encoder/
// decoder registered for the compact wire representation of domain value
// types (here, vector.Vector as {"x":.., "y":..} instead of jsoniter's
// default {"X":.., "Y":..}). Exported so cmd/ entrypoints can serialize
// pipeline output with the same vector wire format used for Params.
var JSON = func() jsoniter.API {
	jsoniter.RegisterTypeEncoderFunc(reflect.TypeOf(vector.Vector{}).String(), encodeVector, neverEmptyVector)
	jsoniter.RegisterTypeDecoderFunc(reflect.TypeOf(vector.Vector{}).String(), decodeVector)

	return jsoniter.Config{
		IndentionStep:           2,
		MarshalFloatWith6Digits: true,
		EscapeHTML:              false,
		SortMapKeys:             true,
		TagKey:                  "json",
		CaseSensitive:           false,
	}.Froze()
}()

func neverEmptyVector(unsafe.Pointer) bool { return false }

func encodeVector(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	v := (*vector.Vector)(ptr)
	stream.WriteObjectStart()
	stream.WriteObjectField("x")
	stream.WriteFloat64(v.X)
	stream.WriteMore()
	stream.WriteObjectField("y")
	stream.WriteFloat64(v.Y)
	stream.WriteObjectEnd()
}

func decodeVector(ptr unsafe.Pointer, iter *jsoniter.Iterator) {
	v := (*vector.Vector)(ptr)
	iter.ReadObjectCB(func(iter *jsoniter.Iterator, field string) bool {
		switch field {
		case "x", "X":
			v.X = iter.ReadFloat64()
		case "y", "Y":
			v.Y = iter.ReadFloat64()
		default:
			iter.Skip()
		}
		return true
	})
}
