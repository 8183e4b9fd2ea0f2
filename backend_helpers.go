package tilegl

import (
	"reflect"
	"strconv"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

func parseVertexFormat(name string) (wgpu.VertexFormat, uint64) {
	switch name {
	case "short2":
		return wgpu.VertexFormatSint16x2, 4
	case "float2":
		return wgpu.VertexFormatFloat32x2, 8
	case "float3":
		return wgpu.VertexFormatFloat32x3, 12
	case "float4":
		return wgpu.VertexFormatFloat32x4, 16
	default:
		panic("unsupported vertex layout format: " + name)
	}
}

// createVertexBufferLayout derives a wgpu vertex layout from struct
// tags, e.g. `tilegl:"layout" format:"float2" location:"0"`.
func createVertexBufferLayout(vertexType any) wgpu.VertexBufferLayout {
	t := reflect.TypeOf(vertexType)
	if t.Kind() != reflect.Struct {
		panic("vertex must be a struct")
	}

	var attributes []wgpu.VertexAttribute
	var offset uint64 = 0

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if "layout" != field.Tag.Get("tilegl") {
			continue
		}
		format, size := parseVertexFormat(field.Tag.Get("format"))
		location, err := strconv.Atoi(field.Tag.Get("location"))
		if nil != err {
			panic(err)
		}
		attributes = append(attributes, wgpu.VertexAttribute{
			ShaderLocation: uint32(location),
			Offset:         offset,
			Format:         format,
		})
		offset += size
	}

	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(t.Size()),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  attributes,
	}
}

func structBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(unsafe.Sizeof(*v)))
}

func sliceBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(s[0])))
}

// alignUp rounds n up to the next multiple of align (a power of two).
func alignUp(n, align uint64) uint64 {
	return (n + align - 1) &^ (align - 1)
}
