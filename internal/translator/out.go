// Package translator turns a parsed Program into WAT text: it resolves
// names across a two-pass global scope, infers types where the grammar
// leaves them implicit, and inserts retain/release around every
// heap-typed value it pushes onto the operand stack.
package translator

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-wac/internal/prelude"
	"github.com/cwbudde/go-wac/internal/sink"
	"github.com/cwbudde/go-wac/internal/types"
)

// PageSize is the WebAssembly linear memory page size.
const PageSize = 65536

// ReservedBytes is the amount of memory, from offset 0, the data segment
// cursor starts past.
const ReservedBytes = 2048

// Out is the sink tree the translator writes into, plus the bookkeeping
// it carries (data cursor, intern tables). The final assembled text is
// `prelude :: imports :: memory :: data :: gvars :: funcs ::
// $__rt_start{start} :: (start ...) :: exports`.
type Out struct {
	main *sink.Sink

	Imports *sink.Sink
	Memory  *sink.Sink
	Data    *sink.Sink
	GVars   *sink.Sink
	Funcs   *sink.Sink
	Start   *sink.Sink
	Exports *sink.Sink

	dataLen int

	cstrInterns map[string]int32
	strInterns  map[string]int32

	callTracing bool
}

// NewOut builds an Out with the prelude contract embedded and every named
// sink spawned in assembly order. callTracing additionally reserves the
// call-trace stack region and appends prelude.CallTracing.
func NewOut(callTracing bool) *Out {
	main := sink.New()
	main.Write(prelude.Core)
	if callTracing {
		main.Write(prelude.CallTracing)
	}

	o := &Out{
		main:        main,
		dataLen:     ReservedBytes,
		cstrInterns: make(map[string]int32),
		strInterns:  make(map[string]int32),
		callTracing: callTracing,
	}
	if callTracing {
		o.dataLen += prelude.StackBytes
	}

	o.Imports = main.Spawn()
	o.Memory = main.Spawn()
	o.Data = main.Spawn()
	o.GVars = main.Spawn()

	for _, tag := range []struct {
		name string
		val  int32
	}{
		{"i32", types.TagI32}, {"i64", types.TagI64}, {"f32", types.TagF32},
		{"f64", types.TagF64}, {"bool", types.TagBool}, {"type", types.TagType},
		{"str", types.TagString}, {"list", types.TagList}, {"id", types.TagId},
	} {
		o.GVars.Writeln(fmt.Sprintf("(global $rt_tag_%s i32 (i32.const %d))", tag.name, tag.val))
	}

	o.Funcs = main.Spawn()

	main.Writeln("(func $__rt_start")
	o.Start = main.Spawn()
	main.Writeln(")")
	main.Writeln("(start $__rt_start)")

	o.Exports = main.Spawn()

	return o
}

func align16(n int) int { return (n + 15) &^ 15 }

// reserve bumps the data cursor by size, rounding the allocation itself up
// to 16 bytes, and returns the pointer the caller should use.
func (o *Out) reserve(size int) int32 {
	ptr := o.dataLen
	o.dataLen = align16(o.dataLen + size)
	return int32(ptr)
}

// InternCStr interns s plus a NUL terminator, sharing one data-segment
// entry across repeated uses of the same literal.
func (o *Out) InternCStr(s string) int32 {
	if ptr, ok := o.cstrInterns[s]; ok {
		return ptr
	}
	buf := append([]byte(s), 0)
	ptr := o.reserve(len(buf))
	o.writeData(ptr, buf)
	o.cstrInterns[s] = ptr
	return ptr
}

// InternStr interns a source-language string literal with the
// `[refcnt:i32][len:i32][utf8...]` layout, refcnt initialized to 1.
func (o *Out) InternStr(s string) int32 {
	if ptr, ok := o.strInterns[s]; ok {
		return ptr
	}
	data := []byte(s)
	buf := make([]byte, 8+len(data))
	putU32LE(buf[0:4], 1)
	putU32LE(buf[4:8], uint32(len(data)))
	copy(buf[8:], data)
	ptr := o.reserve(len(buf))
	o.writeData(ptr, buf)
	o.strInterns[s] = ptr
	return ptr
}

func putU32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func (o *Out) writeData(ptr int32, b []byte) {
	o.Data.Writeln(fmt.Sprintf("(data (i32.const %d) %s)", ptr, watBytes(b)))
}

// watBytes renders b as a WAT string literal, escaping every byte outside
// printable ASCII as `\xx`.
func watBytes(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range b {
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		default:
			if c >= 0x20 && c < 0x7f {
				sb.WriteByte(c)
			} else {
				fmt.Fprintf(&sb, "\\%02x", c)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// Finish closes out the deferred memory/heap-start slots now that every
// allocation has happened, then renders the whole sink tree.
func (o *Out) Finish() string {
	pages := (o.dataLen + PageSize - 1) / PageSize
	if pages == 0 {
		pages = 1
	}
	o.Memory.Writeln(fmt.Sprintf("(memory $rt_mem %d)", pages))
	// rt_heap_start must be mutable: the prelude's bump allocator advances
	// it on every allocation via global.set from inside $f___WAC_alloc.
	o.GVars.Writeln(fmt.Sprintf("(global $rt_heap_start (mut i32) (i32.const %d))", o.dataLen))
	return "(module\n" + o.main.Get() + "\n)\n"
}
