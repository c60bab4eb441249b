// Package prelude embeds the fixed-interface, opaque WAT runtime every
// compiled module is prepended with. The translator only ever references
// the function names this contract promises; the implementation behind
// them is free to vary; accordingly this package carries the runtime as
// plain Go string constants rather than compiling or interpreting any of
// it.
package prelude

// Core is the always-present runtime: the bump allocator, and the
// retain/release/unbox helpers every translated program calls into.
const Core = `
;; -- allocator -------------------------------------------------------
(func $f___WAC_alloc (param $size i32) (result i32)
  (local $ptr i32)
  (global.get $rt_heap_start)
  (local.set $ptr)
  (global.set $rt_heap_start
    (i32.add (local.get $ptr) (local.get $size)))
  (local.get $ptr))

(func $f___WAC_free (param $ptr i32))

;; -- string retain/release --------------------------------------------
(func $f___WAC_str_retain (param $p i32) (result i32)
  (i32.store (local.get $p)
    (i32.add (i32.load (local.get $p)) (i32.const 1)))
  (local.get $p))

(func $f___WAC_str_release (param $p i32)
  (i32.store (local.get $p)
    (i32.sub (i32.load (local.get $p)) (i32.const 1)))
  (if (i32.eqz (i32.load (local.get $p)))
    (then (call $f___WAC_free (local.get $p)))))

;; -- list retain/release ------------------------------------------------
(func $f___WAC_list_retain (param $p i32) (result i32)
  (i32.store (local.get $p)
    (i32.add (i32.load (local.get $p)) (i32.const 1)))
  (local.get $p))

(func $f___WAC_list_release (param $p i32)
  (i32.store (local.get $p)
    (i32.sub (i32.load (local.get $p)) (i32.const 1)))
  (if (i32.eqz (i32.load (local.get $p)))
    (then (call $f___WAC_free (local.get $p)))))

;; -- list construction --------------------------------------------------
(func $f___new_list (result i32)
  (call $f___WAC_alloc (i32.const 16)))

(func $f___list_push_raw_no_retain (param $list i32) (param $value i64))

;; -- boxed id retain/release ---------------------------------------------
(func $f___WAC_id_retain (param $v i64) (result i64)
  (local.get $v))

(func $f___WAC_id_release (param $v i64))

;; -- boxed id unboxing: payload only, the type tag is not checked --------
(func $f___WAC_raw_id_to_i32 (param $v i64) (result i32)
  (i32.wrap_i64 (local.get $v)))
(func $f___WAC_raw_id_to_f32 (param $v i64) (result f32)
  (f32.reinterpret_i32 (i32.wrap_i64 (local.get $v))))
(func $f___WAC_raw_id_to_bool (param $v i64) (result i32)
  (i32.wrap_i64 (local.get $v)))
(func $f___WAC_raw_id_to_str (param $v i64) (result i32)
  (i32.wrap_i64 (local.get $v)))
(func $f___WAC_raw_id_to_list (param $v i64) (result i32)
  (i32.wrap_i64 (local.get $v)))
`

// CallTracing is appended after Core only when
// translator.WithCallTracing(true) is set: the overflow trap function. The
// fixed-size call-stack region is reserved separately by the translator's
// Out; no generated call invokes the trap.
const CallTracing = `
(func $f___WAC_stack_overflow (result i32)
  (unreachable))
`

// StackBytes is the size, in bytes, of the call-trace stack region
// reserved directly after RESERVED_BYTES when call tracing is enabled.
const StackBytes = 65536
