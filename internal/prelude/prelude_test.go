package prelude

import (
	"strings"
	"testing"
)

func TestCoreDefinesRequiredContract(t *testing.T) {
	required := []string{
		"$f___new_list",
		"$f___list_push_raw_no_retain",
		"$f___WAC_str_retain",
		"$f___WAC_str_release",
		"$f___WAC_list_retain",
		"$f___WAC_list_release",
		"$f___WAC_id_retain",
		"$f___WAC_id_release",
		"$f___WAC_raw_id_to_i32",
		"$f___WAC_raw_id_to_f32",
		"$f___WAC_raw_id_to_bool",
		"$f___WAC_raw_id_to_str",
		"$f___WAC_raw_id_to_list",
	}
	for _, name := range required {
		if !strings.Contains(Core, name) {
			t.Errorf("Core is missing required prelude symbol %s", name)
		}
	}
}

func TestStackBytesIs16ByteAligned(t *testing.T) {
	if StackBytes%16 != 0 {
		t.Fatalf("StackBytes must be 16-byte aligned, got %d", StackBytes)
	}
}
