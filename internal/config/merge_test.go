package config

import (
	"reflect"
	"testing"
)

func TestDeepMerge(t *testing.T) {
	tests := []struct {
		name string
		dst  map[string]any
		src  map[string]any
		want map[string]any
	}{
		{
			name: "nil dst",
			dst:  nil,
			src:  map[string]any{"a": 1},
			want: map[string]any{"a": 1},
		},
		{
			name: "nil src",
			dst:  map[string]any{"a": 1},
			src:  nil,
			want: map[string]any{"a": 1},
		},
		{
			name: "disjoint keys",
			dst:  map[string]any{"a": 1},
			src:  map[string]any{"b": 2},
			want: map[string]any{"a": 1, "b": 2},
		},
		{
			name: "scalar replaced",
			dst:  map[string]any{"a": 1},
			src:  map[string]any{"a": 2},
			want: map[string]any{"a": 2},
		},
		{
			name: "nested maps merge",
			dst: map[string]any{
				"editor": map[string]any{"border": "rounded", "classes": []any{"code"}},
			},
			src: map[string]any{
				"editor": map[string]any{"border": "double"},
			},
			want: map[string]any{
				"editor": map[string]any{"border": "double", "classes": []any{"code"}},
			},
		},
		{
			name: "map replaces scalar",
			dst:  map[string]any{"a": 1},
			src:  map[string]any{"a": map[string]any{"b": 2}},
			want: map[string]any{"a": map[string]any{"b": 2}},
		},
		{
			name: "scalar replaces map",
			dst:  map[string]any{"a": map[string]any{"b": 2}},
			src:  map[string]any{"a": 1},
			want: map[string]any{"a": 1},
		},
		{
			name: "slices replaced not appended",
			dst:  map[string]any{"a": []any{"x", "y"}},
			src:  map[string]any{"a": []any{"z"}},
			want: map[string]any{"a": []any{"z"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeepMerge(tt.dst, tt.src)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DeepMerge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeepMerge_ThreeLayers(t *testing.T) {
	merged := map[string]any{}
	layers := []map[string]any{
		{"keymap": map[string]any{"exit": "Shift-Enter"}},
		{"keymap": map[string]any{"run": "Mod-Enter"}},
		{"keymap": map[string]any{"exit": "Ctrl-d"}},
	}
	for _, layer := range layers {
		merged = DeepMerge(merged, layer)
	}

	keymap, ok := merged["keymap"].(map[string]any)
	if !ok {
		t.Fatalf("keymap = %T, want map", merged["keymap"])
	}
	if got := keymap["exit"]; got != "Ctrl-d" {
		t.Errorf("exit = %v, want Ctrl-d", got)
	}
	if got := keymap["run"]; got != "Mod-Enter" {
		t.Errorf("run = %v, want Mod-Enter", got)
	}
}
