package config

import (
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	wantLangs := []string{"r", "python", "sql"}
	if len(cfg.Languages.Executable) != len(wantLangs) {
		t.Fatalf("Executable = %v, want %v", cfg.Languages.Executable, wantLangs)
	}
	for i, lang := range wantLangs {
		if cfg.Languages.Executable[i] != lang {
			t.Errorf("Executable[%d] = %q, want %q", i, cfg.Languages.Executable[i], lang)
		}
	}
	if cfg.Editor.Border != "rounded" {
		t.Errorf("Border = %q, want %q", cfg.Editor.Border, "rounded")
	}
	if cfg.Languages.Classifier != "" {
		t.Errorf("Classifier = %q, want empty", cfg.Languages.Classifier)
	}
	if cfg.Keymap == nil {
		t.Error("Keymap is nil, want empty map")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		keymap  map[string]string
		wantErr bool
	}{
		{"empty keymap", nil, false},
		{"valid chord", map[string]string{"exit": "Shift-Enter"}, false},
		{"valid mod chord", map[string]string{"run": "Mod-Enter"}, false},
		{"valid rune chord", map[string]string{"attrs": "Ctrl-e"}, false},
		{"unknown key", map[string]string{"exit": "Ctrl-Bogus"}, true},
		{"missing key", map[string]string{"exit": "Ctrl-"}, true},
		{"empty chord", map[string]string{"exit": ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Keymap = tt.keymap
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_KeymapSpecs(t *testing.T) {
	cfg := Default()
	cfg.Keymap = map[string]string{
		"run":  "Mod-Enter",
		"exit": "Shift-Enter",
	}

	specs := cfg.KeymapSpecs()
	if len(specs) != 2 {
		t.Fatalf("len(specs) = %d, want 2", len(specs))
	}
	// Ordered by action name.
	if specs[0].Action != "exit" || specs[0].Chord != "Shift-Enter" {
		t.Errorf("specs[0] = %+v, want exit/Shift-Enter", specs[0])
	}
	if specs[1].Action != "run" || specs[1].Chord != "Mod-Enter" {
		t.Errorf("specs[1] = %+v, want run/Mod-Enter", specs[1])
	}
}

func TestConfig_KeymapSpecs_Empty(t *testing.T) {
	specs := Default().KeymapSpecs()
	if len(specs) != 0 {
		t.Errorf("len(specs) = %d, want 0", len(specs))
	}
}
