package embedded

import (
	"testing"
	"testing/fstest"
)

func resetForTest(t *testing.T) {
	t.Helper()
	prevFS, prevInit := dataFS, initialized
	t.Cleanup(func() {
		dataFS, initialized = prevFS, prevInit
	})
	dataFS, initialized = nil, false
}

// TestNotInitialized 测试未初始化时的行为
func TestNotInitialized(t *testing.T) {
	resetForTest(t)

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}
	if _, err := ReadFile("data/units.yaml"); err == nil {
		t.Error("Expected error when reading before Init()")
	}
	if Exists("data/units.yaml") {
		t.Error("Exists() should be false before Init()")
	}
}

// TestReadFile 测试读取和路径标准化
func TestReadFile(t *testing.T) {
	resetForTest(t)
	Init(fstest.MapFS{
		"data/units.yaml":          {Data: []byte("units: []")},
		"data/levels/level-1.yaml": {Data: []byte("id: \"1\"")},
		"data/levels/level-2.yaml": {Data: []byte("id: \"2\"")},
	})

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"标准路径", "data/units.yaml", "units: []", false},
		{"带 ./ 前缀", "./data/units.yaml", "units: []", false},
		{"未知前缀", "assets/units.yaml", "", true},
		{"文件不存在", "data/missing.yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if string(got) != tt.want {
				t.Errorf("ReadFile(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}

	if !Exists("data/levels/level-1.yaml") {
		t.Error("Exists(level-1) should be true")
	}

	matches, err := Glob("data/levels/*.yaml")
	if err != nil {
		t.Fatalf("Glob() error: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Glob() = %v, want 2 matches", matches)
	}
}
