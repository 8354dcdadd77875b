package utils

import "testing"

func TestGetAbsolutePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		baseDir  string
		expected string
	}{
		{"already absolute", "/var/lib/fwguard", "/etc/fwguard", "/var/lib/fwguard"},
		{"relative path", "snapshots", "/etc/fwguard", "/etc/fwguard/snapshots"},
		{"dot path", "./snapshots", "/etc/fwguard", "/etc/fwguard/snapshots"},
		{"parent path", "../fwguard/logs", "/etc/fwguard", "/etc/fwguard/logs"},
		{"empty path", "", "/etc/fwguard", "/etc/fwguard"},
		{"messy separators", "a//b///c", "/base//dir", "/base/dir/a/b/c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetAbsolutePath(tt.path, tt.baseDir); got != tt.expected {
				t.Errorf("GetAbsolutePath(%q, %q) = %q, want %q", tt.path, tt.baseDir, got, tt.expected)
			}
		})
	}
}
