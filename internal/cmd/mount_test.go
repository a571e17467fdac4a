package cmd

import (
	"testing"
)

func TestPathsOverlap(t *testing.T) {
	tests := []struct {
		name     string
		path1    string
		path2    string
		expected bool
	}{
		{
			name:     "identical paths",
			path1:    "/srv/progstore",
			path2:    "/srv/progstore",
			expected: true,
		},
		{
			name:     "path1 contains path2",
			path1:    "/srv/progstore/data",
			path2:    "/srv/progstore",
			expected: true,
		},
		{
			name:     "path2 contains path1",
			path1:    "/srv/progstore",
			path2:    "/srv/progstore/mount",
			expected: true,
		},
		{
			name:     "completely separate paths",
			path1:    "/srv/progstore",
			path2:    "/mnt/progstore",
			expected: false,
		},
		{
			name:     "sibling directories",
			path1:    "/srv/progstore",
			path2:    "/srv/mnt",
			expected: false,
		},
		{
			name:     "shared name prefix",
			path1:    "/srv/progstore",
			path2:    "/srv/progstore-mnt",
			expected: false,
		},
		{
			name:     "unclean path into root",
			path1:    "/srv/progstore",
			path2:    "/srv/mnt/../progstore/codeworld",
			expected: true,
		},
		{
			name:     "relative paths - overlapping",
			path1:    "data",
			path2:    "data/mnt",
			expected: true,
		},
		{
			name:     "relative paths - separate",
			path1:    "data",
			path2:    "mnt",
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pathsOverlap(tt.path1, tt.path2)
			if result != tt.expected {
				t.Errorf("pathsOverlap(%q, %q) = %v, expected %v", tt.path1, tt.path2, result, tt.expected)
			}
		})
	}
}
