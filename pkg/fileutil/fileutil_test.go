package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindFileCaseInsensitive(t *testing.T) {
	// Create a temporary directory for testing
	tmpDir := t.TempDir()

	// Create test files with various cases
	testFiles := []string{
		"Gradient.bmp",
		"UPPERCASE.BMP",
		"lowercase.yml",
		"MixedCase.Bmp.Zst",
	}

	for _, filename := range testFiles {
		path := filepath.Join(tmpDir, filename)
		if err := os.WriteFile(path, []byte("test"), 0644); err != nil {
			t.Fatalf("Failed to create test file: %v", err)
		}
	}

	tests := []struct {
		name          string
		searchName    string
		shouldFind    bool
		expectedMatch string
	}{
		{
			name:          "exact match",
			searchName:    "Gradient.bmp",
			shouldFind:    true,
			expectedMatch: "Gradient.bmp",
		},
		{
			name:          "lowercase search for mixed case file",
			searchName:    "gradient.bmp",
			shouldFind:    true,
			expectedMatch: "Gradient.bmp",
		},
		{
			name:          "uppercase search for mixed case file",
			searchName:    "GRADIENT.BMP",
			shouldFind:    true,
			expectedMatch: "Gradient.bmp",
		},
		{
			name:          "mixed case search for uppercase file",
			searchName:    "Uppercase.bmp",
			shouldFind:    true,
			expectedMatch: "UPPERCASE.BMP",
		},
		{
			name:          "uppercase search for lowercase file",
			searchName:    "LOWERCASE.YML",
			shouldFind:    true,
			expectedMatch: "lowercase.yml",
		},
		{
			name:          "compressed file with mixed case",
			searchName:    "mixedcase.bmp.zst",
			shouldFind:    true,
			expectedMatch: "MixedCase.Bmp.Zst",
		},
		{
			name:       "file not found",
			searchName: "nonexistent.bmp",
			shouldFind: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := FindFileCaseInsensitive(tmpDir, tt.searchName)

			if tt.shouldFind {
				if err != nil {
					t.Errorf("Expected to find file, but got error: %v", err)
					return
				}

				actualFilename := filepath.Base(path)
				if actualFilename != tt.expectedMatch {
					t.Errorf("Expected filename %s, got %s", tt.expectedMatch, actualFilename)
				}

				// Verify the file actually exists
				if _, err := os.Stat(path); err != nil {
					t.Errorf("Returned path does not exist: %s", path)
				}
			} else {
				if err == nil {
					t.Errorf("Expected error for non-existent file, but got path: %s", path)
				}
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tmpDir := t.TempDir()
	actual := filepath.Join(tmpDir, "Photo.BMP")
	if err := os.WriteFile(actual, []byte("test"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"existing path is returned as is", actual, actual, false},
		{"case-insensitive fallback", filepath.Join(tmpDir, "photo.bmp"), actual, false},
		{"missing file", filepath.Join(tmpDir, "other.bmp"), "", true},
		{"missing directory", filepath.Join(tmpDir, "nodir", "photo.bmp"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error, got path %s", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}
