package db

import (
	"testing"
	"testing/fstest"
)

func TestUpMigrations(t *testing.T) {
	fsys := fstest.MapFS{
		"0002_auth.up.sql":   {Data: []byte("SELECT 1")},
		"0001_init.up.sql":   {Data: []byte("SELECT 1")},
		"0001_init.down.sql": {Data: []byte("SELECT 1")},
		"README.md":          {Data: []byte("docs")},
	}

	files, err := UpMigrations(fsys)
	if err != nil {
		t.Fatalf("UpMigrations: %v", err)
	}
	if len(files) != 2 || files[0] != "0001_init.up.sql" || files[1] != "0002_auth.up.sql" {
		t.Errorf("UpMigrations = %v", files)
	}
}
