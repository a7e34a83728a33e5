package main

import "testing"

func TestMainWiring(t *testing.T) {
	origSetVersion := setVersionInfo
	origExecute := executeCmd
	t.Cleanup(func() {
		setVersionInfo = origSetVersion
		executeCmd = origExecute
	})

	var gotVersion, gotCommit, gotDate string
	executed := false
	setVersionInfo = func(v, c, d string) {
		gotVersion, gotCommit, gotDate = v, c, d
	}
	executeCmd = func() {
		if gotVersion == "" {
			t.Fatal("expected version info before execute")
		}
		executed = true
	}

	main()

	if gotVersion != version || gotCommit != commit || gotDate != date {
		t.Fatalf("unexpected version info: %s %s %s", gotVersion, gotCommit, gotDate)
	}
	if !executed {
		t.Fatal("expected the root command to run")
	}
}
