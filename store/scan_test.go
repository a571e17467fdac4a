package store

import (
	"os"
	"testing"
)

func TestFanoutOf(t *testing.T) {
	s := New(t.TempDir())
	const mode = BuildMode("codeworld")

	empty, err := s.FanoutOf(FamilySource, mode)
	if err != nil || empty.Shards != 0 {
		t.Fatalf("FanoutOf(empty) = %+v, %v", empty, err)
	}

	for _, src := range []string{"a", "b", "c", "d"} {
		if _, err := s.SaveSource(mode, []byte(src)); err != nil {
			t.Fatalf("SaveSource() error = %v", err)
		}
	}
	f, err := s.FanoutOf(FamilySource, mode)
	if err != nil {
		t.Fatalf("FanoutOf() error = %v", err)
	}
	if f.Entries != 4 {
		t.Errorf("Entries = %d, want 4", f.Entries)
	}
	if f.Shards < 1 || f.Shards > 4 || f.MaxEntries < 1 {
		t.Errorf("unexpected fanout %+v", f)
	}
}

func TestValidateDeployLinks(t *testing.T) {
	s := New(t.TempDir())
	const mode = BuildMode("codeworld")

	checked, problems, err := s.ValidateDeployLinks(mode)
	if err != nil || checked != 0 || len(problems) != 0 {
		t.Fatalf("ValidateDeployLinks(empty) = %d, %v, %v", checked, problems, err)
	}

	if _, _, err := s.Deploy(mode, []byte("good")); err != nil {
		t.Fatalf("Deploy() error = %v", err)
	}
	dangling := s.DeployID("n", []byte("gone"))
	s.WriteDeployLink(mode, dangling, s.ProgramID([]byte("gone")))

	checked, problems, err = s.ValidateDeployLinks(mode)
	if err != nil {
		t.Fatalf("ValidateDeployLinks() error = %v", err)
	}
	if checked != 2 {
		t.Errorf("checked = %d, want 2", checked)
	}
	if len(problems) != 1 || problems[0].Path != s.DeployLinkPath(mode, dangling) {
		t.Errorf("problems = %+v", problems)
	}

	os.WriteFile(s.FamilyRoot(FamilyDeploy, mode)+"/Lxx-garbage", []byte("x"), 0644)
	_, problems, _ = s.ValidateDeployLinks(mode)
	if len(problems) < 2 {
		t.Errorf("garbage link not reported: %+v", problems)
	}
}
