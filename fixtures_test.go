package easybite

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

// Scenario fixtures: each YAML file under testdata/scripts holds a list of
// small programs with their expected stdout (or an expected error fragment).
// They exercise whole-program behavior end to end, complementing the
// unit tests in the area files.

type scriptCase struct {
	Name   string `yaml:"name"`
	Source string `yaml:"source"`
	Output string `yaml:"output,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

type scriptFile struct {
	Cases []scriptCase `yaml:"cases"`
}

func loadScriptFile(t *testing.T, path string) scriptFile {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var sf scriptFile
	if err := dec.Decode(&sf); err != nil {
		t.Fatalf("parse %s: %v", path, err)
	}
	if len(sf.Cases) == 0 {
		t.Fatalf("%s declares no cases", path)
	}
	return sf
}

func Test_Fixture_Scripts(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scripts", "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Fatal("no fixture files under testdata/scripts")
	}

	for _, path := range paths {
		path := path
		t.Run(strings.TrimSuffix(filepath.Base(path), ".yaml"), func(t *testing.T) {
			for _, tc := range loadScriptFile(t, path).Cases {
				tc := tc
				t.Run(tc.Name, func(t *testing.T) {
					if tc.Output != "" && tc.Error != "" {
						t.Fatalf("case %q sets both output and error", tc.Name)
					}

					ip := NewRuntime()
					var out bytes.Buffer
					ip.Out = &out
					_, err := ip.EvalSource(tc.Source)

					if tc.Error != "" {
						if err == nil {
							t.Fatalf("no error; want one containing %q\nstdout:\n%s", tc.Error, out.String())
						}
						if !strings.Contains(err.Error(), tc.Error) {
							t.Fatalf("error %q does not contain %q", err.Error(), tc.Error)
						}
						return
					}

					if err != nil {
						t.Fatalf("eval: %v\nstdout so far:\n%s", err, out.String())
					}
					if diff := cmp.Diff(tc.Output, out.String()); diff != "" {
						t.Errorf("stdout mismatch (-want +got):\n%s", diff)
					}
				})
			}
		})
	}
}
