package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeUnit(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const libUnit = `
namespace: app.lib
body:
  - fun: sweep
    params: [{xs: {List: [Int, 8]}}]
    body:
      - for: x
        in: xs
        do: [{call: tick}]
`

const mainUnit = `
namespace: app
body:
  - call: app.lib.sweep
    args:
      - list: [1, 2, 3]
`

func run(args ...string) (code int, stdout, stderr string) {
	var out, errOut bytes.Buffer
	code = Main(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestCheckDirectory(t *testing.T) {
	dir := t.TempDir()
	writeUnit(t, dir, "a_lib.yaml", libUnit)
	writeUnit(t, dir, "b_main.yml", mainUnit)
	writeUnit(t, dir, "notes.txt", "not a unit")

	code, stdout, stderr := run("check", dir)
	if code != 0 {
		t.Fatalf("exit %d\n%s", code, stderr)
	}
	if !strings.Contains(stdout, "app.lib cost 0") || !strings.Contains(stdout, "app cost 8") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
	if !strings.Contains(stdout, "total cost 8") {
		t.Errorf("missing total:\n%s", stdout)
	}
}

func TestCheckReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	arch := writeUnit(t, dir, "arch.yaml", "name: tiny\ncost_ceiling: 4\n")
	lib := writeUnit(t, dir, "lib.yaml", libUnit)
	app := writeUnit(t, dir, "main.yaml", mainUnit)

	code, _, stderr := run("check", "-arch", arch, lib, app)
	if code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.Contains(stderr, "FAIL "+app) || !strings.Contains(stderr, "[R001]") {
		t.Errorf("unexpected diagnostics:\n%s", stderr)
	}
	if strings.Contains(stderr, "\x1b[") {
		t.Errorf("diagnostics to a buffer must not be coloured:\n%s", stderr)
	}
}

func TestCheckStoresAndSignatureReads(t *testing.T) {
	dir := t.TempDir()
	lib := writeUnit(t, dir, "lib.yaml", libUnit)
	db := filepath.Join(dir, "sig.db")

	if code, _, stderr := run("check", "-db", db, lib); code != 0 {
		t.Fatalf("check exit %d\n%s", code, stderr)
	}
	code, stdout, stderr := run("signature", "-db", db, "app.lib.sweep")
	if code != 0 {
		t.Fatalf("signature exit %d\n%s", code, stderr)
	}
	if !strings.Contains(stdout, `"app.lib.sweep"`) || !strings.Contains(stdout, `"xs"`) {
		t.Errorf("unexpected signature:\n%s", stdout)
	}

	if code, _, stderr := run("signature", "-db", db, "app.lib.other"); code != 1 || !strings.Contains(stderr, "no function") {
		t.Errorf("missing function: exit %d\n%s", code, stderr)
	}
}

func TestPrint(t *testing.T) {
	dir := t.TempDir()
	lib := writeUnit(t, dir, "lib.yaml", libUnit)

	code, stdout, stderr := run("print", lib)
	if code != 0 {
		t.Fatalf("exit %d\n%s", code, stderr)
	}
	want := "// " + lib + "\nnamespace app.lib\n\nfun sweep(xs: List<Int, 8>) {\n    for x in xs {\n        tick()\n    }\n}\n"
	if stdout != want {
		t.Errorf("unexpected output:\n%s", stdout)
	}
}

func TestUsage(t *testing.T) {
	if code, _, _ := run(); code != 2 {
		t.Errorf("no arguments: exit %d", code)
	}
	if code, _, _ := run("frobnicate"); code != 2 {
		t.Errorf("unknown command: exit %d", code)
	}
	if code, stdout, _ := run("-version"); code != 0 || !strings.HasPrefix(stdout, "finc ") {
		t.Errorf("version: exit %d %q", code, stdout)
	}
	if code, _, _ := run("signature", "name"); code != 2 {
		t.Errorf("signature needs a source: exit %d", code)
	}
}
