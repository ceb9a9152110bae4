package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testCatalog = `raw_materials:
  - {name: flour, calories: 364, proteins: 10, carbs: 76, fat: 1}
products:
  - {name: cola can, calories: 139, carbs: 35}
recipes:
  - name: dough
    ingredients:
      - {material: flour, grams: 200}
menus:
  - name: lunch
    recipes:
      - {recipe: dough, grams: 150}
    products:
      - {product: cola can}
`

func execCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(testCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NUTRICALC_CATALOG", "")
	t.Setenv("DATABASE_URL", "")

	root, a := newRoot()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--catalog", path, "--quiet", "--no-color", "--log-file", "stderr"))
	err := run(root, a)
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := execCLI(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"flour", "cola can", "dough", "lunch"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}
}

func TestShowCommand(t *testing.T) {
	out, err := execCLI(t, "show", "lunch")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	// 150 g of dough at 364 kcal/100 g plus one can at 139/100.
	if !strings.Contains(out, "547.4") {
		t.Errorf("expected menu calories in report:\n%s", out)
	}
}

func TestShowUnknown(t *testing.T) {
	if _, err := execCLI(t, "show", "soup"); err == nil {
		t.Fatal("expected error for unknown element")
	}
}

func TestExportCommand(t *testing.T) {
	out, err := execCLI(t, "export")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "raw_materials:") || !strings.Contains(out, "name: dough") {
		t.Errorf("unexpected export:\n%s", out)
	}
}

func TestInitDBWithoutDSN(t *testing.T) {
	if _, err := execCLI(t, "init-db"); err == nil {
		t.Fatal("expected error without a database url")
	}
}

func TestLogFileClosedOnFailure(t *testing.T) {
	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "catalog.yaml")
	if err := os.WriteFile(catalogPath, []byte(testCatalog), 0o644); err != nil {
		t.Fatal(err)
	}
	logPath := filepath.Join(dir, "logs", "nutricalc.log")
	t.Setenv("NUTRICALC_CATALOG", "")
	t.Setenv("DATABASE_URL", "")

	root, a := newRoot()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"show", "soup", "--catalog", catalogPath, "--verbose", "--no-color", "--log-file", logPath})

	if err := run(root, a); err == nil {
		t.Fatal("expected error for unknown element")
	}
	if len(a.close) != 0 {
		t.Fatalf("expected log file released after a failing command, %d closers left", len(a.close))
	}
	b, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "config:") {
		t.Fatalf("expected debug output in log file, got %q", b)
	}
}
