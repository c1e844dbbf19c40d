package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// testEnv isolates config and data for one test and returns the data dir.
func testEnv(t *testing.T) string {
	t.Helper()
	t.Setenv("FIDELITY_CONFIG_DIR", t.TempDir())
	t.Setenv("FIDELITY_DIR", "")
	t.Setenv("FIDELITY_LOG", "")
	return t.TempDir()
}

func mustData(t *testing.T, args ...string) any {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err != nil {
		t.Fatalf("fidelity %v failed: %v\nstderr:\n%s", args, err, stderr)
	}
	var env map[string]any
	if err := json.Unmarshal(stdout, &env); err != nil {
		t.Fatalf("stdout is not a JSON envelope: %v\n%s", err, stdout)
	}
	data, ok := env["data"]
	if !ok {
		t.Fatalf("envelope has no data key: %s", stdout)
	}
	return data
}

func mustObj(t *testing.T, args ...string) map[string]any {
	t.Helper()
	m, ok := mustData(t, args...).(map[string]any)
	if !ok {
		t.Fatalf("fidelity %v: data is not an object", args)
	}
	return m
}

// mustFail runs a command that should fail and returns the error code from stderr.
func mustFail(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := runCLI(t, args)
	if err == nil {
		t.Fatalf("fidelity %v should fail; stdout:\n%s", args, stdout)
	}
	line, _, _ := bytes.Cut(stderr, []byte("\n"))
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(line, &env); err != nil {
		t.Fatalf("stderr is not an error envelope: %v\n%s", err, stderr)
	}
	if env.Error.Message == "" {
		t.Fatalf("empty error message: %s", stderr)
	}
	return env.Error.Code
}

func TestCLI_CaseLifecycle(t *testing.T) {
	dir := testEnv(t)

	first := mustObj(t, "--dir", dir, "cases", "new", "--variant", "legacy", "--name", " Intake ", "--initials", "AB")
	firstID, _ := first["id"].(string)
	if firstID == "" || first["current"] != true || first["name"] != "Intake" {
		t.Fatalf("unexpected new case: %#v", first)
	}

	dup := mustObj(t, "--dir", dir, "cases", "dup", firstID)
	dupID, _ := dup["id"].(string)
	if dupID == "" || dupID == firstID || dup["current"] != true || dup["name"] != "Intake" {
		t.Fatalf("unexpected duplicate: %#v", dup)
	}

	list, ok := mustData(t, "--dir", dir, "cases", "list").([]any)
	if !ok || len(list) != 2 {
		t.Fatalf("expected 2 cases; got %#v", list)
	}
	if list[0].(map[string]any)["id"] != firstID {
		t.Fatalf("list should keep creation order: %#v", list)
	}

	used := mustObj(t, "--dir", dir, "cases", "use", firstID)
	if used["current"] != true {
		t.Fatalf("use did not select: %#v", used)
	}

	renamed := mustObj(t, "--dir", dir, "cases", "rename", firstID, "--initials", "CD")
	if renamed["name"] != "Intake" || renamed["clientInitials"] != "CD" {
		t.Fatalf("rename should only change initials: %#v", renamed)
	}

	gone := mustObj(t, "--dir", dir, "cases", "rm", "no-such-case")
	if gone["deleted"] != false || gone["currentCaseId"] != firstID {
		t.Fatalf("unknown delete should be a no-op: %#v", gone)
	}

	gone = mustObj(t, "--dir", dir, "cases", "rm", firstID)
	if gone["deleted"] != true || gone["currentCaseId"] != "" {
		t.Fatalf("deleting the current case should clear it: %#v", gone)
	}
	list = mustData(t, "--dir", dir, "cases", "list").([]any)
	if len(list) != 1 || list[0].(map[string]any)["id"] != dupID {
		t.Fatalf("expected only the duplicate left: %#v", list)
	}

	if code := mustFail(t, "--dir", dir, "progress"); code != "no_current_case" {
		t.Fatalf("code = %q", code)
	}
}

func TestCLI_UnknownIDsAndVariants(t *testing.T) {
	dir := testEnv(t)

	for _, args := range [][]string{
		{"cases", "use", "nope"},
		{"cases", "dup", "nope"},
		{"cases", "export", "nope"},
		{"cases", "rename", "nope", "--name", "x"},
		{"progress", "--case", "nope"},
	} {
		if code := mustFail(t, append([]string{"--dir", dir}, args...)...); code != "not_found" {
			t.Fatalf("%v: code = %q", args, code)
		}
	}
	if code := mustFail(t, "--dir", dir, "cases", "new", "--variant", "bogus"); code != "error" {
		t.Fatalf("code = %q", code)
	}
	if _, _, err := runCLI(t, []string{"--dir", dir, "cases", "rename", "nope"}); err == nil {
		t.Fatalf("rename without flags should fail")
	}
}

func TestCLI_SetAndProgress(t *testing.T) {
	dir := testEnv(t)
	mustObj(t, "--dir", dir, "cases", "new", "--variant", "coreIntervention")

	set := mustObj(t, "--dir", dir, "set", "strands.dyadic", "2")
	if set["value"] != float64(2) || set["path"] != "strands.dyadic" {
		t.Fatalf("unexpected set result: %#v", set)
	}

	if code := mustFail(t, "--dir", dir, "set", "strands.dyadic", "7"); code != "error" {
		t.Fatalf("code = %q", code)
	}
	if code := mustFail(t, "--dir", dir, "set", "strands.nope", "1"); code != "error" {
		t.Fatalf("code = %q", code)
	}

	snap := mustObj(t, "--dir", dir, "progress")
	per := snap["perSection"].(map[string]any)
	if per["strands"] != float64(25) {
		t.Fatalf("strands = %v, want 25 (out-of-range write must not land)", per["strands"])
	}
	sum := 0.0
	for _, v := range per {
		sum += v.(float64)
	}
	if want := float64(int(sum/float64(len(per)) + 0.5)); snap["overall"] != want {
		t.Fatalf("overall = %v, want %v", snap["overall"], want)
	}

	det := mustObj(t, "--dir", dir, "progress", "--detailed")
	secs := det["sections"].([]any)
	if len(secs) != 4 || secs[0].(map[string]any)["id"] != "sessionInfo" {
		t.Fatalf("sections not in schema order: %#v", secs)
	}
	strands := secs[2].(map[string]any)
	if strands["filled"] != float64(1) || strands["slots"] != float64(4) {
		t.Fatalf("strands counts: %#v", strands)
	}

	mustObj(t, "--dir", dir, "set", "modalities.used.play", "yes")
	mustObj(t, "--dir", dir, "set", "risk.safetyConcern", "Present")
	items := mustData(t, "--dir", dir, "items").([]any)
	var sawNotes bool
	for _, it := range items {
		if it.(map[string]any)["itemId"] == "safetyNotes" {
			sawNotes = true
		}
	}
	if !sawNotes {
		t.Fatalf("answering the safety concern should reveal safety notes: %#v", items)
	}
}

func TestCLI_NextSection(t *testing.T) {
	dir := testEnv(t)
	mustObj(t, "--dir", dir, "cases", "new", "--variant", "legacy")

	next := mustObj(t, "--dir", dir, "next")
	if next["sectionId"] != "checklist" || next["complete"] != false {
		t.Fatalf("unexpected next: %#v", next)
	}
}

func TestCLI_ExportImport(t *testing.T) {
	dir := testEnv(t)
	orig := mustObj(t, "--dir", dir, "cases", "new", "--variant", "legacy", "--name", "Source")
	origID := orig["id"].(string)
	mustObj(t, "--dir", dir, "set", "checklist.traumaType", "abuse")

	out := filepath.Join(t.TempDir(), "case.json")
	res := mustObj(t, "--dir", dir, "cases", "export", origID, "--out", out)
	if res["path"] != out {
		t.Fatalf("unexpected export result: %#v", res)
	}

	inline := mustObj(t, "--dir", dir, "cases", "export", origID)
	if inline["schemaVariant"] != "legacy" {
		t.Fatalf("inline export: %#v", inline)
	}

	imported := mustObj(t, "--dir", dir, "cases", "import", out)
	newID := imported["id"].(string)
	if newID == origID || imported["current"] != true || imported["name"] != "Source" {
		t.Fatalf("unexpected import: %#v", imported)
	}
	set := mustObj(t, "--dir", dir, "cases", "show", newID)
	tree := set["case"].(map[string]any)["valueTree"].(map[string]any)
	if tree["checklist"].(map[string]any)["traumaType"] != "abuse" {
		t.Fatalf("answers not imported: %#v", tree)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"meta":{},"valueTree":[1,2]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if code := mustFail(t, "--dir", dir, "cases", "import", bad); code != "import_rejected" {
		t.Fatalf("code = %q", code)
	}
	list := mustData(t, "--dir", dir, "cases", "list").([]any)
	if len(list) != 2 {
		t.Fatalf("rejected import changed the store: %d cases", len(list))
	}
}

func TestCLI_ImportFromStdinUsesFallbackVariant(t *testing.T) {
	dir := testEnv(t)

	cmd := NewRootCmd()
	var outBuf, errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(`{"meta":{"name":"Old"},"valueTree":{"strands":{"dyadic":3}}}`))
	cmd.SetArgs([]string{"--dir", dir, "cases", "import", "-", "--variant", "coreIntervention"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("import: %v\n%s", err, errBuf.String())
	}
	var env struct {
		Data caseSummary `json:"data"`
	}
	if err := json.Unmarshal(outBuf.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Data.Variant != "coreIntervention" || env.Data.Name != "Old" || env.Data.CreatedAt.IsZero() {
		t.Fatalf("unexpected import: %+v", env.Data)
	}
	if env.Data.Overall == 0 {
		t.Fatalf("imported rating should count toward progress")
	}
}

func TestCLI_SchemaAndReport(t *testing.T) {
	dir := testEnv(t)

	variants := mustData(t, "schema").([]any)
	if len(variants) != 7 {
		t.Fatalf("expected 7 variants; got %d", len(variants))
	}
	form := mustObj(t, "schema", "legacy")
	if form["title"] != "CPP Fidelity Checklist" {
		t.Fatalf("unexpected form: %v", form["title"])
	}
	if code := mustFail(t, "schema", "bogus"); code != "error" {
		t.Fatalf("code = %q", code)
	}

	mustObj(t, "--dir", dir, "cases", "new", "--variant", "legacy", "--name", "Report me")
	stdout, stderr, err := runCLI(t, []string{"--dir", dir, "report", "--raw"})
	if err != nil {
		t.Fatalf("report: %v\n%s", err, stderr)
	}
	md := string(stdout)
	for _, want := range []string{"# CPP Fidelity Checklist", "Report me", "## Checklist"} {
		if !strings.Contains(md, want) {
			t.Fatalf("report missing %q:\n%s", want, md)
		}
	}

	out := filepath.Join(t.TempDir(), "r.md")
	mustObj(t, "--dir", dir, "report", "--out", out)
	b, err := os.ReadFile(out)
	if err != nil || string(b) != md {
		t.Fatalf("report file differs from --raw output (err=%v)", err)
	}
}

func TestCLI_RoleFilterFromConfig(t *testing.T) {
	dir := testEnv(t)
	mustObj(t, "--dir", dir, "cases", "new", "--variant", "careCoordinator")

	hasItem := func(items []any, id string) bool {
		for _, it := range items {
			if it.(map[string]any)["itemId"] == id {
				return true
			}
		}
		return false
	}

	all := mustData(t, "--dir", dir, "items").([]any)
	if !hasItem(all, "ccNotes") || !hasItem(all, "clinicalNotes") {
		t.Fatalf("no role should show both notes items")
	}

	mustObj(t, "config", "set", "role", "clinician")
	clin := mustData(t, "--dir", dir, "items").([]any)
	if hasItem(clin, "ccNotes") || !hasItem(clin, "clinicalNotes") {
		t.Fatalf("config role not applied")
	}

	cc := mustData(t, "--dir", dir, "--role", "careCoordinator", "items").([]any)
	if !hasItem(cc, "ccNotes") || hasItem(cc, "clinicalNotes") {
		t.Fatalf("--role should override config")
	}

	if code := mustFail(t, "config", "set", "role", "boss"); code != "error" {
		t.Fatalf("code = %q", code)
	}
	show := mustObj(t, "config", "show")
	if show["config"].(map[string]any)["role"] != "clinician" || show["saveDebounce"] != "400ms" {
		t.Fatalf("unexpected config: %#v", show)
	}
}

func TestCLI_Docs(t *testing.T) {
	testEnv(t)

	list := mustObj(t, "docs")
	if len(list["topics"].([]any)) == 0 {
		t.Fatalf("no docs topics")
	}
	stdout, _, err := runCLI(t, []string{"docs", "progress", "--raw"})
	if err != nil || !strings.HasPrefix(string(stdout), "# ") {
		t.Fatalf("raw docs: err=%v\n%s", err, stdout)
	}
	if code := mustFail(t, "docs", "nope"); code != "not_found" {
		t.Fatalf("code = %q", code)
	}
}

func TestCLI_DataDirFromConfig(t *testing.T) {
	testEnv(t)
	dataDir := filepath.Join(t.TempDir(), "cases")

	mustObj(t, "config", "set", "dataDir", dataDir)
	mustObj(t, "cases", "new", "--variant", "supervision")
	if _, err := os.Stat(filepath.Join(dataDir, "fidelity.sqlite")); err != nil {
		t.Fatalf("expected sqlite file in configured data dir: %v", err)
	}
}
