// ABOUTME: Tests for CLI commands
// ABOUTME: Covers command metadata, layer and feature commands, export, backup, and the edit loop

package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/harper/geoedit/internal/editing"
	"github.com/harper/geoedit/internal/models"
	"github.com/harper/geoedit/internal/session"
	"github.com/harper/geoedit/internal/storage"
	"github.com/harper/geoedit/internal/viewport"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// testDB creates a temporary database for testing and sets the global repo variable.
func testDB(t *testing.T) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := storage.NewSQLiteDB(dbPath)
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	repo = db
	t.Cleanup(func() {
		if repo != nil {
			_ = repo.Close()
			repo = nil
		}
	})
}

func mustLayer(t *testing.T, name string, kind models.GeometryKind) *models.Layer {
	t.Helper()
	layer := models.NewLayer(name, kind)
	if err := repo.CreateLayer(layer); err != nil {
		t.Fatalf("create layer: %v", err)
	}
	return layer
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Tests for rootCmd

func TestRootCmd_Metadata(t *testing.T) {
	if rootCmd.Use != "geoedit" {
		t.Errorf("expected Use 'geoedit', got %q", rootCmd.Use)
	}
	if !strings.Contains(rootCmd.Long, "Draw points, lines, and polygons") {
		t.Error("expected description in Long")
	}
	if rootCmd.PersistentFlags().Lookup("log-level") == nil {
		t.Error("log-level flag not found")
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	want := []string{"layer", "edit", "features", "export", "backup", "import", "migrate", "mcp", "install-skill"}
	var got []string
	for _, c := range rootCmd.Commands() {
		got = append(got, c.Name())
	}
	for _, name := range want {
		if !contains(got, name) {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

// Tests for layer commands

func TestLayerAddCmd_Flags(t *testing.T) {
	kind := layerAddCmd.Flags().Lookup("kind")
	if kind == nil {
		t.Fatal("kind flag not found")
	}
	if kind.Shorthand != "k" || kind.DefValue != "polygon" {
		t.Errorf("unexpected kind flag: -%s default %q", kind.Shorthand, kind.DefValue)
	}
	if layerAddCmd.Flags().Lookup("readonly") == nil {
		t.Error("readonly flag not found")
	}
	if !contains(layerRemoveCmd.Aliases, "rm") {
		t.Error("expected alias 'rm'")
	}
}

func TestLayerAddCmd_Integration(t *testing.T) {
	testDB(t)

	_ = layerAddCmd.Flags().Set("kind", "polyline")
	_ = layerAddCmd.Flags().Set("readonly", "true")
	defer func() {
		_ = layerAddCmd.Flags().Set("kind", "polygon")
		_ = layerAddCmd.Flags().Set("readonly", "false")
	}()

	if err := layerAddCmd.RunE(layerAddCmd, []string{"roads"}); err != nil {
		t.Fatalf("layer add failed: %v", err)
	}

	layer, err := repo.GetLayerByName("roads")
	if err != nil {
		t.Fatalf("layer not created: %v", err)
	}
	if layer.Kind != models.KindPolyline {
		t.Errorf("expected polyline, got %s", layer.Kind)
	}
	if layer.Editable {
		t.Error("expected read-only layer")
	}

	if err := layerAddCmd.RunE(layerAddCmd, []string{"roads"}); err == nil {
		t.Error("expected duplicate layer error")
	}
}

func TestLayerAddCmd_InvalidKind(t *testing.T) {
	testDB(t)

	_ = layerAddCmd.Flags().Set("kind", "hexagon")
	defer func() { _ = layerAddCmd.Flags().Set("kind", "polygon") }()

	if err := layerAddCmd.RunE(layerAddCmd, []string{"x"}); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestLayerListCmd_Integration(t *testing.T) {
	testDB(t)

	if err := layerListCmd.RunE(layerListCmd, nil); err != nil {
		t.Fatalf("list on empty db failed: %v", err)
	}
	mustLayer(t, "wells", models.KindPoint)
	if err := layerListCmd.RunE(layerListCmd, nil); err != nil {
		t.Fatalf("list failed: %v", err)
	}
}

func TestLayerRemoveCmd_Integration(t *testing.T) {
	testDB(t)
	layer := mustLayer(t, "parcels", models.KindPolygon)
	f := models.NewFeature(layer.ID, models.KindPolygon, []models.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}})
	if err := repo.CreateFeature(f); err != nil {
		t.Fatalf("create feature: %v", err)
	}

	_ = layerRemoveCmd.Flags().Set("confirm", "true")
	defer func() { _ = layerRemoveCmd.Flags().Set("confirm", "false") }()

	if err := layerRemoveCmd.RunE(layerRemoveCmd, []string{"parcels"}); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := repo.GetLayerByName("parcels"); err == nil {
		t.Error("layer should be gone")
	}
	if _, err := repo.GetFeature(f.ID); err == nil {
		t.Error("features should be removed with their layer")
	}

	if err := layerRemoveCmd.RunE(layerRemoveCmd, []string{"parcels"}); err == nil {
		t.Error("expected error removing a missing layer")
	}
}

// Tests for features commands

func TestFeaturesCmds_Integration(t *testing.T) {
	testDB(t)
	layer := mustLayer(t, "wells", models.KindPoint)
	f := models.NewFeature(layer.ID, models.KindPoint, []models.Point{{X: 3, Y: 4}})
	if err := repo.CreateFeature(f); err != nil {
		t.Fatalf("create feature: %v", err)
	}

	if err := featuresListCmd.RunE(featuresListCmd, []string{"wells"}); err != nil {
		t.Fatalf("features list failed: %v", err)
	}
	if err := featuresListCmd.RunE(featuresListCmd, []string{"missing"}); err == nil {
		t.Error("expected error for missing layer")
	}

	if err := featuresRemoveCmd.RunE(featuresRemoveCmd, []string{"not-a-uuid"}); err == nil {
		t.Error("expected error for invalid id")
	}
	if err := featuresRemoveCmd.RunE(featuresRemoveCmd, []string{f.ID.String()}); err != nil {
		t.Fatalf("features remove failed: %v", err)
	}
	if _, err := repo.GetFeature(f.ID); err == nil {
		t.Error("feature should be gone")
	}
}

// Tests for export and backup

func TestExportCmd_GeoJSONToFile(t *testing.T) {
	testDB(t)
	layer := mustLayer(t, "roads", models.KindPolyline)
	_ = repo.CreateFeature(models.NewFeature(layer.ID, models.KindPolyline, []models.Point{{X: 0, Y: 0}, {X: 5, Y: 5}}))

	output := filepath.Join(t.TempDir(), "roads.geojson")
	_ = exportCmd.Flags().Set("output", output)
	defer func() { _ = exportCmd.Flags().Set("output", "") }()

	if err := exportCmd.RunE(exportCmd, []string{"roads"}); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "LineString") {
		t.Errorf("expected LineString in export, got %s", data)
	}
}

func TestExportCmd_Errors(t *testing.T) {
	testDB(t)

	_ = exportCmd.Flags().Set("format", "kml")
	if err := exportCmd.RunE(exportCmd, nil); err == nil {
		t.Error("expected error for unsupported format")
	}
	_ = exportCmd.Flags().Set("format", "geojson")

	if err := exportCmd.RunE(exportCmd, nil); err == nil {
		t.Error("expected error when there are no features")
	}
	if err := exportCmd.RunE(exportCmd, []string{"missing"}); err == nil {
		t.Error("expected error for missing layer")
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"24h", false},
		{"7d", false},
		{"1w", false},
		{"1m", false},
		{"", true},
		{"7x", true},
		{"d7", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parseDuration(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseDuration(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestFilterSince(t *testing.T) {
	old := models.NewFeature(models.NewLayer("a", models.KindPoint).ID, models.KindPoint, nil)
	old.CreatedAt = old.CreatedAt.AddDate(0, 0, -10)
	recent := models.NewFeature(old.LayerID, models.KindPoint, nil)

	since, _ := parseDuration("7d")
	got := filterSince([]*models.Feature{old, recent}, since)
	if len(got) != 1 || got[0] != recent {
		t.Errorf("expected only the recent feature, got %d", len(got))
	}
}

func TestBackupAndImportCmds(t *testing.T) {
	testDB(t)
	layer := mustLayer(t, "wells", models.KindPoint)
	_ = repo.CreateFeature(models.NewFeature(layer.ID, models.KindPoint, []models.Point{{X: 1, Y: 2}}))

	output := filepath.Join(t.TempDir(), "backup.yaml")
	_ = backupCmd.Flags().Set("output", output)
	defer func() { _ = backupCmd.Flags().Set("output", "") }()

	if err := backupCmd.RunE(backupCmd, nil); err != nil {
		t.Fatalf("backup failed: %v", err)
	}

	_ = repo.Close()
	testDB(t)
	_ = importCmd.Flags().Set("confirm", "true")
	defer func() { _ = importCmd.Flags().Set("confirm", "false") }()

	if err := importCmd.RunE(importCmd, []string{output}); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	restored, err := repo.GetLayerByName("wells")
	if err != nil {
		t.Fatalf("layer not restored: %v", err)
	}
	features, _ := repo.ListFeatures(restored.ID)
	if len(features) != 1 {
		t.Errorf("expected 1 restored feature, got %d", len(features))
	}
}

func TestStoredCounts(t *testing.T) {
	testDB(t)
	layer := mustLayer(t, "wells", models.KindPoint)
	_ = repo.CreateFeature(models.NewFeature(layer.ID, models.KindPoint, []models.Point{{X: 1, Y: 2}}))
	_ = repo.CreateFeature(models.NewFeature(layer.ID, models.KindPoint, []models.Point{{X: 3, Y: 4}}))

	layers, features, err := storedCounts(repo)
	if err != nil || layers != 1 || features != 2 {
		t.Errorf("storedCounts = %d, %d, %v; want 1, 2, nil", layers, features, err)
	}

	_ = repo.Close()
	if _, _, err := storedCounts(repo); err == nil {
		t.Error("expected error from a closed repository")
	}
}

func TestMigrateCmd_Flags(t *testing.T) {
	for _, name := range []string{"to", "data-dir", "dsn", "force"} {
		if migrateCmd.Flags().Lookup(name) == nil {
			t.Errorf("flag %q not found", name)
		}
	}
	if migrateTargetPath("badger", "/data") != filepath.Join("/data", "badger") {
		t.Error("badger should migrate into the badger subdirectory")
	}
	if migrateTargetPath("sqlite", "/data") != "/data" {
		t.Error("sqlite should migrate into the data directory")
	}
}

func TestMCPCmd_MetricsServer(t *testing.T) {
	if mcpCmd.Flags().Lookup("metrics-addr") == nil {
		t.Fatal("metrics-addr flag not found")
	}
	srv := newMetricsServer(":0")
	if srv.Addr != ":0" || srv.Handler == nil {
		t.Errorf("unexpected metrics server %+v", srv)
	}
}

// Tests for the edit loop

func newTestEditor(t *testing.T, layer *models.Layer) (*editor, *bytes.Buffer) {
	t.Helper()
	view, err := viewport.New(200, 200, models.Point{}, 1)
	if err != nil {
		t.Fatalf("viewport: %v", err)
	}
	sess := session.New(repo, nil)
	if err := sess.Begin(layer); err != nil {
		t.Fatalf("begin: %v", err)
	}
	var out bytes.Buffer
	return &editor{sess: sess, view: view, style: editing.DefaultStyle(), out: &out}, &out
}

func TestEditor_DrawAndSavePolygon(t *testing.T) {
	testDB(t)
	layer := mustLayer(t, "parcels", models.KindPolygon)
	e, out := newTestEditor(t, layer)

	input := "tap 50 50\ntap 150 50\ntap 150 150\nstatus\nsave\n"
	if err := e.run(strings.NewReader(input)); err != nil {
		t.Fatalf("run: %v", err)
	}

	text := out.String()
	if strings.Count(text, "vertex added") != 3 {
		t.Errorf("expected 3 vertices added, got:\n%s", text)
	}
	if !strings.Contains(text, "Saved polygon") {
		t.Errorf("expected save confirmation, got:\n%s", text)
	}

	features, _ := repo.ListFeatures(layer.ID)
	if len(features) != 1 || len(features[0].Points) != 3 {
		t.Fatalf("expected one 3-point feature, got %+v", features)
	}
	if features[0].Points[0] != (models.Point{X: -50, Y: 50}) {
		t.Errorf("unexpected first vertex %v", features[0].Points[0])
	}
}

func TestEditor_ErrorsDoNotEndTheEdit(t *testing.T) {
	testDB(t)
	layer := mustLayer(t, "roads", models.KindPolyline)
	e, out := newTestEditor(t, layer)

	input := "bogus\ntap 10\nundo\nsave\ntap 10 10\ntap 100 100\ntap NaN NaN\ntap +Inf 5\nundo\ndelete\n"
	if err := e.run(strings.NewReader(input)); err != nil {
		t.Fatalf("run: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, `unknown command "bogus"`) {
		t.Errorf("expected unknown command error, got:\n%s", text)
	}
	if !strings.Contains(text, "expected 2 numbers") {
		t.Errorf("expected argument error, got:\n%s", text)
	}
	if strings.Count(text, "tap position must be finite") != 2 {
		t.Errorf("expected non-finite taps to be rejected, got:\n%s", text)
	}
	if !strings.Contains(text, "action not available") {
		t.Errorf("expected unavailable action error, got:\n%s", text)
	}
	if !strings.Contains(text, "edit discarded") {
		t.Errorf("expected discard at end of input, got:\n%s", text)
	}
	if e.sess.Editing() {
		t.Error("edit should be discarded at end of input")
	}
	features, _ := repo.ListFeatures(layer.ID)
	if len(features) != 0 {
		t.Errorf("nothing should be saved, got %d", len(features))
	}
}

func TestEditor_ViewAndRender(t *testing.T) {
	testDB(t)
	layer := mustLayer(t, "wells", models.KindPoint)
	e, out := newTestEditor(t, layer)
	png := filepath.Join(t.TempDir(), "edit.png")

	input := "tap 100 100\nzoom 2\npan 10 0\nrender " + png + "\ngeojson\nhelp\ndiscard\n"
	if err := e.run(strings.NewReader(input)); err != nil {
		t.Fatalf("run: %v", err)
	}

	if e.view.Resolution != 0.5 {
		t.Errorf("expected resolution 0.5, got %g", e.view.Resolution)
	}
	if e.view.Center.X != 5 {
		t.Errorf("expected center x 5, got %g", e.view.Center.X)
	}
	if _, err := os.Stat(png); err != nil {
		t.Errorf("png not written: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, `"Point"`) {
		t.Errorf("expected GeoJSON point, got:\n%s", text)
	}
	if !strings.Contains(text, "tap <x> <y>") {
		t.Errorf("expected help text, got:\n%s", text)
	}
	if !strings.Contains(text, "Edit discarded.") {
		t.Errorf("expected discard message, got:\n%s", text)
	}
}

func TestEditor_RenderWithBackground(t *testing.T) {
	testDB(t)
	layer := mustLayer(t, "wells", models.KindPoint)
	e, out := newTestEditor(t, layer)
	file := filepath.Join(t.TempDir(), "dark.png")

	input := "render " + file + " #000000\nrender " + file + " #000000 extra\ndiscard\n"
	if err := e.run(strings.NewReader(input)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "usage: render") {
		t.Errorf("expected usage error for extra argument, got:\n%s", out.String())
	}

	f, err := os.Open(file)
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	r, g, b, _ := img.At(5, 5).RGBA()
	if r > 0x1000 || g > 0x1000 || b > 0x1000 {
		t.Errorf("corner pixel = (%x, %x, %x), want black background", r, g, b)
	}
}

func TestParseFloats(t *testing.T) {
	got, err := parseFloats([]string{"1.5", "-2"}, 2)
	if err != nil || got[0] != 1.5 || got[1] != -2 {
		t.Errorf("parseFloats = %v, %v", got, err)
	}
	if _, err := parseFloats([]string{"x"}, 1); err == nil {
		t.Error("expected error for non-number")
	}
	if _, err := parseFloats(nil, 1); err == nil {
		t.Error("expected error for missing argument")
	}
}
