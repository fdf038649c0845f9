package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"little-genius/internal/config"
	"little-genius/internal/domain"
)

func TestWordsCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"words", "21", "1000", "1001"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := "twenty-one\none thousand\n1001\n"
	if out.String() != want {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestWordsRangeSwapsBounds(t *testing.T) {
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"words", "--start", "12", "--end", "10"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.String() != "10\tten\n11\televen\n12\ttwelve\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if !strings.Contains(errOut.String(), "range adjusted to 10-12") {
		t.Fatalf("expected adjustment notice, got %q", errOut.String())
	}
}

func TestWordsRangeStartsAtZero(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"words", "--end", "2"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.String() != "0\tzero\n1\tone\n2\ttwo\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestCertificateCommandWritesFile(t *testing.T) {
	dir := t.TempDir()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"certificate", "--name", "Asha", "--score", "90", "--mode", "color", "--format", "txt", "--out", dir})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	path := filepath.Join(dir, "LittleGeniusExplorer_Certificate_Asha.txt")
	if strings.TrimSpace(out.String()) != path {
		t.Fatalf("unexpected output %q", out.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "Score: 90 / 10 (Color Finding)") {
		t.Fatalf("unexpected certificate:\n%s", data)
	}
}

func TestCertificateCommandRendersPNGWithConfiguredFonts(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	body := "certificate:\n  fonts: [\"" + filepath.Join(dir, "missing.ttf") + "\"]\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"certificate", "--config", cfgPath, "--name", "రవి", "--format", "png", "--out", dir})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "LittleGeniusExplorer_Certificate_రవి.png"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("expected png data")
	}
}

func TestPNGRendererRejectsBrokenFontFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.ttf")
	if err := os.WriteFile(path, []byte("not a font"), 0o600); err != nil {
		t.Fatalf("write font: %v", err)
	}
	var cfg config.Config
	cfg.Certificate.Fonts = []string{path}
	if _, err := pngRenderer(cfg); err == nil {
		t.Fatalf("expected broken font to fail")
	}
}

func TestCertificateCommandRejectsUnknownMode(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"certificate", "--mode", "planets", "--out", t.TempDir()})
	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGameSettingsFromConfig(t *testing.T) {
	var cfg config.Config
	cfg.Game.Questions = 5
	cfg.Game.AdvanceDelay = "300ms"
	settings := gameSettings(cfg)
	if settings.QuestionCount != 5 || settings.AdvanceDelay != 300*time.Millisecond || settings.PointsPerQuestion != 10 {
		t.Fatalf("unexpected settings %+v", settings)
	}
}

func TestCatalogLoaderFromEmbeddedContent(t *testing.T) {
	var cfg config.Config
	cfg.Catalog.Source = config.SourceEmbedded
	loader, err := catalogLoader(cfg, nil, nil)
	if err != nil {
		t.Fatalf("loader: %v", err)
	}
	entries, err := loader.LoadCatalog(context.Background(), domain.CatalogShapes)
	if err != nil || len(entries) == 0 {
		t.Fatalf("expected embedded shapes, got %d (%v)", len(entries), err)
	}

	cfg.Catalog.Source = config.SourcePostgres
	if _, err := catalogLoader(cfg, nil, nil); err == nil {
		t.Fatalf("expected error without postgres pool")
	}
}

func TestInvalidateCachedCatalogsDropsRedisCopies(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	for _, key := range []string{"explorer:catalog:shapes", "explorer:catalog:animals", "explorer:profiles"} {
		if err := mr.Set(key, "[]"); err != nil {
			t.Fatalf("set %s: %v", key, err)
		}
	}

	var cfg config.Config
	cfg.Redis.Addr = mr.Addr()
	client := newRedisClient(cfg)
	defer client.Close()
	if err := invalidateCachedCatalogs(context.Background(), client, domain.CatalogKinds()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if mr.Exists("explorer:catalog:shapes") || mr.Exists("explorer:catalog:animals") {
		t.Fatalf("expected cached catalogs removed")
	}
	if !mr.Exists("explorer:profiles") {
		t.Fatalf("expected unrelated keys kept")
	}
}
