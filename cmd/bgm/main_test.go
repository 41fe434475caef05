package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/bogem/id3v2"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeTagged(t *testing.T, path, title, artist string) {
	t.Helper()

	tag := id3v2.NewEmptyTag()
	tag.SetVersion(3)
	tag.SetDefaultEncoding(id3v2.EncodingISO)
	tag.SetTitle(title)
	tag.SetArtist(artist)

	var buf bytes.Buffer
	if _, err := tag.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	buf.Write(bytes.Repeat([]byte{0xff, 0xfb}, 512))

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestTagsCmd(t *testing.T) {
	dir := t.TempDir()
	tagged := filepath.Join(dir, "lounge.mp3")
	plain := filepath.Join(dir, "Rainy Day.mp3")

	writeTagged(t, tagged, "Lounge", "Someone")
	if err := os.WriteFile(plain, []byte("no tags"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--config", filepath.Join(dir, "none.yaml"), "tags", tagged, plain)
	if err != nil {
		t.Fatalf("tags: %v", err)
	}

	for _, want := range []string{
		"Title:  Lounge (tag)",
		"Artist: Someone",
		"Title:  Rainy Day (file name)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bgm", "config.yaml")

	if _, err := execute(t, "--config", path, "config", "init", "--url", "https://example.com/a.mp3"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := execute(t, "--config", path, "config", "init"); err == nil {
		t.Error("second init without --force should fail")
	}

	out, err := execute(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "https://example.com/a.mp3") || !strings.Contains(out, "volume:               32") {
		t.Errorf("unexpected settings:\n%s", out)
	}
}

func TestFetchCmd(t *testing.T) {
	body := bytes.Repeat([]byte("bgm-"), 1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bgm.mp3" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := filepath.Join(dir, "none.yaml")

	t.Run("dry run", func(t *testing.T) {
		out, err := execute(t, "--config", cfg, "fetch", "--dir", dir, "--dry-run", srv.URL+"/bgm.mp3")
		if err != nil {
			t.Fatalf("fetch --dry-run: %v", err)
		}
		if !strings.Contains(out, "4.1 kB") || !strings.Contains(out, "Dry run") {
			t.Errorf("unexpected output:\n%s", out)
		}
		if _, err := os.Stat(filepath.Join(dir, "BGM.mp3")); !os.IsNotExist(err) {
			t.Error("dry run should not create the file")
		}
	})

	t.Run("download", func(t *testing.T) {
		out, err := execute(t, "--config", cfg, "--log-level", "error", "fetch", "--dir", dir, srv.URL+"/bgm.mp3")
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		if !strings.Contains(out, "Saved") || !strings.Contains(out, "BGM") {
			t.Errorf("unexpected output:\n%s", out)
		}

		got, err := os.ReadFile(filepath.Join(dir, "BGM.mp3"))
		if err != nil || !bytes.Equal(got, body) {
			t.Errorf("downloaded file mismatch (err %v)", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, err := execute(t, "--config", cfg, "--log-level", "panic", "fetch", "--dir", dir, srv.URL+"/missing.mp3")
		if err == nil || !strings.Contains(err.Error(), "HTTP error: 404") {
			t.Errorf("err = %v, want HTTP error: 404", err)
		}
	})
}
