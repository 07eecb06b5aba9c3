// Package tests provides the test ROMs shared by package tests.
package tests

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

const romsURL = `https://github.com/christopherpow/nes-test-roms/archive/refs/heads/master.zip`

func extract(f *zip.File, fpath string) error {
	if err := os.MkdirAll(filepath.Dir(fpath), os.ModePerm); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(fpath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func decompress(zipFile, dest string) error {
	r, err := zip.OpenReader(zipFile)
	if err != nil {
		return err
	}
	defer r.Close()

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for _, f := range r.File {
		fname := strings.Replace(f.Name, "nes-test-roms-master", "nes-test-roms", 1)
		fpath := filepath.Join(dest, fname)
		if !strings.HasPrefix(fpath, filepath.Clean(dest)+string(os.PathSeparator)) {
			return fmt.Errorf("%s: illegal file path", fpath)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		g.Go(func() error { return extract(f, fpath) })
	}
	return g.Wait()
}

func download(dest string) error {
	resp, err := http.Get(romsURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: %s", romsURL, resp.Status)
	}

	tmpf, err := os.CreateTemp("", "nes-test-roms-*-.zip")
	if err != nil {
		return err
	}
	defer os.Remove(tmpf.Name())

	if _, err := io.Copy(tmpf, resp.Body); err != nil {
		tmpf.Close()
		return err
	}
	if err := tmpf.Close(); err != nil {
		return err
	}

	// Extract into a temporary directory first so that an interrupted
	// download doesn't leave a partial roms directory.
	tmpdir, err := os.MkdirTemp(dest, "roms-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpdir)

	if err := decompress(tmpf.Name(), tmpdir); err != nil {
		return fmt.Errorf("failed to decompress test roms: %w", err)
	}
	return os.Rename(filepath.Join(tmpdir, "nes-test-roms"), filepath.Join(dest, "nes-test-roms"))
}

var (
	romsOnce sync.Once
	romsDir  string
	romsErr  error
)

// RomsPath returns the directory holding the nes-test-roms collection,
// downloading it on first use. The test is skipped if it can't be fetched.
func RomsPath(tb testing.TB) string {
	romsOnce.Do(func() {
		_, b, _, _ := runtime.Caller(0)
		testsDir := filepath.Dir(b)
		romsDir = filepath.Join(testsDir, "nes-test-roms")

		if _, err := os.Stat(romsDir); errors.Is(err, fs.ErrNotExist) {
			tb.Log("nes-test-roms directory not found, downloading it...")
			romsErr = download(testsDir)
			if romsErr == nil {
				tb.Log("Test roms downloaded in", romsDir)
			}
		}
	})

	if romsErr != nil {
		tb.Skipf("test roms unavailable: %v", romsErr)
	}
	return romsDir
}
