// Package tests provides test data shared by the emulator packages.
package tests

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"
)

// DownloadEnv is the environment variable enabling test data download.
const DownloadEnv = "MOS6502_DOWNLOAD_TESTS"

// download all 256 (one per opcode) Tom Harte 6502 test files into dest dir.
func downloadTomHarteProcTests(tb testing.TB, dest string) {
	const urlfmt = `https://raw.githubusercontent.com/SingleStepTests/65x02/main/6502/v1/%s.json`

	tempdir, err := os.MkdirTemp("", "tom.harte.processor.tests.*")
	if err != nil {
		tb.Fatal(err)
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for opcode := range 256 {
		opstr := fmt.Sprintf("%02x", opcode)
		url := fmt.Sprintf(urlfmt, opstr)

		g.Go(func() error {
			resp, err := http.Get(url)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return errors.Errorf("%s: %s", url, resp.Status)
			}

			f, err := os.Create(filepath.Join(tempdir, opstr+".json"))
			if err != nil {
				return err
			}
			defer f.Close()

			if _, err := io.Copy(f, resp.Body); err != nil {
				return errors.Wrap(err, url)
			}

			tb.Log("downloaded", url, "to", f.Name())
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		os.RemoveAll(tempdir)
		tb.Fatalf("failed to download all files: %s", err)
	}

	if err := os.Rename(tempdir, dest); err != nil {
		tb.Fatal(err)
	}

	tb.Log("renaming", tempdir, "to", dest)
}

var harteOnce sync.Mutex

// TomHarteProcTestsPath returns the directory holding the single-step 6502
// processor tests. When missing, they are downloaded if DownloadEnv is set,
// otherwise the calling test is skipped.
func TomHarteProcTestsPath(tb testing.TB) string {
	harteOnce.Lock()
	defer harteOnce.Unlock()

	_, b, _, _ := runtime.Caller(0)
	testsDir := filepath.Join(filepath.Dir(b), "tomharte.processor.tests")

	if _, err := os.Stat(testsDir); errors.Is(err, fs.ErrNotExist) {
		if os.Getenv(DownloadEnv) == "" {
			tb.Skipf("%s not found, set %s=1 to download it", testsDir, DownloadEnv)
		}
		tb.Log("tomharte.processor.tests directory not found, downloading it...")
		downloadTomHarteProcTests(tb, testsDir)
		tb.Log("Tom Harte Processor Tests downloaded in", testsDir)
	}

	return testsDir
}
