package restyutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// FilesystemOutput writes one dump file per http exchange into a directory.
// The directory is emptied when the output is created so every run starts
// from a clean slate.
type FilesystemOutput struct {
	dir string
}

func NewFilesystemOutput(dir string) FilesystemOutput {
	os.RemoveAll(dir)
	if err := os.MkdirAll(dir, 0777); err != nil {
		panic(fmt.Sprintf("could not create http dump directory: %s", err))
	}
	return FilesystemOutput{dir: dir}
}

func (o FilesystemOutput) Write(id string, contents string) {
	path := filepath.Join(o.dir, id+".txt")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		slog.Warn("could not write http dump", "path", path, "err", err)
	}
}
