package medrec

import (
	"bufio"
	"io"
	"iter"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// TextFile persists records as newline delimited text, one record per line and
// six space separated fields per record, see encodeLine.
type TextFile struct {
	fs     FileSystem
	path   string
	logger Logger
}

// NewTextFile returns a TextFile on path. A nil fs means the os file system.
func NewTextFile(fs FileSystem, path string) *TextFile {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	return &TextFile{
		fs:     fs,
		path:   path,
		logger: NopLogger(),
	}
}

// WithLogger sets where skipped lines and backup events are reported.
func (tf *TextFile) WithLogger(logger Logger) *TextFile {
	if logger == nil {
		logger = NopLogger()
	}
	tf.logger = logger
	return tf
}

// Path returns the file the records are kept in.
func (tf *TextFile) Path() string {
	return tf.path
}

// Save truncates the file and writes records into it. The previous content is
// kept aside as <path>.bak while writing and put back if the write fails.
func (tf *TextFile) Save(records iter.Seq[*Record]) (err error) {
	if err = ensureParent(tf.fs, tf.path); err != nil {
		return WrapIO(err, "TextFile.Save could not create directory")
	}

	restoreFn, cleanFn, err := backupFile(tf.fs, tf.path)
	if err != nil {
		return WrapIO(err, "TextFile.Save")
	}
	defer func() {
		if err == nil {
			_ = cleanFn()
			return
		}

		if rerr := restoreFn(); rerr != nil {
			tf.logger.Log("could not restore %s from backup: %v", tf.path, rerr)
			return
		}
		tf.logger.Log("restored %s from backup after failed save", tf.path)
	}()

	fd, err := tf.fs.OpenFile(tf.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return WrapIO(err, "TextFile.Save could not open file")
	}

	if err = writeRecords(fd, records); err != nil {
		_ = fd.Close()
		return WrapIO(err, "TextFile.Save could not write file")
	}

	if err = fd.Sync(); err != nil {
		_ = fd.Close()
		return WrapIO(err, "TextFile.Save could not sync file")
	}

	if err = fd.Close(); err != nil {
		return WrapIO(err, "TextFile.Save could not close file")
	}

	return nil
}

func writeRecords(w io.Writer, records iter.Seq[*Record]) error {
	bw := bufio.NewWriter(w)
	for rec := range records {
		if _, err := bw.Write(encodeLine(rec)); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Load reads the file line by line. Lines that do not decode are skipped and
// counted, blank lines are ignored.
func (tf *TextFile) Load(insert func(*Record)) (skipped int, err error) {
	fd, err := tf.fs.Open(tf.path)
	if err != nil {
		return 0, WrapIO(err, "TextFile.Load could not open file")
	}
	defer fd.Close()

	reader := bufio.NewReader(fd)
	lineNo := 0
	for {
		line, rerr := reader.ReadString('\n')
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return skipped, WrapIO(rerr, "TextFile.Load could not read file")
		}

		if len(line) != 0 {
			lineNo++
			if strings.TrimSpace(line) != "" {
				rec, derr := decodeLine(line)
				if derr != nil {
					skipped++
					tf.logger.Log("%s:%d skipped: %v", tf.path, lineNo, derr)
				} else {
					insert(rec)
				}
			}
		}

		if rerr != nil {
			break
		}
	}

	return skipped, nil
}
