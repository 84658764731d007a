package config

import (
	"io"
	"log"
	"os"
)

// Logger returns the run logger: stderr, plus LogFile opened for append when set.
// The returned closer releases the file.
func (c *Config) Logger() (*log.Logger, io.Closer, error) {
	if c.LogFile == "" {
		return log.New(os.Stderr, "", log.LstdFlags), io.NopCloser(nil), nil
	}
	outfile, err := os.OpenFile(c.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, nil, err
	}
	return log.New(io.MultiWriter(os.Stderr, outfile), "", log.LstdFlags), outfile, nil
}
