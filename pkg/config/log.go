package config

import (
	"log"
	"os"
)

// InitLog points the standard logger at a file. The client owns the
// terminal through tcell, so nothing may ever log to stdout.
func InitLog(dest, prefix string) error {
	f, err := os.OpenFile(dest, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return err
	}
	log.SetOutput(f)
	log.SetPrefix(prefix)
	return nil
}
