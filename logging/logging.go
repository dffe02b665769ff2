package logging

import (
	"io"
	"log"
	"os"
)

var (
	InfoLog = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	WarnLog = log.New(os.Stdout, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrLog  = log.New(os.Stderr, "ERR:  ", log.Ldate|log.Ltime|log.Lshortfile)

	// DbgLog is silent unless SetDebug(true) is called
	DbgLog = log.New(io.Discard, "DBG:  ", log.Ldate|log.Ltime|log.Lshortfile)
)

func SetDebug(enabled bool) {

	if enabled {
		DbgLog.SetOutput(os.Stdout)
	} else {
		DbgLog.SetOutput(io.Discard)
	}
}
