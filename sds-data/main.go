package main

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	sds "github.com/bangzek/sds-data"
)

// notices prints log messages the way the data consumers expect them on
// stderr: "# message".
type notices struct{}

func (notices) Format(e *logrus.Entry) ([]byte, error) {
	b := make([]byte, 0, len(e.Message)+3)
	b = append(b, "# "...)
	b = append(b, e.Message...)
	return append(b, '\n'), nil
}

type port interface {
	sds.Transport
	Close()
}

func main() {
	log := newLogger(os.Stderr, os.Getenv("SDS_LOG_LEVEL"))
	os.Exit(run(os.Args, log, os.Stdout, openPort))
}

// newLogger also routes the library's messages to the returned logger.
func newLogger(w io.Writer, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(notices{})
	if level != "" {
		if lv, err := logrus.ParseLevel(level); err == nil {
			log.SetLevel(lv)
		}
	}
	sds.InfoLogFunc = log.Infof
	sds.DebugLogFunc = log.Debugf
	return log
}

func openPort() (port, error) {
	if dev := os.Getenv("SDS_TTY"); dev != "" {
		sp := &sds.SerialPort{Dev: dev}
		if err := sp.Open(); err != nil {
			return nil, err
		}
		return sp, nil
	}
	up := new(sds.USBPort)
	if err := up.Open(); err != nil {
		return nil, err
	}
	return up, nil
}

// run returns the exit code: 0 completed, 1 aborted, 2 bad arguments.
func run(
	args []string,
	log *logrus.Logger,
	out io.Writer,
	open func() (port, error),
) int {
	cfg, err := sds.ParseArgs(args[1:])
	if err != nil {
		log.Errorf("%s: error: %s", args[0], err)
		return 2
	}

	p, err := open()
	if err != nil {
		log.Error(err)
		return 1
	}
	defer p.Close()

	con := &sds.Controller{
		Port:   p,
		Config: cfg,
		Out:    out,
	}
	if err := con.Run(); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}
