package mlog

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// Log wraps logrus.Logger and holds information of logging file.
type Log struct {
	*logrus.Logger

	file     *os.File
	location string
	mu       sync.Mutex
}

// New creates Log object.
// TODO: logging with linux logrotate.
func New(location string) (*Log, error) {
	l := &Log{}

	l.Logger = logrus.New()
	l.location = location

	if l.location == "stderr" {
		l.Out = os.Stderr
		l.file = nil
	} else {
		f, err := os.OpenFile(location, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			return nil, err
		}
		l.Out = f
		l.file = f
	}

	return l, nil
}

// global is the process-wide log object, set once by Init.
var global *Log

// Init creates the process-wide log object with the given location.
func Init(location string) error {
	l, err := New(location)
	if err != nil {
		return err
	}
	global = l
	return nil
}

// GetLogger returns the process-wide logger.
// Falls back to a stderr logger when Init has not been called,
// so that tests can log without any setup.
func GetLogger() *logrus.Logger {
	if global == nil {
		global = &Log{Logger: logrus.New(), location: "stderr"}
		global.Out = os.Stderr
	}
	return global.Logger
}

// GetPackageLogger returns a logger entry tagged with the package name.
func GetPackageLogger(pkg string) *logrus.Entry {
	return GetLogger().WithField("package", pkg)
}

// GetFunctionLogger returns a logger entry tagged with the function name.
func GetFunctionLogger(l *logrus.Entry, function string) *logrus.Entry {
	return l.WithField("function", function)
}

// GetMethodLogger returns a logger entry tagged with the method name.
func GetMethodLogger(l *logrus.Entry, method string) *logrus.Entry {
	return l.WithField("method", method)
}
