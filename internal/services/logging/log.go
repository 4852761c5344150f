package logging

import (
	"fmt"
	"github.td.teradata.com/sandbox/logic-rom/internal/services/common"
	"sync"
)

type Log struct {
	history []string
	sync    sync.Mutex
	debug   bool
}

func New() *Log {
	return &Log{
		debug: false,
	}
}

func (l *Log) Notify(text string, colour string) {
	str := fmt.Sprintf("%s%s%s", colour, text, common.Reset)

	l.sync.Lock()
	l.history = append(l.history, str)
	l.sync.Unlock()
	fmt.Println(str)
}

func (l *Log) SetDebug(enabled bool) {
	if l.debug != enabled {
		if enabled {
			l.Info("Debug output enabled")
			l.debug = true
		} else {
			l.Info("Debug output disabled")
			l.debug = false
		}
	}
}

func (l *Log) Tracef(text string, a ...interface{}) {
	l.Trace(fmt.Sprintf(text, a...))
}
func (l *Log) Trace(text string) {
	if l.debug {
		l.Notify(text, common.White)
	}
}
func (l *Log) Debugf(text string, a ...interface{}) {
	l.Debug(fmt.Sprintf(text, a...))
}
func (l *Log) Debug(text string) {
	if l.debug {
		l.Notify(text, common.White)
	} else {
		l.sync.Lock()
		l.history = append(l.history, fmt.Sprintf("%s%s%s", common.White, text, common.Reset))
		l.sync.Unlock()
	}
}
func (l *Log) Infof(text string, a ...interface{}) {
	l.Info(fmt.Sprintf(text, a...))
}
func (l *Log) Info(text string) {
	l.Notify(text, common.BrightWhite)
}
func (l *Log) Warnf(text string, a ...interface{}) {
	l.Warn(fmt.Sprintf(text, a...))
}
func (l *Log) Warn(text string) {
	l.Notify(text, common.BrightYellow)
}
func (l *Log) Errorf(text string, a ...interface{}) {
	l.Error(fmt.Sprintf(text, a...))
}
func (l *Log) Error(text string) {
	l.Notify(text, common.BrightRed)
}

func (l *Log) Dump() {
	l.sync.Lock()
	defer l.sync.Unlock()
	for _, line := range l.history {
		fmt.Printf("%s\n", line)
	}
}
