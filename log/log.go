package log

import (
	"fmt"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"
)

var (
	level = INFO

	mux         sync.RWMutex
	subscribers = map[Subscription]struct{}{}
)

func init() {
	log.SetOutput(os.Stdout)
	log.SetLevel(log.DebugLevel)
}

type Event struct {
	LogLevel LogLevel
	Payload  string
}

func (e *Event) Type() string {
	return e.LogLevel.String()
}

type Subscription chan Event

// Subscribe registers a listener receiving every later log event. Events
// are dropped for listeners that do not keep up.
func Subscribe() Subscription {
	sub := make(Subscription, 512)

	mux.Lock()
	defer mux.Unlock()
	subscribers[sub] = struct{}{}

	return sub
}

func UnSubscribe(sub Subscription) {
	mux.Lock()
	defer mux.Unlock()
	delete(subscribers, sub)
}

func Level() LogLevel {
	return level
}

func SetLevel(newLevel LogLevel) {
	level = newLevel
}

func Infoln(format string, v ...any) {
	event := newEvent(INFO, format, v...)
	print(event)
}

func Warnln(format string, v ...any) {
	event := newEvent(WARNING, format, v...)
	print(event)
}

func Errorln(format string, v ...any) {
	event := newEvent(ERROR, format, v...)
	print(event)
}

func Debugln(format string, v ...any) {
	event := newEvent(DEBUG, format, v...)
	print(event)
}

func Fatalln(format string, v ...any) {
	log.Fatalf(format, v...)
}

func print(data Event) {
	broadcast(data)
	if data.LogLevel < level {
		return
	}

	switch data.LogLevel {
	case INFO:
		log.Infoln(data.Payload)
	case WARNING:
		log.Warnln(data.Payload)
	case ERROR:
		log.Errorln(data.Payload)
	case DEBUG:
		log.Debugln(data.Payload)
	}
}

func broadcast(data Event) {
	mux.RLock()
	defer mux.RUnlock()
	for sub := range subscribers {
		select {
		case sub <- data:
		default:
		}
	}
}

func newEvent(logLevel LogLevel, format string, v ...any) Event {
	return Event{
		LogLevel: logLevel,
		Payload:  fmt.Sprintf(format, v...),
	}
}
