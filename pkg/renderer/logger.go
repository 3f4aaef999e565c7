package renderer

import (
	"fmt"
	"strings"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/golang/glog"
)

// GlogLogger implements core.Logger on top of glog's info log
type GlogLogger struct{}

func (GlogLogger) Printf(format string, args ...interface{}) {
	glog.InfoDepth(1, strings.TrimSuffix(fmt.Sprintf(format, args...), "\n"))
}

// NewGlogLogger creates the default renderer logger
func NewGlogLogger() core.Logger {
	return GlogLogger{}
}
