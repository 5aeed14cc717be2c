package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/jwalton/gchalk"
)

func LogInfo(format string, v ...any) {
	logPrint("[info]", 2, format+"\n", v...)
}

func LogWarn(format string, v ...any) {
	logPrint(gchalk.RGB(255, 136, 0)("[warn]"), 2, format+"\n", v...)
}

func LogError(format string, v ...any) {
	logPrint(gchalk.Red("[error]"), 2, format+"\n", v...)
}

func logPrint(level string, depth int, format string, v ...any) {
	hour, min, sec := time.Now().Clock()
	_, file, line, ok := runtime.Caller(depth)
	if !ok {
		file = "???"
		line = 0
	}
	file = file[(strings.LastIndex(file, "/") + 1):]

	fmt.Fprintf(os.Stderr, "[%s] [%s] %s: %s", gchalk.Red(fmt.Sprintf("%02d:%02d:%02d", hour, min, sec)), gchalk.Blue(fmt.Sprintf("%s:%v", file, line)), level, fmt.Sprintf(format, v...))
}
