package cmd

import (
	"os"
	"sync"

	ctx "github.com/pkgsel/pkgsel/context"
	"github.com/pkgsel/pkgsel/utils"
	"github.com/smira/flag"
)

var context *ctx.PkgselContext
var contextMutex sync.Mutex

// FatalError is re-exported from context
type FatalError = ctx.FatalError

// Fatal panics and aborts execution with exit code 1
func Fatal(err error) {
	ctx.Fatal(err)
}

// InitContext initializes context with default settings
func InitContext(flags *flag.FlagSet) error {
	var err error

	contextMutex.Lock()
	defer contextMutex.Unlock()

	if context != nil {
		panic("context already initialized")
	}

	context, err = ctx.NewContext(flags)
	return err
}

// setupLogging configures global logger from context config
func setupLogging() {
	utils.SetupLogger(context.Config().LogFormat, context.Config().LogLevel, os.Stderr)
}

// ShutdownContext shuts context down
func ShutdownContext() {
	contextMutex.Lock()
	defer contextMutex.Unlock()

	context.Shutdown()
	context = nil
}

// CleanupContext does partial shutdown of context
func CleanupContext() {
	context.Cleanup()
}

// GetContext gives access to the context
func GetContext() *ctx.PkgselContext {
	return context
}
