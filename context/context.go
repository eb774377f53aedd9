// Package context provides single entry to all resources
package context

import (
	gocontext "context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"sync"

	"github.com/pkg/errors"
	"github.com/smira/commander"
	"github.com/smira/flag"

	"github.com/pkgsel/pkgsel/catalog"
	"github.com/pkgsel/pkgsel/console"
	"github.com/pkgsel/pkgsel/database"
	"github.com/pkgsel/pkgsel/database/goleveldb"
	"github.com/pkgsel/pkgsel/http"
	"github.com/pkgsel/pkgsel/pgp"
	"github.com/pkgsel/pkgsel/pkgsel"
	"github.com/pkgsel/pkgsel/utils"
)

// PkgselContext is a common context shared by all commands
type PkgselContext struct {
	sync.Mutex

	gocontext.Context

	flags, globalFlags *flag.FlagSet
	configLoaded       bool

	progress   pkgsel.Progress
	downloader pkgsel.Downloader
	database   database.Storage
	catalog    *catalog.RecordList
	fileIndex  *catalog.LazyFileIndex
	verifier   pgp.Verifier

	// Debug features
	fileCPUProfile *os.File
	fileMemProfile *os.File
}

// FatalError is type for panicking to abort execution with non-zero
// exit code and print meaningful explanation
type FatalError struct {
	ReturnCode int
	Message    string
}

// Fatal panics and aborts execution with exit code 1
func Fatal(err error) {
	returnCode := 1
	if err == commander.ErrFlagError || err == commander.ErrCommandError {
		returnCode = 2
	}
	panic(&FatalError{ReturnCode: returnCode, Message: err.Error()})
}

// ConfigLocations lists files searched for configuration when -config is not given
func ConfigLocations() []string {
	return []string{
		filepath.Join(os.Getenv("HOME"), ".pkgsel.conf"),
		"/etc/pkgsel.conf",
	}
}

// Config loads and returns current configuration
func (context *PkgselContext) Config() *utils.ConfigStructure {
	context.Lock()
	defer context.Unlock()

	return context.config()
}

func (context *PkgselContext) config() *utils.ConfigStructure {
	if !context.configLoaded {
		var err error

		configLocation := context.lookupString("config")
		if configLocation != "" {
			err = utils.LoadConfig(configLocation, &utils.Config)

			if err != nil {
				Fatal(err)
			}
		} else {
			configLocations := ConfigLocations()

			for _, configLocation := range configLocations {
				err = utils.LoadConfig(configLocation, &utils.Config)
				if err == nil {
					break
				}
				if !os.IsNotExist(err) {
					Fatal(fmt.Errorf("error loading config file %s: %s", configLocation, err))
				}
			}

			if err != nil {
				fmt.Fprintf(os.Stderr, "Config file not found, creating default config at %s\n\n", configLocations[0])
				_ = utils.SaveConfig(configLocations[0], &utils.Config)
			}
		}

		if rootDir := context.lookupString("root-dir"); rootDir != "" {
			utils.Config.RootDir = rootDir
		}

		context.configLoaded = true
	}
	return &utils.Config
}

func (context *PkgselContext) lookupString(name string) string {
	if f := context.globalFlags.Lookup(name); f != nil {
		return f.Value.String()
	}
	return ""
}

// LookupOption checks boolean flag with default (usually config) and command-line
// setting
func (context *PkgselContext) LookupOption(defaultValue bool, name string) (result bool) {
	context.Lock()
	defer context.Unlock()

	return context.lookupOption(defaultValue, name)
}

func (context *PkgselContext) lookupOption(defaultValue bool, name string) (result bool) {
	result = defaultValue

	if context.globalFlags.IsSet(name) {
		result = context.globalFlags.Lookup(name).Value.Get().(bool)
	}

	if context.flags != context.globalFlags && context.flags.IsSet(name) {
		result = context.flags.Lookup(name).Value.Get().(bool)
	}

	return
}

// MatchMode returns query match mode: -regex flag wins over config
func (context *PkgselContext) MatchMode() catalog.MatchMode {
	context.Lock()
	defer context.Unlock()

	mode, err := catalog.ParseMatchMode(context.config().MatchMode)
	if err != nil {
		Fatal(err)
	}

	if context.lookupOption(mode == catalog.RegexPrefix, "regex") {
		return catalog.RegexPrefix
	}
	return catalog.Exact
}

// Workers returns number of goroutines evaluating queries
func (context *PkgselContext) Workers() int {
	context.Lock()
	defer context.Unlock()

	if context.globalFlags.IsSet("workers") {
		return context.globalFlags.Lookup("workers").Value.Get().(int)
	}
	return context.config().EvalWorkers
}

// Progress creates or returns Progress object
func (context *PkgselContext) Progress() pkgsel.Progress {
	context.Lock()
	defer context.Unlock()

	return context._progress()
}

func (context *PkgselContext) _progress() pkgsel.Progress {
	if context.progress == nil {
		context.progress = console.NewProgress()
		context.progress.Start()
	}

	return context.progress
}

// Downloader returns instance of current downloader
func (context *PkgselContext) Downloader() pkgsel.Downloader {
	context.Lock()
	defer context.Unlock()

	if context.downloader == nil {
		downloadLimit := context.config().DownloadLimit
		if limitFlag := context.flags.Lookup("download-limit"); limitFlag != nil && context.flags.IsSet("download-limit") {
			downloadLimit = limitFlag.Value.Get().(int64)
		}

		maxTries := context.config().DownloadRetries + 1
		if triesFlag := context.flags.Lookup("max-tries"); triesFlag != nil && context.flags.IsSet("max-tries") {
			maxTries = triesFlag.Value.Get().(int)
		}

		context.downloader = http.NewGrabDownloader(downloadLimit, maxTries, context._progress())
	}

	return context.downloader
}

// Verifier returns signature verifier with configured keyrings loaded
func (context *PkgselContext) Verifier() (pgp.Verifier, error) {
	context.Lock()
	defer context.Unlock()

	if context.verifier == nil {
		verifier := pgp.NewGoVerifier(context.config().GpgKeyrings...)
		if err := verifier.InitKeyring(); err != nil {
			return nil, err
		}
		context.verifier = verifier
	}

	return context.verifier, nil
}

// DBPath builds path to database
func (context *PkgselContext) DBPath() string {
	context.Lock()
	defer context.Unlock()

	return context.dbPath()
}

func (context *PkgselContext) dbPath() string {
	return filepath.Join(context.config().GetRootDir(), "db")
}

// FileIndexPath builds path to persisted file index
func (context *PkgselContext) FileIndexPath() string {
	context.Lock()
	defer context.Unlock()

	return filepath.Join(context.config().GetRootDir(), "files.idx")
}

// SyncDir builds path where downloaded sync databases are kept
func (context *PkgselContext) SyncDir() string {
	context.Lock()
	defer context.Unlock()

	return filepath.Join(context.config().GetRootDir(), "sync")
}

// Database opens and returns current instance of database
func (context *PkgselContext) Database() (database.Storage, error) {
	context.Lock()
	defer context.Unlock()

	return context._database()
}

func (context *PkgselContext) _database() (database.Storage, error) {
	if context.database == nil {
		if err := utils.DirIsAccessible(context.config().GetRootDir()); err != nil {
			return nil, err
		}

		db, err := goleveldb.NewOpenDB(context.dbPath())
		if err != nil {
			return nil, errors.Wrap(err, "can't open database")
		}
		context.database = db
	}

	return context.database, nil
}

// Collection returns record collection bound to the database
func (context *PkgselContext) Collection() *catalog.Collection {
	context.Lock()
	defer context.Unlock()

	return context.collection()
}

func (context *PkgselContext) collection() *catalog.Collection {
	db, err := context._database()
	if err != nil {
		Fatal(err)
	}
	return catalog.NewCollection(db)
}

// TagStore returns store of user tags
func (context *PkgselContext) TagStore() *catalog.TagStore {
	context.Lock()
	defer context.Unlock()

	return catalog.NewTagStore(context.config().GetTagsDir())
}

// Catalog loads whole catalog annotated with categories and tags
//
// Catalog is loaded once, InvalidateCatalog forces reload.
func (context *PkgselContext) Catalog() (*catalog.RecordList, error) {
	context.Lock()
	defer context.Unlock()

	if context.catalog != nil {
		return context.catalog, nil
	}

	list, err := context.collection().List()
	if err != nil {
		return nil, err
	}

	categories, err := catalog.LoadCategories(context.config().GetCategoriesFile())
	if err != nil {
		return nil, err
	}

	tags, err := catalog.NewTagStore(context.config().GetTagsDir()).LoadAll()
	if err != nil {
		return nil, err
	}

	list.Annotate(categories, tags)
	context.catalog = list

	return list, nil
}

// InvalidateCatalog drops loaded catalog and file index
func (context *PkgselContext) InvalidateCatalog() {
	context.Lock()
	defer context.Unlock()

	context.catalog = nil
	context.fileIndex = nil
}

// FileIndex returns lazily loaded file index
func (context *PkgselContext) FileIndex() *catalog.LazyFileIndex {
	context.Lock()
	defer context.Unlock()

	if context.fileIndex == nil {
		path := filepath.Join(context.config().GetRootDir(), "files.idx")
		context.fileIndex = catalog.NewLazyFileIndex(catalog.FileIndexFromFile(path))
	}

	return context.fileIndex
}

// NewEvaluator builds evaluator with configured mode and file index
func (context *PkgselContext) NewEvaluator() *catalog.Evaluator {
	return catalog.NewEvaluator(context.MatchMode(), context.FileIndex())
}

// UpdateFlags sets internal copy of flags in the context
func (context *PkgselContext) UpdateFlags(flags *flag.FlagSet) {
	context.Lock()
	defer context.Unlock()

	context.flags = flags
}

// Flags returns current command flags
func (context *PkgselContext) Flags() *flag.FlagSet {
	context.Lock()
	defer context.Unlock()

	return context.flags
}

// GlobalFlags returns flags passed to all commands
func (context *PkgselContext) GlobalFlags() *flag.FlagSet {
	context.Lock()
	defer context.Unlock()

	return context.globalFlags
}

// GoContextHandleSignals upgrades context to handle ^C by aborting context
func (context *PkgselContext) GoContextHandleSignals() {
	context.Lock()
	defer context.Unlock()

	// Catch ^C
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt)

	var cancel gocontext.CancelFunc

	context.Context, cancel = gocontext.WithCancel(context.Context)

	go func() {
		<-sigch
		signal.Stop(sigch)
		fmt.Fprintln(os.Stderr, "Aborting... press ^C once again to abort immediately")
		cancel()
	}()
}

// Shutdown shuts context down
func (context *PkgselContext) Shutdown() {
	context.Lock()
	defer context.Unlock()

	if pkgsel.EnableDebug {
		if context.fileMemProfile != nil {
			_ = pprof.WriteHeapProfile(context.fileMemProfile)
			_ = context.fileMemProfile.Close()
			context.fileMemProfile = nil
		}
		if context.fileCPUProfile != nil {
			pprof.StopCPUProfile()
			_ = context.fileCPUProfile.Close()
			context.fileCPUProfile = nil
		}
	}
	if context.database != nil {
		_ = context.database.Close()
		context.database = nil
	}
	context.catalog = nil
	context.downloader = nil
	if context.progress != nil {
		context.progress.Shutdown()
		context.progress = nil
	}
}

// Cleanup does partial shutdown of context
func (context *PkgselContext) Cleanup() {
	context.Lock()
	defer context.Unlock()

	context.downloader = nil
	if context.progress != nil {
		context.progress.Shutdown()
		context.progress = nil
	}
}

// NewContext initializes context with default settings
func NewContext(flags *flag.FlagSet) (*PkgselContext, error) {
	var err error

	context := &PkgselContext{
		flags:       flags,
		globalFlags: flags,
		Context:     gocontext.TODO(),
	}

	if pkgsel.EnableDebug {
		if f := flags.Lookup("cpuprofile"); f != nil && f.Value.String() != "" {
			context.fileCPUProfile, err = os.Create(f.Value.String())
			if err != nil {
				return nil, err
			}
			if err = pprof.StartCPUProfile(context.fileCPUProfile); err != nil {
				return nil, err
			}
		}

		if f := flags.Lookup("memprofile"); f != nil && f.Value.String() != "" {
			context.fileMemProfile, err = os.Create(f.Value.String())
			if err != nil {
				return nil, err
			}
		}
	}

	return context, nil
}
