package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/smira/commander"
	"github.com/smira/flag"

	"github.com/pkgsel/pkgsel/catalog"
	"github.com/pkgsel/pkgsel/http"
	"github.com/pkgsel/pkgsel/pkgsel"
	"github.com/pkgsel/pkgsel/utils"
)

// repoURL builds URL of repo database file on the mirror
func repoURL(mirror, repo, arch, suffix string) string {
	return fmt.Sprintf("%s/%s/os/%s/%s%s", strings.TrimRight(mirror, "/"), repo, arch, repo, suffix)
}

// fetchRepo downloads repo database files into dir, file list is optional
func fetchRepo(repo, dir string, verify bool) (dbPath, filesPath string, err error) {
	config := context.Config()
	downloader := context.Downloader()

	dbPath = filepath.Join(dir, repo+".db")
	context.Progress().Printf("Downloading %s...\n", repoURL(config.Mirror, repo, config.Architecture, ".db"))
	err = downloader.Download(context, repoURL(config.Mirror, repo, config.Architecture, ".db"), dbPath)
	if err != nil {
		return "", "", errors.Wrapf(err, "unable to download %s database", repo)
	}

	if verify {
		sigPath := dbPath + ".sig"
		err = downloader.Download(context, repoURL(config.Mirror, repo, config.Architecture, ".db.sig"), sigPath)
		if err != nil {
			return "", "", errors.Wrapf(err, "unable to download signature of %s database", repo)
		}

		if err = verifyFile(dbPath, sigPath); err != nil {
			return "", "", errors.Wrapf(err, "verification of %s database failed", repo)
		}
	}

	filesPath = filepath.Join(dir, repo+".files")
	err = downloader.Download(context, repoURL(config.Mirror, repo, config.Architecture, ".files"), filesPath)
	if err != nil {
		if http.IsMissing(err) {
			context.Progress().ColoredPrintf("@y[!]@| @!no file list for %s on the mirror@|", repo)
			return dbPath, "", nil
		}
		return "", "", errors.Wrapf(err, "unable to download %s file list", repo)
	}

	return dbPath, filesPath, nil
}

func verifyFile(path, sigPath string) error {
	verifier, err := context.Verifier()
	if err != nil {
		return err
	}

	cleartext, err := os.Open(path)
	if err != nil {
		return err
	}
	defer cleartext.Close()

	signature, err := os.Open(sigPath)
	if err != nil {
		return err
	}
	defer signature.Close()

	keyInfo, err := verifier.VerifyDetachedSignature(signature, cleartext)
	if err != nil {
		return err
	}

	for _, key := range keyInfo.GoodKeys {
		context.Progress().Printf("Good signature by key %s\n", key)
	}

	return nil
}

func readSyncFile(path, repo string) ([]catalog.Record, catalog.FileIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	return catalog.ReadSyncDB(f, repo)
}

// importRepo replaces repo content in the collection and fixes up file index
func importRepo(repo, dbPath, filesPath string, index catalog.FileIndex, reporter pkgsel.ResultReporter) error {
	records, dbFiles, err := readSyncFile(dbPath, repo)
	if err != nil {
		return err
	}

	if filesPath != "" {
		var listFiles catalog.FileIndex
		_, listFiles, err = readSyncFile(filesPath, repo)
		if err != nil {
			return err
		}
		dbFiles.Merge(listFiles)
	}

	collection := context.Collection()

	err = collection.ForEach(func(r catalog.Record) error {
		for _, v := range r[catalog.AttrRepo] {
			if v == repo {
				delete(index, r.Name())
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err = collection.ReplaceRepo(repo, records, reporter); err != nil {
		return err
	}

	index.Merge(dbFiles)

	context.Progress().Printf("Repo %s: %d packages\n", repo, len(records))
	return nil
}

func pkgselSync(cmd *commander.Command, args []string) error {
	config := context.Config()

	repos := args
	if len(repos) == 0 {
		repos = config.Repos
	}
	if len(repos) == 0 {
		return fmt.Errorf("no repos to sync, configure repos or pass them as arguments")
	}

	verify := !context.LookupOption(config.GpgDisableVerify, "ignore-signatures")

	dir := context.SyncDir()
	if err := utils.EnsureDir(dir); err != nil {
		return err
	}

	index, err := catalog.LoadFileIndex(context.FileIndexPath())
	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			return err
		}
		index = catalog.FileIndex{}
	}

	context.GoContextHandleSignals()

	reporter := &pkgsel.ConsoleResultReporter{Progress: context.Progress()}

	for _, repo := range repos {
		dbPath, filesPath, err := fetchRepo(repo, dir, verify)
		if err != nil {
			return err
		}

		if err = importRepo(repo, dbPath, filesPath, index, reporter); err != nil {
			return errors.Wrapf(err, "unable to import %s", repo)
		}
	}

	if err = catalog.SaveFileIndex(context.FileIndexPath(), index); err != nil {
		return err
	}

	collection := context.Collection()
	if err = collection.Compact(); err != nil {
		return err
	}

	context.InvalidateCatalog()

	context.Progress().Printf("\nCatalog has %d packages.\n", collection.Len())
	return nil
}

func makeCmdSync() *commander.Command {
	cmd := &commander.Command{
		Run:       pkgselSync,
		UsageLine: "sync [<repo> ...]",
		Short:     "sync catalog from mirror",
		Long: `
Command sync downloads repository databases from the configured mirror,
verifies their signatures and replaces catalog content of each repository.
File lists are used to rebuild file index (attribute file in queries).

If no repos are given, all repos from configuration are synced.

Example:

  $ pkgsel sync core extra
`,
		Flag: *flag.NewFlagSet("pkgsel-sync", flag.ExitOnError),
	}

	cmd.Flag.Bool("ignore-signatures", false, "disable verification of database signatures")
	cmd.Flag.Int64("download-limit", 0, "limit download speed (kbytes/sec)")
	cmd.Flag.Int("max-tries", 1, "max download tries till process fails with download error")

	return cmd
}
